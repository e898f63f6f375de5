package ledger

import (
	"math"
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// Library policy defaults.
const (
	DefaultFinePerDay    = 5
	DefaultMaxRenewals   = 2
	DefaultExtensionDays = 14
)

const day = 24 * time.Hour

// LoanPolicy configures fines and renewals for newly issued loans.
type LoanPolicy struct {
	FinePerDay    float64
	MaxRenewals   int
	ExtensionDays int
}

// DefaultLoanPolicy returns the standard library policy.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		FinePerDay:    DefaultFinePerDay,
		MaxRenewals:   DefaultMaxRenewals,
		ExtensionDays: DefaultExtensionDays,
	}
}

// Normalize replaces unset or negative values with the defaults.
func (p LoanPolicy) Normalize() LoanPolicy {
	if p.FinePerDay < 0 {
		p.FinePerDay = DefaultFinePerDay
	}
	if p.MaxRenewals < 0 {
		p.MaxRenewals = DefaultMaxRenewals
	}
	if p.ExtensionDays <= 0 {
		p.ExtensionDays = DefaultExtensionDays
	}
	return p
}

// LoanSummary counts loans and totals their fines.
type LoanSummary struct {
	ActiveBooks   int     `json:"active_books"`
	ReturnedBooks int     `json:"returned_books"`
	TotalFine     float64 `json:"total_fine"`
}

// DaysOverdue returns the whole days, rounded up, between due and now.
func DaysOverdue(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(math.Ceil(float64(now.Sub(dueDate)) / float64(day)))
}

// AccrueFine assigns the fine owed at now. Returned and lost loans keep their
// frozen fine. Calling it repeatedly with the same now yields the same loan.
func AccrueFine(loan models.LibraryLoan, now time.Time) models.LibraryLoan {
	if loan.Status.Closed() {
		return loan
	}
	if !now.After(loan.DueDate) {
		loan.Fine = 0
		return loan
	}
	loan.Fine = round2(float64(DaysOverdue(loan.DueDate, now)) * loan.FinePerDay)
	loan.Status = models.LoanOverdue
	return loan
}

// CanRenew reports whether the loan is still Issued and below its renewal cap.
// Overdue loans cannot be renewed.
func CanRenew(loan models.LibraryLoan) bool {
	return loan.RenewalCount < loan.MaxRenewals && loan.Status == models.LoanIssued
}

// RenewLoan extends the due date by extensionDays. Fine and status are left to
// the next AccrueFine call.
func RenewLoan(loan models.LibraryLoan, now time.Time, extensionDays int) (models.LibraryLoan, error) {
	if !CanRenew(loan) {
		return loan, ErrRenewalNotAllowed
	}
	if extensionDays <= 0 {
		extensionDays = DefaultExtensionDays
	}

	renewedAt := now
	loan.DueDate = loan.DueDate.AddDate(0, 0, extensionDays)
	loan.RenewalCount++
	loan.LastRenewedAt = &renewedAt
	return loan, nil
}

// ReturnLoan accrues the fine owed at now and closes the loan, freezing the fine.
func ReturnLoan(loan models.LibraryLoan, now time.Time) (models.LibraryLoan, error) {
	if loan.Status.Closed() {
		return loan, ErrLoanClosed
	}
	returned := AccrueFine(loan, now)
	returnedAt := now
	returned.ReturnDate = &returnedAt
	returned.Status = models.LoanReturned
	return returned, nil
}

// MarkLoanLost closes an open loan as lost, freezing the fine accrued at now.
func MarkLoanLost(loan models.LibraryLoan, now time.Time) (models.LibraryLoan, error) {
	if loan.Status.Closed() {
		return loan, ErrLoanClosed
	}
	lost := AccrueFine(loan, now)
	lost.Status = models.LoanLost
	return lost, nil
}

// SummarizeLoans counts active and returned loans and totals every fine.
func SummarizeLoans(loans []models.LibraryLoan) LoanSummary {
	summary := LoanSummary{}
	for _, loan := range loans {
		switch loan.Status {
		case models.LoanIssued, models.LoanOverdue:
			summary.ActiveBooks++
		case models.LoanReturned:
			summary.ReturnedBooks++
		}
		summary.TotalFine += loan.Fine
	}
	summary.TotalFine = round2(summary.TotalFine)
	return summary
}
