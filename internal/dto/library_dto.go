package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/models"
)

// LoanIssueRequest issues a book to a student. The due date defaults to the
// policy extension period after the issue date.
type LoanIssueRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	BookID    string  `json:"book_id" validate:"required,max=64"`
	Title     string  `json:"title" validate:"required,max=255"`
	Author    string  `json:"author" validate:"required,max=255"`
	ISBN      string  `json:"isbn" validate:"omitempty,max=32"`
	Category  string  `json:"category" validate:"omitempty,max=64"`
	IssueDate *string `json:"issue_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DueDate   *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// LoanCloseRequest carries optional remarks when returning or losing a book.
type LoanCloseRequest struct {
	Remarks string `json:"remarks" validate:"omitempty,max=500"`
}

// LoanResponse is a library loan.
type LoanResponse struct {
	ID            uint        `json:"id"`
	Book          models.Book `json:"book"`
	IssueDate     time.Time   `json:"issue_date"`
	DueDate       time.Time   `json:"due_date"`
	ReturnDate    *time.Time  `json:"return_date"`
	Status        string      `json:"status"`
	Fine          float64     `json:"fine"`
	FinePerDay    float64     `json:"fine_per_day"`
	RenewalCount  int         `json:"renewal_count"`
	MaxRenewals   int         `json:"max_renewals"`
	LastRenewedAt *time.Time  `json:"last_renewed_at"`
	CanRenew      bool        `json:"can_renew"`
	Remarks       string      `json:"remarks"`
}

// LibraryOverviewResponse groups the student's loans.
type LibraryOverviewResponse struct {
	Summary  ledger.LoanSummary `json:"summary"`
	Active   []LoanResponse     `json:"active"`
	Returned []LoanResponse     `json:"returned"`
	Lost     []LoanResponse     `json:"lost"`
}

// NewLoanResponse converts a model into a DTO.
func NewLoanResponse(model models.LibraryLoan) LoanResponse {
	return LoanResponse{
		ID:            model.ID,
		Book:          model.Book,
		IssueDate:     model.IssueDate,
		DueDate:       model.DueDate,
		ReturnDate:    model.ReturnDate,
		Status:        string(model.Status),
		Fine:          model.Fine,
		FinePerDay:    model.FinePerDay,
		RenewalCount:  model.RenewalCount,
		MaxRenewals:   model.MaxRenewals,
		LastRenewedAt: model.LastRenewedAt,
		CanRenew:      ledger.CanRenew(model),
		Remarks:       model.Remarks,
	}
}

// NewLibraryOverviewResponse partitions loans by status.
func NewLibraryOverviewResponse(loans []models.LibraryLoan) LibraryOverviewResponse {
	overview := LibraryOverviewResponse{
		Summary:  ledger.SummarizeLoans(loans),
		Active:   []LoanResponse{},
		Returned: []LoanResponse{},
		Lost:     []LoanResponse{},
	}

	for _, loan := range loans {
		switch loan.Status {
		case models.LoanReturned:
			overview.Returned = append(overview.Returned, NewLoanResponse(loan))
		case models.LoanLost:
			overview.Lost = append(overview.Lost, NewLoanResponse(loan))
		default:
			overview.Active = append(overview.Active, NewLoanResponse(loan))
		}
	}

	return overview
}
