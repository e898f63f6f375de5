package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// ReceiptPrefix starts every generated receipt number.
const ReceiptPrefix = "REC"

// PaymentInput carries the request-supplied fields of a payment.
type PaymentInput struct {
	Amount        float64
	Method        models.PaymentMethod
	TransactionID string
	Remarks       string
	// ReceiptNumber is generated when left empty.
	ReceiptNumber string
}

// FeeTotals aggregates amounts across several fee accounts.
type FeeTotals struct {
	TotalAmount  float64 `json:"total_amount"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	Overdue      int     `json:"overdue"`
}

// FeeStatusAt derives the fee status from the amounts, the due date and now.
func FeeStatusAt(paid, total float64, dueDate, now time.Time) models.FeeStatus {
	switch {
	case paid >= total:
		return models.FeeStatusPaid
	case paid > 0:
		return models.FeeStatusPartial
	case now.After(dueDate):
		return models.FeeStatusOverdue
	default:
		return models.FeeStatusPending
	}
}

// PendingAmount computes total − paid + lateFee − discount.
func PendingAmount(account models.FeeAccount) float64 {
	return round2(account.TotalAmount - account.PaidAmount + account.LateFee - account.Discount)
}

// RecomputeFee refreshes the derived pending amount and status. It is
// idempotent for a fixed now.
func RecomputeFee(account models.FeeAccount, now time.Time) models.FeeAccount {
	account.PendingAmount = PendingAmount(account)
	account.Status = FeeStatusAt(account.PaidAmount, account.TotalAmount, account.DueDate, now)
	return account
}

// ApplyPayment records a payment and recomputes the derived fields in one step.
// On error the returned account is the unchanged input.
func ApplyPayment(account models.FeeAccount, input PaymentInput, now time.Time) (models.FeeAccount, error) {
	if !(input.Amount > 0) || math.IsInf(input.Amount, 0) || !wholeCents(input.Amount) {
		return account, ErrInvalidAmount
	}
	if !input.Method.Valid() {
		return account, ErrInvalidPaymentMethod
	}

	receipt := strings.TrimSpace(input.ReceiptNumber)
	if receipt == "" {
		receipt = NewReceiptNumber(now)
	}

	next := account
	next.Payments = make([]models.Payment, len(account.Payments), len(account.Payments)+1)
	copy(next.Payments, account.Payments)
	next.Payments = append(next.Payments, models.Payment{
		FeeAccountID:  account.ID,
		Amount:        input.Amount,
		Method:        input.Method,
		PaymentDate:   now,
		TransactionID: strings.TrimSpace(input.TransactionID),
		ReceiptNumber: receipt,
		Remarks:       strings.TrimSpace(input.Remarks),
	})
	next.PaidAmount = addCents(account.PaidAmount, input.Amount)

	return RecomputeFee(next, now), nil
}

// NewReceiptNumber builds a unique, non-cryptographic receipt number.
func NewReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return ReceiptPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

// SummarizeFees totals the amounts of the given accounts.
func SummarizeFees(accounts []models.FeeAccount) FeeTotals {
	totals := FeeTotals{}
	for _, account := range accounts {
		totals.TotalAmount += account.TotalAmount
		totals.TotalPaid += account.PaidAmount
		totals.TotalPending += account.PendingAmount
		if account.Status == models.FeeStatusOverdue {
			totals.Overdue++
		}
	}
	totals.TotalAmount = round2(totals.TotalAmount)
	totals.TotalPaid = round2(totals.TotalPaid)
	totals.TotalPending = round2(totals.TotalPending)
	return totals
}
