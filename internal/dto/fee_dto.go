package dto

import (
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// PaymentRequest is the payload for paying towards a fee account. Amount is
// checked by the ledger so non-positive values surface as an invalid amount.
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	TransactionID string  `json:"transaction_id" validate:"omitempty,max=128"`
	Remarks       string  `json:"remarks" validate:"omitempty,max=500"`
}

// FeeBreakdownRequest itemises a new fee account.
type FeeBreakdownRequest struct {
	TuitionFee     float64 `json:"tuition_fee" validate:"gte=0"`
	LabFee         float64 `json:"lab_fee" validate:"gte=0"`
	LibraryFee     float64 `json:"library_fee" validate:"gte=0"`
	ExamFee        float64 `json:"exam_fee" validate:"gte=0"`
	SportsFee      float64 `json:"sports_fee" validate:"gte=0"`
	DevelopmentFee float64 `json:"development_fee" validate:"gte=0"`
	OtherFees      float64 `json:"other_fees" validate:"gte=0"`
}

// FeeAccountCreateRequest opens a fee account for a semester.
type FeeAccountCreateRequest struct {
	StudentID    uint                `json:"student_id" validate:"required"`
	Semester     int                 `json:"semester" validate:"required,min=1,max=12"`
	AcademicYear string              `json:"academic_year" validate:"required,max=16"`
	Breakdown    FeeBreakdownRequest `json:"fee_breakdown"`
	TotalAmount  *float64            `json:"total_amount" validate:"omitempty,gte=0"`
	LateFee      float64             `json:"late_fee" validate:"gte=0"`
	Discount     float64             `json:"discount" validate:"gte=0"`
	DueDate      string              `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// PaymentResponse is a recorded payment.
type PaymentResponse struct {
	ID            uint      `json:"id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentDate   time.Time `json:"payment_date"`
	TransactionID string    `json:"transaction_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Remarks       string    `json:"remarks"`
}

// FeeAccountResponse is a fee account with its payments.
type FeeAccountResponse struct {
	ID            uint                `json:"id"`
	Semester      int                 `json:"semester"`
	AcademicYear  string              `json:"academic_year"`
	Breakdown     models.FeeBreakdown `json:"fee_breakdown"`
	TotalAmount   float64             `json:"total_amount"`
	PaidAmount    float64             `json:"paid_amount"`
	PendingAmount float64             `json:"pending_amount"`
	LateFee       float64             `json:"late_fee"`
	Discount      float64             `json:"discount"`
	DueDate       time.Time           `json:"due_date"`
	Status        string              `json:"status"`
	Payments      []PaymentResponse   `json:"payments"`
}

// FeeSummaryResponse totals every account of the student.
type FeeSummaryResponse struct {
	TotalAmount  float64 `json:"total_amount"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	Overdue      int     `json:"overdue"`
}

// FeeListResponse is returned by the fee listing.
type FeeListResponse struct {
	Summary FeeSummaryResponse   `json:"summary"`
	Data    []FeeAccountResponse `json:"data"`
}

// PaymentReceiptResponse is returned after a successful payment.
type PaymentReceiptResponse struct {
	Account FeeAccountResponse `json:"fee"`
	Payment PaymentResponse    `json:"payment"`
}

// NewPaymentResponse converts a model into a DTO.
func NewPaymentResponse(model models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            model.ID,
		Amount:        model.Amount,
		PaymentMethod: string(model.Method),
		PaymentDate:   model.PaymentDate,
		TransactionID: model.TransactionID,
		ReceiptNumber: model.ReceiptNumber,
		Remarks:       model.Remarks,
	}
}

// NewFeeAccountResponse converts a model into a DTO.
func NewFeeAccountResponse(model models.FeeAccount) FeeAccountResponse {
	payments := make([]PaymentResponse, 0, len(model.Payments))
	for _, payment := range model.Payments {
		payments = append(payments, NewPaymentResponse(payment))
	}

	return FeeAccountResponse{
		ID:            model.ID,
		Semester:      model.Semester,
		AcademicYear:  model.AcademicYear,
		Breakdown:     model.Breakdown,
		TotalAmount:   model.TotalAmount,
		PaidAmount:    model.PaidAmount,
		PendingAmount: model.PendingAmount,
		LateFee:       model.LateFee,
		Discount:      model.Discount,
		DueDate:       model.DueDate,
		Status:        string(model.Status),
		Payments:      payments,
	}
}

// NewFeeAccountResponseSlice converts a slice of models into DTOs.
func NewFeeAccountResponseSlice(accounts []models.FeeAccount) []FeeAccountResponse {
	responses := make([]FeeAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, NewFeeAccountResponse(account))
	}
	return responses
}
