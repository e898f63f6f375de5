package models

import "time"

// FeeStatus is derived from the paid amount, the total and the due date.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "Paid"
	FeeStatusPending FeeStatus = "Pending"
	FeeStatusPartial FeeStatus = "Partial"
	FeeStatusOverdue FeeStatus = "Overdue"
)

// PaymentMethod enumerates the accepted payment channels.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "Cash"
	PaymentCard       PaymentMethod = "Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "Net Banking"
	PaymentCheque     PaymentMethod = "Cheque"
)

// Valid returns true when the method is one of the accepted channels.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentNetBanking, PaymentCheque:
		return true
	default:
		return false
	}
}

// FeeBreakdown itemises the components of a semester fee.
type FeeBreakdown struct {
	TuitionFee     float64 `gorm:"not null;default:0" json:"tuition_fee"`
	LabFee         float64 `gorm:"not null;default:0" json:"lab_fee"`
	LibraryFee     float64 `gorm:"not null;default:0" json:"library_fee"`
	ExamFee        float64 `gorm:"not null;default:0" json:"exam_fee"`
	SportsFee      float64 `gorm:"not null;default:0" json:"sports_fee"`
	DevelopmentFee float64 `gorm:"not null;default:0" json:"development_fee"`
	OtherFees      float64 `gorm:"not null;default:0" json:"other_fees"`
}

// Sum adds every component of the breakdown.
func (b FeeBreakdown) Sum() float64 {
	return b.TuitionFee + b.LabFee + b.LibraryFee + b.ExamFee + b.SportsFee + b.DevelopmentFee + b.OtherFees
}

// FeeAccount tracks the fee owed by a student for one semester.
//
// PendingAmount and Status are derived values; callers recompute them through
// the ledger package before persisting.
type FeeAccount struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	StudentID     uint         `gorm:"not null;index" json:"student_id"`
	Semester      int          `gorm:"not null;index" json:"semester"`
	AcademicYear  string       `gorm:"size:16;not null" json:"academic_year"`
	Breakdown     FeeBreakdown `gorm:"embedded;embeddedPrefix:breakdown_" json:"fee_breakdown"`
	TotalAmount   float64      `gorm:"not null" json:"total_amount"`
	PaidAmount    float64      `gorm:"not null;default:0" json:"paid_amount"`
	PendingAmount float64      `gorm:"not null;default:0" json:"pending_amount"`
	LateFee       float64      `gorm:"not null;default:0" json:"late_fee"`
	Discount      float64      `gorm:"not null;default:0" json:"discount"`
	DueDate       time.Time    `gorm:"not null" json:"due_date"`
	Status        FeeStatus    `gorm:"size:16;not null;default:Pending" json:"status"`
	Version       uint         `gorm:"not null;default:1" json:"-"`
	Payments      []Payment    `gorm:"foreignKey:FeeAccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"payments"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Payment is a single instalment recorded against a fee account.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	FeeAccountID  uint          `gorm:"not null;index" json:"fee_account_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Method        PaymentMethod `gorm:"size:32;not null" json:"payment_method"`
	PaymentDate   time.Time     `gorm:"not null" json:"payment_date"`
	TransactionID string        `gorm:"size:128" json:"transaction_id"`
	ReceiptNumber string        `gorm:"size:64;uniqueIndex;not null" json:"receipt_number"`
	Remarks       string        `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time     `json:"created_at"`
}
