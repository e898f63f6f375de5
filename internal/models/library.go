package models

import "time"

// LoanStatus tracks where a library loan is in its lifecycle.
type LoanStatus string

const (
	LoanIssued   LoanStatus = "Issued"
	LoanReturned LoanStatus = "Returned"
	LoanOverdue  LoanStatus = "Overdue"
	LoanLost     LoanStatus = "Lost"
)

// Closed reports whether the loan reached a terminal state with a frozen fine.
func (s LoanStatus) Closed() bool {
	return s == LoanReturned || s == LoanLost
}

// Book describes the borrowed item.
type Book struct {
	BookID   string `gorm:"size:64;not null" json:"book_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Author   string `gorm:"size:255;not null" json:"author"`
	ISBN     string `gorm:"size:32" json:"isbn"`
	Category string `gorm:"size:64" json:"category"`
}

// LibraryLoan is a book issued to a student.
type LibraryLoan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	StudentID     uint       `gorm:"not null;index" json:"student_id"`
	Book          Book       `gorm:"embedded;embeddedPrefix:book_" json:"book"`
	IssueDate     time.Time  `gorm:"not null" json:"issue_date"`
	DueDate       time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate    *time.Time `json:"return_date"`
	Status        LoanStatus `gorm:"size:16;not null;default:Issued;index" json:"status"`
	Fine          float64    `gorm:"not null;default:0" json:"fine"`
	FinePerDay    float64    `gorm:"not null" json:"fine_per_day"`
	RenewalCount  int        `gorm:"not null;default:0" json:"renewal_count"`
	MaxRenewals   int        `gorm:"not null" json:"max_renewals"`
	LastRenewedAt *time.Time `json:"last_renewed_at"`
	Remarks       string     `gorm:"type:text" json:"remarks"`
	Version       uint       `gorm:"not null;default:1" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
