// Package ledger holds the derived-state rules for academic records: attendance
// percentages, fee balances, library fines and renewals, and result aggregation.
//
// Every function takes a snapshot and returns the next state without performing
// I/O, so callers can wrap them in a compare-and-swap or transactional retry loop.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when a payment amount is not a positive number of whole cents.
	ErrInvalidAmount = errors.New("payment amount must be greater than zero and in whole cents")
	// ErrInvalidPaymentMethod is returned for payment channels outside the accepted set.
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	// ErrRenewalNotAllowed is returned when a loan fails the renewal eligibility check.
	ErrRenewalNotAllowed = errors.New("cannot renew book: maximum renewals reached or book is not in issued state")
	// ErrLoanClosed is returned when mutating a loan that is already returned or lost.
	ErrLoanClosed = errors.New("loan is already closed")
	// ErrEmptySubjectList is returned when aggregating a result without subjects.
	ErrEmptySubjectList = errors.New("result has no subjects to aggregate")
	// ErrInvalidSubjectTotals is returned when credits or total marks sum to zero.
	ErrInvalidSubjectTotals = errors.New("subject credits and total marks must be positive")
)

// round2 rounds to two decimal places, half away from zero, on the shortest
// decimal representation of value. 1.005 therefore rounds to 1.01 even though
// the nearest float64 is slightly below it.
func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// addCents sums two money values in decimal and rounds the result to cents.
func addCents(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// wholeCents reports whether value has no digits beyond the second decimal place.
func wholeCents(value float64) bool {
	d := decimal.NewFromFloat(value)
	return d.Equal(d.Round(2))
}
