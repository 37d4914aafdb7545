package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultExpenseDescription is used when an expense is recorded without one.
const DefaultExpenseDescription = "Expense"

// Expense is a single payment a participant made on behalf of the group.
// Recording it adds Amount to the payer's Contribution.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// ParticipantID is the participant who paid.
	ParticipantID string

	// Amount is what the participant paid.
	Amount float64

	// Description is a free-form label (e.g., "Groceries").
	Description string

	// Timestamp is the Unix timestamp when the expense happened.
	Timestamp int64

	// CreatedBy is the authenticated user who recorded the expense.
	// Empty when recorded anonymously.
	CreatedBy string
}

// NewExpense creates an expense with a fresh ID, filling the description and
// timestamp defaults.
func NewExpense(participantID string, amount float64, description string, timestamp int64) *Expense {
	if description == "" {
		description = DefaultExpenseDescription
	}
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}
	return &Expense{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Amount:        amount,
		Description:   description,
		Timestamp:     timestamp,
	}
}
