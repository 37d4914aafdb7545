package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a member of the shared-expense group.
//
// Contribution is written by the service layer whenever an expense is
// attributed to the participant. ShareAdjustment and NetBalance are owned by
// calculator.Recalculate and are stale after any contribution change until the
// whole group is recalculated again.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	// It is used for correlation only, never for ordering.
	ID string

	// Name is the display label used verbatim in settlement instructions.
	Name string

	// Contribution is the cumulative amount paid into the shared pool.
	Contribution float64

	// ShareAdjustment is the negated equal share of the pool, identical for
	// every participant after a recalculation.
	ShareAdjustment float64

	// NetBalance is Contribution + ShareAdjustment.
	// Positive = owed money, zero or negative = owes money.
	NetBalance float64

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// NewParticipant creates a participant with a fresh ID and no contribution.
func NewParticipant(name string, contribution float64) *Participant {
	return &Participant{
		ID:           uuid.New().String(),
		Name:         name,
		Contribution: contribution,
		CreatedAt:    time.Now().Unix(),
	}
}

// IsCreditor reports whether the participant is owed money.
func (p Participant) IsCreditor() bool {
	return p.NetBalance > 0
}
