// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/balanceapi/internal/models"
)

// ErrNotFound is returned (wrapped) when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services rely on.
//
// Methods that take a group persist the change and the recalculated balances of
// every participant in group inside one transaction: either all rows are
// written or none are.
type Store interface {
	// CreateParticipant inserts the participant and persists group, which must
	// already include it.
	CreateParticipant(ctx context.Context, participant *models.Participant, group []models.Participant) error

	// GetParticipant retrieves a participant by ID.
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)

	// ListParticipants returns every participant in insertion order.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// SaveParticipants overwrites name, contribution and balances of every
	// participant in group.
	SaveParticipants(ctx context.Context, group []models.Participant) error

	// DeleteParticipant removes the participant and its expenses, then persists
	// the remaining group.
	DeleteParticipant(ctx context.Context, participantID string, group []models.Participant) error

	// CreateExpense inserts the expense and persists group.
	CreateExpense(ctx context.Context, expense *models.Expense, group []models.Participant) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns every expense, most recent first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// UpdateExpense overwrites the expense and persists group.
	UpdateExpense(ctx context.Context, expense *models.Expense, group []models.Participant) error

	// DeleteExpense removes the expense and persists group.
	DeleteExpense(ctx context.Context, expenseID string, group []models.Participant) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by login email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
