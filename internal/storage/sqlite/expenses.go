package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/internal/storage"
)

const expenseColumns = "id, participant_id, amount, description, timestamp, created_by"

// CreateExpense persists a new expense and the recalculated group.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, group []models.Participant) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Timestamp == 0 {
		expense.Timestamp = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			expense.ID, expense.ParticipantID, expense.Amount, expense.Description,
			expense.Timestamp, nullable(expense.CreatedBy),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return saveParticipants(ctx, tx, group)
	})
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %w: %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves all expenses, most recent first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses ORDER BY timestamp DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense overwrites an expense and persists the recalculated group.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, group []models.Participant) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE expenses SET participant_id = ?, amount = ?, description = ?, timestamp = ? WHERE id = ?",
			expense.ParticipantID, expense.Amount, expense.Description, expense.Timestamp, expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := requireAffected(res, "expense", expense.ID); err != nil {
			return err
		}
		return saveParticipants(ctx, tx, group)
	})
}

// DeleteExpense removes an expense and persists the recalculated group.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string, group []models.Participant) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if err := requireAffected(res, "expense", expenseID); err != nil {
			return err
		}
		return saveParticipants(ctx, tx, group)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var createdBy sql.NullString
	if err := row.Scan(&expense.ID, &expense.ParticipantID, &expense.Amount,
		&expense.Description, &expense.Timestamp, &createdBy); err != nil {
		return nil, err
	}
	if createdBy.Valid {
		expense.CreatedBy = createdBy.String
	}
	return expense, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
