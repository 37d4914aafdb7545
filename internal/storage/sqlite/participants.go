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

const participantColumns = "id, name, contribution, share_adjustment, net_balance, created_at"

// CreateParticipant inserts a participant and persists the recalculated group.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, participant *models.Participant, group []models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt == 0 {
		participant.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants ("+participantColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			participant.ID, participant.Name, participant.Contribution,
			participant.ShareAdjustment, participant.NetBalance, participant.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		return saveParticipants(ctx, tx, group)
	})
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p := &models.Participant{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?",
		participantID,
	).Scan(&p.ID, &p.Name, &p.Contribution, &p.ShareAdjustment, &p.NetBalance, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %w: %s", storage.ErrNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves all participants in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Contribution, &p.ShareAdjustment, &p.NetBalance, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// SaveParticipants overwrites every participant of the group in one transaction.
func (s *SQLiteStore) SaveParticipants(ctx context.Context, group []models.Participant) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveParticipants(ctx, tx, group)
	})
}

// DeleteParticipant removes a participant with its expenses and persists
// the remaining group.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, participantID string, group []models.Participant) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE participant_id = ?", participantID); err != nil {
			return fmt.Errorf("failed to delete participant expenses: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID)
		if err != nil {
			return fmt.Errorf("failed to delete participant: %w", err)
		}
		if err := requireAffected(res, "participant", participantID); err != nil {
			return err
		}
		return saveParticipants(ctx, tx, group)
	})
}

func saveParticipants(ctx context.Context, tx *sql.Tx, group []models.Participant) error {
	stmt, err := tx.PrepareContext(ctx,
		"UPDATE participants SET name = ?, contribution = ?, share_adjustment = ?, net_balance = ? WHERE id = ?",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare participant update: %w", err)
	}
	defer stmt.Close()

	for _, p := range group {
		res, err := stmt.ExecContext(ctx, p.Name, p.Contribution, p.ShareAdjustment, p.NetBalance, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update participant: %w", err)
		}
		if err := requireAffected(res, "participant", p.ID); err != nil {
			return err
		}
	}
	return nil
}
