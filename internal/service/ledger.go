// Package service implements the balance.v1 Connect services.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/balanceapi/internal/calculator"
	"github.com/mmynk/balanceapi/internal/events"
	"github.com/mmynk/balanceapi/internal/metrics"
	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/internal/storage"
)

// Recalculation triggers, used as event and metric labels.
const (
	TriggerParticipantCreate = "participant.create"
	TriggerParticipantUpdate = "participant.update"
	TriggerParticipantDelete = "participant.delete"
	TriggerExpenseCreate     = "expense.create"
	TriggerExpenseUpdate     = "expense.update"
	TriggerExpenseDelete     = "expense.delete"
)

// Ledger owns the group's balances. Every change runs as one
// load, mutate, recalculate, persist sequence under a single lock, so two
// recalculations never interleave. Reads go straight to the store.
type Ledger struct {
	mu        sync.Mutex
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewLedger creates a ledger over store. A nil publisher or metrics disables
// events or metrics.
func NewLedger(store storage.Store, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Ledger {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Ledger{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// mutateFunc changes the loaded group and returns the group to recalculate.
type mutateFunc func(ctx context.Context, group []models.Participant) ([]models.Participant, error)

// persistFunc stores the recalculated group together with the change.
type persistFunc func(ctx context.Context, group []models.Participant) error

// apply runs mutate on the current group, recalculates the result and hands
// it to persist. An empty result is persisted without recalculation.
func (l *Ledger) apply(ctx context.Context, trigger string, mutate mutateFunc, persist persistFunc) ([]models.Participant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	group, err := l.store.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}

	group, err = mutate(ctx, group)
	if err != nil {
		return nil, err
	}

	if len(group) > 0 {
		if err := calculator.Recalculate(group); err != nil {
			return nil, err
		}
	}

	if err := persist(ctx, group); err != nil {
		return nil, err
	}

	if len(group) > 0 {
		l.metrics.ObserveRecalculation(trigger, len(group))
	}
	l.logger.DebugContext(ctx, "Balances recalculated", "trigger", trigger, "participants", len(group))
	l.publish(ctx, trigger, group)

	return group, nil
}

// publish announces a stored recalculation. Failures are logged only.
func (l *Ledger) publish(ctx context.Context, trigger string, group []models.Participant) {
	event := events.NewBalancesRecalculated(trigger, calculator.FairShare(group), group)
	err := l.publisher.PublishRecalculated(ctx, event)
	l.metrics.ObserveEvent(err)
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to publish recalculation event", "trigger", trigger, "error", err)
	}
}

func findParticipant(group []models.Participant, id string) (int, error) {
	for i := range group {
		if group[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("participant %w: %s", storage.ErrNotFound, id)
}

// addAmount adds b to a in decimal so repeated edits do not accumulate float drift.
func addAmount(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrEmptyGroup):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
