package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/balanceapi/internal/middleware"
	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/pkg/api"
)

// ExpenseService implements the Connect ExpenseService. Every expense change is
// applied to the payer's contribution and rebalances the group.
type ExpenseService struct {
	ledger *Ledger
	logger *slog.Logger
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates an ExpenseService over the shared ledger.
func NewExpenseService(ledger *Ledger, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{ledger: ledger, logger: logger}
}

// CreateExpense records a payment and adds it to the payer's contribution.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.InfoContext(ctx, "CreateExpense request received",
		"participant_id", req.Msg.ParticipantID,
		"amount", req.Msg.Amount,
	)

	if err := validateExpense(req.Msg.ParticipantID, req.Msg.Amount); err != nil {
		return nil, err
	}

	expense := models.NewExpense(req.Msg.ParticipantID, req.Msg.Amount, strings.TrimSpace(req.Msg.Description), req.Msg.Timestamp)
	expense.CreatedBy = middleware.GetUserID(ctx)

	_, err := s.ledger.apply(ctx, TriggerExpenseCreate,
		func(_ context.Context, group []models.Participant) ([]models.Participant, error) {
			i, err := findParticipant(group, expense.ParticipantID)
			if err != nil {
				return nil, err
			}
			group[i].Contribution = addAmount(group[i].Contribution, expense.Amount)
			return group, nil
		},
		func(ctx context.Context, group []models.Participant) error {
			return s.ledger.store.CreateExpense(ctx, expense, group)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "CreateExpense failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Expense created", "expense_id", expense.ID, "participant_id", expense.ParticipantID)
	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense),
	}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	s.logger.InfoContext(ctx, "GetExpense request received", "expense_id", req.Msg.ID)

	expense, err := s.ledger.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "GetExpense failed", "expense_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense),
	}), nil
}

// ListExpenses returns every expense, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.logger.InfoContext(ctx, "ListExpenses request received")

	expenses, err := s.ledger.store.ListExpenses(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListExpenses failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	s.logger.InfoContext(ctx, "ListExpenses successful", "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense moves or resizes a payment: the old amount is taken back from
// the old payer and the new amount credited to the new payer.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	s.logger.InfoContext(ctx, "UpdateExpense request received",
		"expense_id", req.Msg.ID,
		"participant_id", req.Msg.ParticipantID,
		"amount", req.Msg.Amount,
	)

	if err := validateExpense(req.Msg.ParticipantID, req.Msg.Amount); err != nil {
		return nil, err
	}

	var expense *models.Expense
	_, err := s.ledger.apply(ctx, TriggerExpenseUpdate,
		func(ctx context.Context, group []models.Participant) ([]models.Participant, error) {
			existing, err := s.ledger.store.GetExpense(ctx, req.Msg.ID)
			if err != nil {
				return nil, err
			}

			oldPayer, err := findParticipant(group, existing.ParticipantID)
			if err != nil {
				return nil, err
			}
			newPayer, err := findParticipant(group, req.Msg.ParticipantID)
			if err != nil {
				return nil, err
			}
			group[oldPayer].Contribution = addAmount(group[oldPayer].Contribution, -existing.Amount)
			group[newPayer].Contribution = addAmount(group[newPayer].Contribution, req.Msg.Amount)

			existing.ParticipantID = req.Msg.ParticipantID
			existing.Amount = req.Msg.Amount
			if description := strings.TrimSpace(req.Msg.Description); description != "" {
				existing.Description = description
			}
			if req.Msg.Timestamp != 0 {
				existing.Timestamp = req.Msg.Timestamp
			}
			expense = existing
			return group, nil
		},
		func(ctx context.Context, group []models.Participant) error {
			return s.ledger.store.UpdateExpense(ctx, expense, group)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "UpdateExpense failed", "expense_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{
		Expense: toAPIExpense(expense),
	}), nil
}

// DeleteExpense removes a payment and takes its amount back from the payer.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.InfoContext(ctx, "DeleteExpense request received", "expense_id", req.Msg.ID)

	_, err := s.ledger.apply(ctx, TriggerExpenseDelete,
		func(ctx context.Context, group []models.Participant) ([]models.Participant, error) {
			existing, err := s.ledger.store.GetExpense(ctx, req.Msg.ID)
			if err != nil {
				return nil, err
			}
			i, err := findParticipant(group, existing.ParticipantID)
			if err != nil {
				return nil, err
			}
			group[i].Contribution = addAmount(group[i].Contribution, -existing.Amount)
			return group, nil
		},
		func(ctx context.Context, group []models.Participant) error {
			return s.ledger.store.DeleteExpense(ctx, req.Msg.ID, group)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "DeleteExpense failed", "expense_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func validateExpense(participantID string, amount float64) error {
	if participantID == "" {
		return invalidArgument("participant_id is required")
	}
	if !isFinite(amount) || amount <= 0 {
		return invalidArgument("amount must be a positive number, got %v", amount)
	}
	return nil
}
