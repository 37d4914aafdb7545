package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/balanceapi/internal/calculator"
	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/pkg/api"
)

// ParticipantService implements the Connect ParticipantService.
type ParticipantService struct {
	ledger *Ledger
	logger *slog.Logger
}

var _ api.ParticipantServiceHandler = (*ParticipantService)(nil)

// NewParticipantService creates a ParticipantService over the shared ledger.
func NewParticipantService(ledger *Ledger, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{ledger: ledger, logger: logger}
}

// CreateParticipant adds a participant and rebalances the group.
func (s *ParticipantService) CreateParticipant(ctx context.Context, req *connect.Request[api.CreateParticipantRequest]) (*connect.Response[api.CreateParticipantResponse], error) {
	s.logger.InfoContext(ctx, "CreateParticipant request received", "name", req.Msg.Name, "contribution", req.Msg.Contribution)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	if err := validateContribution(req.Msg.Contribution); err != nil {
		return nil, err
	}

	participant := models.NewParticipant(name, req.Msg.Contribution)
	group, err := s.ledger.apply(ctx, TriggerParticipantCreate,
		func(_ context.Context, group []models.Participant) ([]models.Participant, error) {
			return append(group, *participant), nil
		},
		func(ctx context.Context, group []models.Participant) error {
			return s.ledger.store.CreateParticipant(ctx, participant, group)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "CreateParticipant failed", "error", err)
		return nil, toConnectError(err)
	}

	created := &group[len(group)-1]
	s.logger.InfoContext(ctx, "Participant created", "participant_id", created.ID, "net_balance", created.NetBalance)

	return connect.NewResponse(&api.CreateParticipantResponse{
		Participant: toAPIParticipant(created),
	}), nil
}

// GetParticipant retrieves a participant by ID.
func (s *ParticipantService) GetParticipant(ctx context.Context, req *connect.Request[api.GetParticipantRequest]) (*connect.Response[api.GetParticipantResponse], error) {
	s.logger.InfoContext(ctx, "GetParticipant request received", "participant_id", req.Msg.ID)

	participant, err := s.ledger.store.GetParticipant(ctx, req.Msg.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "GetParticipant failed", "participant_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetParticipantResponse{
		Participant: toAPIParticipant(participant),
	}), nil
}

// ListParticipants returns every participant in insertion order.
func (s *ParticipantService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	s.logger.InfoContext(ctx, "ListParticipants request received")

	group, err := s.ledger.store.ListParticipants(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListParticipants failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "ListParticipants successful", "count", len(group))
	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants: toAPIParticipants(group),
	}), nil
}

// UpdateParticipant renames a participant or sets their contribution, then
// rebalances the group.
func (s *ParticipantService) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	s.logger.InfoContext(ctx, "UpdateParticipant request received", "participant_id", req.Msg.ID)

	var name string
	if req.Msg.Name != nil {
		if name = strings.TrimSpace(*req.Msg.Name); name == "" {
			return nil, invalidArgument("name must not be empty")
		}
	}
	if req.Msg.Contribution != nil {
		if err := validateContribution(*req.Msg.Contribution); err != nil {
			return nil, err
		}
	}

	var index int
	group, err := s.ledger.apply(ctx, TriggerParticipantUpdate,
		func(_ context.Context, group []models.Participant) ([]models.Participant, error) {
			i, err := findParticipant(group, req.Msg.ID)
			if err != nil {
				return nil, err
			}
			if name != "" {
				group[i].Name = name
			}
			if req.Msg.Contribution != nil {
				group[i].Contribution = *req.Msg.Contribution
			}
			index = i
			return group, nil
		},
		s.ledger.store.SaveParticipants,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "UpdateParticipant failed", "participant_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	updated := &group[index]
	s.logger.InfoContext(ctx, "Participant updated", "participant_id", updated.ID, "net_balance", updated.NetBalance)
	return connect.NewResponse(&api.UpdateParticipantResponse{
		Participant: toAPIParticipant(updated),
	}), nil
}

// DeleteParticipant removes a participant with their expenses and rebalances
// the remaining group.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, req *connect.Request[api.DeleteParticipantRequest]) (*connect.Response[api.DeleteParticipantResponse], error) {
	s.logger.InfoContext(ctx, "DeleteParticipant request received", "participant_id", req.Msg.ID)

	group, err := s.ledger.apply(ctx, TriggerParticipantDelete,
		func(_ context.Context, group []models.Participant) ([]models.Participant, error) {
			i, err := findParticipant(group, req.Msg.ID)
			if err != nil {
				return nil, err
			}
			return slices.Delete(group, i, i+1), nil
		},
		func(ctx context.Context, group []models.Participant) error {
			return s.ledger.store.DeleteParticipant(ctx, req.Msg.ID, group)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "DeleteParticipant failed", "participant_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Participant deleted", "participant_id", req.Msg.ID, "remaining", len(group))
	return connect.NewResponse(&api.DeleteParticipantResponse{}), nil
}

// GetSettlementPlan computes the transfers that settle the current balances.
func (s *ParticipantService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	s.logger.InfoContext(ctx, "GetSettlementPlan request received")

	group, err := s.ledger.store.ListParticipants(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "GetSettlementPlan failed", "error", err)
		return nil, toConnectError(err)
	}

	transfers := calculator.PlanSettlements(group)
	s.ledger.metrics.ObservePlan(len(transfers))

	s.logger.InfoContext(ctx, "Settlement plan computed", "participants", len(group), "transfers", len(transfers))
	return connect.NewResponse(&api.GetSettlementPlanResponse{
		Transfers:    toAPITransfers(transfers),
		Instructions: calculator.Instructions(transfers),
	}), nil
}

// GetSummary reports the pool total, the fair share and the truncation remainder.
func (s *ParticipantService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	s.logger.InfoContext(ctx, "GetSummary request received")

	group, err := s.ledger.store.ListParticipants(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}

	summary := calculator.Summarize(group)
	return connect.NewResponse(&api.GetSummaryResponse{
		Summary: &api.Summary{
			Participants: summary.Participants,
			Total:        summary.Total,
			FairShare:    summary.FairShare,
			Remainder:    summary.Remainder,
		},
	}), nil
}

func validateContribution(v float64) error {
	if !isFinite(v) || v < 0 {
		return invalidArgument("contribution must be a non-negative number, got %v", v)
	}
	return nil
}
