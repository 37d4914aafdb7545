package service

import (
	"github.com/mmynk/balanceapi/internal/calculator"
	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/pkg/api"
)

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{
		ID:              p.ID,
		Name:            p.Name,
		Contribution:    p.Contribution,
		ShareAdjustment: p.ShareAdjustment,
		NetBalance:      p.NetBalance,
		CreatedAt:       p.CreatedAt,
	}
}

func toAPIParticipants(group []models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(group))
	for i := range group {
		out[i] = toAPIParticipant(&group[i])
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:            e.ID,
		ParticipantID: e.ParticipantID,
		Amount:        e.Amount,
		Description:   e.Description,
		Timestamp:     e.Timestamp,
		CreatedBy:     e.CreatedBy,
	}
}

func toAPITransfers(transfers []calculator.Transfer) []*api.Transfer {
	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
