// Package events announces persisted balance recalculations to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mmynk/balanceapi/internal/models"
)

// TypeBalancesRecalculated is the type of BalancesRecalculated messages.
const TypeBalancesRecalculated = "balances.recalculated"

// Publisher sends recalculation events.
type Publisher interface {
	PublishRecalculated(ctx context.Context, event *BalancesRecalculated) error
	Close() error
}

// Balance is one participant's state after a recalculation.
type Balance struct {
	ParticipantID   string  `json:"participant_id"`
	Name            string  `json:"name"`
	Contribution    float64 `json:"contribution"`
	ShareAdjustment float64 `json:"share_adjustment"`
	NetBalance      float64 `json:"net_balance"`
}

// BalancesRecalculated is published after a recalculated group has been stored.
type BalancesRecalculated struct {
	Type       string    `json:"type"`
	Trigger    string    `json:"trigger"`
	OccurredAt time.Time `json:"occurred_at"`
	FairShare  float64   `json:"fair_share"`
	Balances   []Balance `json:"balances"`
}

// NewBalancesRecalculated snapshots group. An empty group yields no balances.
func NewBalancesRecalculated(trigger string, fairShare float64, group []models.Participant) *BalancesRecalculated {
	balances := make([]Balance, len(group))
	for i, p := range group {
		balances[i] = Balance{
			ParticipantID:   p.ID,
			Name:            p.Name,
			Contribution:    p.Contribution,
			ShareAdjustment: p.ShareAdjustment,
			NetBalance:      p.NetBalance,
		}
	}
	return &BalancesRecalculated{
		Type:       TypeBalancesRecalculated,
		Trigger:    trigger,
		OccurredAt: time.Now().UTC(),
		FairShare:  fairShare,
		Balances:   balances,
	}
}

func (e *BalancesRecalculated) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func BalancesRecalculatedFromJSON(data []byte) (*BalancesRecalculated, error) {
	var e BalancesRecalculated
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) PublishRecalculated(context.Context, *BalancesRecalculated) error {
	return nil
}

func (Discard) Close() error {
	return nil
}
