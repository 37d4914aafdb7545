package calculator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/balanceapi/internal/models"
)

// withContributions builds participants named P1..Pn.
func withContributions(contributions ...float64) []models.Participant {
	ps := make([]models.Participant, len(contributions))
	for i, c := range contributions {
		ps[i] = models.Participant{
			ID:           fmt.Sprintf("id-%d", i+1),
			Name:         fmt.Sprintf("P%d", i+1),
			Contribution: c,
		}
	}
	return ps
}

// withBalances builds recalculated-looking participants named P1..Pn.
func withBalances(balances ...float64) []models.Participant {
	ps := withContributions(make([]float64, len(balances))...)
	for i, b := range balances {
		ps[i].NetBalance = b
	}
	return ps
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name          string
		contributions []float64
		preexisting   []float64 // stale balances from an earlier recalculation
		wantFairShare float64
		wantBalances  []float64
	}{
		{
			name:          "one participant already paid",
			contributions: []float64{100.0, 0.0},
			wantFairShare: 50.0,
			wantBalances:  []float64{50.0, -50.0},
		},
		{
			name:          "share is truncated, not rounded",
			contributions: []float64{10.0, 0.0, 0.0},
			wantFairShare: 3.33,
			wantBalances:  []float64{6.67, -3.33, -3.33},
		},
		{
			name:          "stale balances are overwritten",
			contributions: []float64{15.0, 0.0, 0.0},
			preexisting:   []float64{10.0, -7.5, 0},
			wantFairShare: 5.0,
			wantBalances:  []float64{10.0, -5.0, -5.0},
		},
		{
			name:          "several contributors with a non-integral share",
			contributions: []float64{15.0, 20.0, 0.0},
			preexisting:   []float64{-10.0, -7.5, 0},
			wantFairShare: 11.66,
			wantBalances:  []float64{3.34, 8.34, -11.66},
		},
		{
			name:          "single participant owes nothing",
			contributions: []float64{42.5},
			wantFairShare: 42.5,
			wantBalances:  []float64{0},
		},
		{
			name:          "negative total truncates toward zero",
			contributions: []float64{-10.0, 0.0, 0.0},
			wantFairShare: -3.33,
			wantBalances:  []float64{-6.67, 3.33, 3.33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := withContributions(tt.contributions...)
			for i, b := range tt.preexisting {
				ps[i].ShareAdjustment = b
				ps[i].NetBalance = b
			}

			require.NoError(t, Recalculate(ps))

			for i, p := range ps {
				assert.InDelta(t, -tt.wantFairShare, p.ShareAdjustment, 1e-9, "%s share adjustment", p.Name)
				assert.InDelta(t, tt.wantBalances[i], p.NetBalance, 1e-9, "%s net balance", p.Name)
				assert.Equal(t, p.Contribution+p.ShareAdjustment, p.NetBalance, "%s net balance consistency", p.Name)
			}
		})
	}
}

func TestRecalculate_EmptyGroup(t *testing.T) {
	err := Recalculate(nil)
	require.ErrorIs(t, err, ErrEmptyGroup)

	err = Recalculate([]models.Participant{})
	require.ErrorIs(t, err, ErrEmptyGroup)
}

func TestRecalculate_NearZeroSum(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(12)
		contributions := make([]float64, n)
		for i := range contributions {
			contributions[i] = float64(rng.IntN(100000)) / 100
		}
		ps := withContributions(contributions...)
		require.NoError(t, Recalculate(ps))

		var sum float64
		for _, p := range ps {
			sum += p.NetBalance
			assert.Equal(t, ps[0].ShareAdjustment, p.ShareAdjustment)
		}
		assert.GreaterOrEqual(t, sum, -1e-9, "round %d", round)
		assert.LessOrEqual(t, sum, 0.01*float64(n)+1e-9, "round %d", round)
	}
}

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []float64
		want     []string
	}{
		{
			name:     "one debtor pays one creditor",
			balances: []float64{50.0, -50.0},
			want:     []string{"P2 -> P1 (50.0€)"},
		},
		{
			name:     "two debtors pay one creditor in input order",
			balances: []float64{10.0, -5.0, -5.0},
			want:     []string{"P2 -> P1 (5.0€)", "P3 -> P1 (5.0€)"},
		},
		{
			name:     "largest creditor is served first and leftovers carry over",
			balances: []float64{4.0, 12.0, -8.0, -8.0},
			want: []string{
				"P3 -> P2 (8.0€)",
				"P4 -> P2 (4.0€)",
				"P4 -> P1 (4.0€)",
			},
		},
		{
			name:     "one debtor splits a payment across creditors",
			balances: []float64{3.0, 3.0, -6.0},
			want:     []string{"P3 -> P1 (3.0€)", "P3 -> P2 (3.0€)"},
		},
		{
			name:     "largest debtor pays first",
			balances: []float64{-2.0, 10.0, -8.0},
			want:     []string{"P3 -> P2 (8.0€)", "P1 -> P2 (2.0€)"},
		},
		{
			name:     "everyone settled",
			balances: []float64{0, 0, 0},
			want:     nil,
		},
		{
			name:     "no participants",
			balances: nil,
			want:     nil,
		},
		{
			name:     "fractional amounts keep their shortest form",
			balances: []float64{6.5, -3.25, -3.25},
			want:     []string{"P2 -> P1 (3.25€)", "P3 -> P1 (3.25€)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Instructions(PlanSettlements(withBalances(tt.balances...)))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanSettlements_AfterRecalculate(t *testing.T) {
	ps := withContributions(100.0, 0.0)
	require.NoError(t, Recalculate(ps))

	transfers := PlanSettlements(ps)
	require.Len(t, transfers, 1)
	assert.Equal(t, Transfer{From: "P2", To: "P1", Amount: 50.0}, transfers[0])
	assert.Equal(t, "P2 -> P1 (50.0€)", transfers[0].String())
}

func TestPlanSettlements_DoesNotMutateInput(t *testing.T) {
	ps := []models.Participant{
		{ID: "1", Name: "Friend 1", Contribution: 100.0, ShareAdjustment: 0.0, NetBalance: 100.0},
		{ID: "2", Name: "Friend 2", Contribution: 0.0, ShareAdjustment: -50.0, NetBalance: -50.0},
	}
	before := slices.Clone(ps)

	transfers := PlanSettlements(ps)

	require.Len(t, transfers, 1)
	assert.Equal(t, "Friend 2 -> Friend 1 (50.0€)", transfers[0].String())
	assert.Equal(t, before, ps)
}

func TestPlanSettlements_Deterministic(t *testing.T) {
	build := func() []models.Participant {
		return withBalances(3.0, -1.0, 3.0, -1.0, -4.0)
	}
	first := PlanSettlements(build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PlanSettlements(build()))
	}
}

func TestPlanSettlements_SettlesEveryone(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		n := 2 + rng.IntN(10)
		contributions := make([]float64, n)
		for i := range contributions {
			contributions[i] = float64(rng.IntN(50000)) / 100
		}
		ps := withContributions(contributions...)
		require.NoError(t, Recalculate(ps))

		remaining := make(map[string]float64, n)
		for _, p := range ps {
			remaining[p.Name] = p.NetBalance
		}

		for _, tr := range PlanSettlements(ps) {
			require.Greater(t, tr.Amount, 0.0, "round %d: %s", round, tr)
			remaining[tr.From] += tr.Amount
			remaining[tr.To] -= tr.Amount
		}

		// Debts are fully paid; creditors keep at most the truncation remainder.
		truncationBound := 0.01*float64(n) + 1e-6
		for name, balance := range remaining {
			assert.LessOrEqual(t, math.Abs(balance), truncationBound, "round %d: %s", round, name)
		}
	}
}

func TestPlanSettlements_IgnoresNaN(t *testing.T) {
	ps := withBalances(10.0, math.NaN(), -10.0)
	assert.Equal(t, []string{"P3 -> P1 (10.0€)"}, Instructions(PlanSettlements(ps)))
}
