package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/balanceapi/internal/models"
)

// Summary describes the pool behind a recalculation.
type Summary struct {
	Participants int
	Total        float64 // Sum of all contributions
	FairShare    float64 // Truncated equal share
	Remainder    float64 // Total - Participants*FairShare, lost to truncation
}

// Summarize reports the pool total, the fair share Recalculate would assign and
// the truncation remainder it leaves unallocated. The remainder is computed in
// decimal so float noise does not masquerade as lost cents.
func Summarize(participants []models.Participant) Summary {
	total := decimal.Zero
	for _, p := range participants {
		total = total.Add(decimal.NewFromFloat(p.Contribution))
	}

	fairShare := FairShare(participants)
	allocated := decimal.NewFromFloat(fairShare).Mul(decimal.NewFromInt(int64(len(participants))))

	return Summary{
		Participants: len(participants),
		Total:        total.InexactFloat64(),
		FairShare:    fairShare,
		Remainder:    total.Sub(allocated).InexactFloat64(),
	}
}
