package calculator

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/mmynk/balanceapi/internal/models"
)

// ErrEmptyGroup is returned when a recalculation is requested over no participants.
var ErrEmptyGroup = errors.New("cannot recalculate balances of an empty group")

// Transfer is a single directed payment that reduces outstanding balances.
type Transfer struct {
	From   string  // Person who pays (debtor)
	To     string  // Person who receives (creditor)
	Amount float64 // Always > 0
}

// String renders the transfer as "{From} -> {To} ({Amount}€)".
func (t Transfer) String() string {
	return t.From + " -> " + t.To + " (" + FormatAmount(t.Amount) + "€)"
}

// Recalculate splits the pool evenly and writes every participant's share and
// net balance in place.
//
// Algorithm:
//   - fair share = total contribution / N, truncated toward zero to cents
//   - share adjustment = -fair share, the same for everyone
//   - net balance = contribution + share adjustment
//
// The truncation remainder (at most 0.01 per participant) is not redistributed.
// On error nothing is written.
func Recalculate(participants []models.Participant) error {
	if len(participants) == 0 {
		return ErrEmptyGroup
	}

	fairShare := FairShare(participants)
	for i := range participants {
		p := &participants[i]
		p.ShareAdjustment = -fairShare
		p.NetBalance = p.Contribution + p.ShareAdjustment
	}
	return nil
}

// FairShare returns the equal per-participant portion of the pool, truncated
// toward zero to two decimal places. It returns 0 for an empty group.
func FairShare(participants []models.Participant) float64 {
	if len(participants) == 0 {
		return 0
	}
	return truncateCents(totalContribution(participants) / float64(len(participants)))
}

// PlanSettlements computes the payments that zero out all net balances using
// greedy largest-debtor versus largest-creditor matching.
//
// The input must already be recalculated. It is never modified: the planner
// settles copies of the records.
//
// Creditors (net balance > 0) are ordered by balance descending, debtors
// (net balance <= 0) by absolute balance descending; ties keep input order.
// Each debtor is then matched against every creditor in turn, and the leftover
// credit carries over to the next debtor.
func PlanSettlements(participants []models.Participant) []Transfer {
	creditors, debtors := partition(participants)

	slices.SortStableFunc(creditors, func(a, b models.Participant) int {
		return cmp.Compare(b.NetBalance, a.NetBalance)
	})
	slices.SortStableFunc(debtors, func(a, b models.Participant) int {
		return cmp.Compare(math.Abs(b.NetBalance), math.Abs(a.NetBalance))
	})

	var transfers []Transfer
	for i := range debtors {
		debtor := &debtors[i]
		for j := range creditors {
			creditor := &creditors[j]
			if creditor.NetBalance <= 0 || debtor.NetBalance >= 0 {
				continue
			}

			paid := creditor.NetBalance
			owed := debtor.NetBalance
			creditor.NetBalance = creditorRemainder(paid, owed)
			debtor.NetBalance = debtorRemainder(paid, owed)

			transfers = append(transfers, Transfer{
				From:   debtor.Name,
				To:     creditor.Name,
				Amount: paid - creditor.NetBalance,
			})
		}
	}

	return transfers
}

// Instructions renders transfers in order as human-readable payment strings.
func Instructions(transfers []Transfer) []string {
	out := make([]string, len(transfers))
	for i, t := range transfers {
		out[i] = t.String()
	}
	return out
}

// partition copies participants into creditors and debtors.
// NaN balances belong to neither side.
func partition(participants []models.Participant) (creditors, debtors []models.Participant) {
	for _, p := range participants {
		switch {
		case p.IsCreditor():
			creditors = append(creditors, p)
		case p.NetBalance <= 0:
			debtors = append(debtors, p)
		}
	}
	return creditors, debtors
}

// creditorRemainder is what is left of a credit after absorbing a debt (owed < 0).
func creditorRemainder(paid, owed float64) float64 {
	balance := paid + owed
	if balance <= 0 {
		return 0
	}
	return balance
}

// debtorRemainder is what is left of a debt after a credit was applied to it.
func debtorRemainder(paid, owed float64) float64 {
	if paid > math.Abs(owed) {
		return 0
	}
	return owed + paid
}

func totalContribution(participants []models.Participant) float64 {
	var total float64
	for _, p := range participants {
		total += p.Contribution
	}
	return total
}
