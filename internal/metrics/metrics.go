// Package metrics computes per-epoch statistics as pure functions of a
// set of resolved interactions and the agent ledger: toxicity, quality
// gap, conditional loss, calibration (brier/ece), welfare, and payoff
// inequality (gini).
package metrics

import (
	"math"
	"sort"

	"github.com/swarmkernel/kernel/internal/models"
)

// Compute returns the EpochMetrics snapshot for epoch given its resolved
// interactions and the final agent ledger for that epoch.
func Compute(epoch int, interactions []models.SoftInteraction, agents []models.Agent, frozenCount, flaggedPairCount int) models.EpochMetrics {
	m := models.EpochMetrics{
		Epoch:            epoch,
		FrozenAgentCount: frozenCount,
		FlaggedPairCount: flaggedPairCount,
	}

	var accepted, rejected []models.SoftInteraction
	for _, i := range interactions {
		if i.Accepted {
			accepted = append(accepted, i)
		} else {
			rejected = append(rejected, i)
		}
	}
	m.AcceptedCount = len(accepted)
	m.RejectedCount = len(rejected)

	m.ToxicityRate = toxicityRate(accepted)
	m.QualityGap = qualityGap(accepted, rejected)
	m.ConditionalLoss = conditionalLoss(accepted, interactions)
	m.MeanP, m.VarianceP = meanVarianceP(interactions)
	m.Brier = brier(interactions)
	m.ECE = ece(interactions, 10)
	m.TotalWelfare = totalWelfare(interactions)
	m.GiniPayoffs = giniOfAgentPayoffs(interactions)

	return m
}

// toxicityRate = mean_{i accepted}(1-p_i).
func toxicityRate(accepted []models.SoftInteraction) float64 {
	if len(accepted) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range accepted {
		sum += 1 - i.P
	}
	return sum / float64(len(accepted))
}

// qualityGap = mean_accepted(p) - mean_rejected(p); 0 if either bucket
// is empty (§4.8, matching soft_metrics.py's quality_gap guard).
func qualityGap(accepted, rejected []models.SoftInteraction) float64 {
	if len(accepted) == 0 || len(rejected) == 0 {
		return 0
	}
	return meanP(accepted) - meanP(rejected)
}

func meanP(xs []models.SoftInteraction) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range xs {
		sum += i.P
	}
	return sum / float64(len(xs))
}

// conditionalLoss = mean_accepted(pi) - mean_all(pi), where pi is an
// interaction's combined payoff (payoff_a + payoff_b). Rejected
// interactions contribute (0,0) by construction, so mean_all already
// reflects the population including rejections.
func conditionalLoss(accepted, all []models.SoftInteraction) float64 {
	if len(all) == 0 {
		return 0
	}
	return meanPi(accepted) - meanPi(all)
}

func meanPi(xs []models.SoftInteraction) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range xs {
		sum += i.PayoffA + i.PayoffB
	}
	return sum / float64(len(xs))
}

func meanVarianceP(interactions []models.SoftInteraction) (mean, variance float64) {
	if len(interactions) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, i := range interactions {
		sum += i.P
	}
	mean = sum / float64(len(interactions))

	sq := 0.0
	for _, i := range interactions {
		d := i.P - mean
		sq += d * d
	}
	variance = sq / float64(len(interactions))
	return mean, variance
}

// hardLabel is the observed binary outcome used by brier/ece: an
// accepted interaction is treated as the beneficial-outcome label.
func hardLabel(i models.SoftInteraction) float64 {
	if i.Accepted {
		return 1
	}
	return 0
}

// brier = mean((p - v)^2).
func brier(interactions []models.SoftInteraction) float64 {
	if len(interactions) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range interactions {
		d := i.P - hardLabel(i)
		sum += d * d
	}
	return sum / float64(len(interactions))
}

// ece computes the expected calibration error over nBins equal-width
// bins of p in [0,1]: the weighted average, across bins, of the
// absolute gap between mean predicted p and observed outcome frequency.
func ece(interactions []models.SoftInteraction, nBins int) float64 {
	if len(interactions) == 0 || nBins <= 0 {
		return 0
	}
	type bin struct {
		sumP, sumV float64
		count      int
	}
	bins := make([]bin, nBins)
	for _, i := range interactions {
		idx := int(i.P * float64(nBins))
		if idx >= nBins {
			idx = nBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].sumP += i.P
		bins[idx].sumV += hardLabel(i)
		bins[idx].count++
	}
	total := float64(len(interactions))
	sum := 0.0
	for _, b := range bins {
		if b.count == 0 {
			continue
		}
		avgP := b.sumP / float64(b.count)
		avgV := b.sumV / float64(b.count)
		sum += (float64(b.count) / total) * math.Abs(avgP-avgV)
	}
	return sum
}

// totalWelfare sums combined payoffs across every resolved interaction.
func totalWelfare(interactions []models.SoftInteraction) float64 {
	sum := 0.0
	for _, i := range interactions {
		sum += i.PayoffA + i.PayoffB
	}
	return sum
}

// giniOfAgentPayoffs aggregates each agent's net payoff across the
// epoch's interactions (as initiator or counterparty) and returns the
// Gini coefficient of that distribution; 0 for fewer than two agents.
func giniOfAgentPayoffs(interactions []models.SoftInteraction) float64 {
	totals := make(map[string]float64)
	for _, i := range interactions {
		totals[i.Initiator] += i.PayoffA
		totals[i.Counterparty] += i.PayoffB
	}
	if len(totals) < 2 {
		return 0
	}
	values := make([]float64, 0, len(totals))
	shift := 0.0
	for _, v := range totals {
		if v < shift {
			shift = v
		}
	}
	for _, v := range totals {
		values = append(values, v-shift) // Gini requires non-negative values
	}
	sort.Float64s(values)

	n := float64(len(values))
	sumAll := 0.0
	for _, v := range values {
		sumAll += v
	}
	if sumAll == 0 {
		return 0
	}
	weighted := 0.0
	for idx, v := range values {
		weighted += float64(idx+1) * v
	}
	return (2*weighted)/(n*sumAll) - (n+1)/n
}
