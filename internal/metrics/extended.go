package metrics

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
)

// Extended carries supplemental per-epoch metrics not named in the core
// EpochMetrics data model. They enrich the demo output without altering
// any invariant or replay-identity contract, since nothing in the
// orchestrator loop depends on them.
type Extended struct {
	// Spread is the standard deviation of p over all resolved
	// interactions.
	Spread float64

	// UncertainFraction is the fraction of resolved interactions whose p
	// falls within an uncertainty band around 0.5.
	UncertainFraction float64

	// QualityDistribution is a 10-bin histogram of p over [0,1].
	QualityDistribution [10]int

	// HighQualityParticipants and LowQualityParticipants bucket accepted
	// interactions' initiators by whether their interaction landed above
	// or below the population mean p.
	HighQualityParticipants int
	LowQualityParticipants  int
}

// uncertaintyBand is the half-width around p=0.5 within which an
// interaction is flagged uncertain.
const uncertaintyBand = 0.1

// ComputeExtended derives the supplemental metrics for one epoch's
// resolved interactions.
func ComputeExtended(interactions []models.SoftInteraction) Extended {
	var ext Extended
	if len(interactions) == 0 {
		return ext
	}

	mean, variance := meanVarianceP(interactions)
	ext.Spread = math.Sqrt(variance)

	uncertain := 0
	participants := make(map[string]bool)
	for _, i := range interactions {
		if math.Abs(i.P-0.5) <= uncertaintyBand {
			uncertain++
		}
		idx := int(i.P * 10)
		if idx >= 10 {
			idx = 9
		}
		if idx < 0 {
			idx = 0
		}
		ext.QualityDistribution[idx]++

		if i.Accepted && !participants[i.Initiator] {
			participants[i.Initiator] = true
			if i.P >= mean {
				ext.HighQualityParticipants++
			} else {
				ext.LowQualityParticipants++
			}
		}
	}
	ext.UncertainFraction = float64(uncertain) / float64(len(interactions))
	return ext
}
