package metrics

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
)

// incoherenceEpsilon keeps I = D/(E+eps) finite when a benchmark replay is
// reproduced exactly by every shadow run.
const incoherenceEpsilon = 1e-9

// IncoherenceResult is §4.8's incoherence metric, computed post-hoc across
// a benchmark run and its shadow replays rather than from a single epoch's
// interactions.
type IncoherenceResult struct {
	Dispersion float64 // D: Fisher dispersion (variance/mean) of MeanP across replays
	MeanError  float64 // E: mean absolute error of each replay's MeanP against the benchmark's
	Index      float64 // I = D / (E + eps)
}

// Incoherence computes I = D/(E+eps) for one epoch across a set of shadow
// replay runs of the same scenario and seed-varied config: D is the Fisher
// dispersion of the replays' MeanP (their variance over their mean, the
// standard index-of-dispersion statistic), and E is the mean absolute
// error of each replay's MeanP against the benchmark run's MeanP for the
// same epoch. It is intentionally not part of Compute, since a single run
// has no replays to disperse across; call this once shadow runs exist.
// Returns a zero IncoherenceResult if no replays are given or the
// replays' mean MeanP is zero (dispersion is undefined at a zero mean).
func Incoherence(benchmark models.EpochMetrics, replays ...models.EpochMetrics) IncoherenceResult {
	if len(replays) == 0 {
		return IncoherenceResult{}
	}

	sum := 0.0
	for _, r := range replays {
		sum += r.MeanP
	}
	mean := sum / float64(len(replays))
	if mean == 0 {
		return IncoherenceResult{}
	}

	variance := 0.0
	errSum := 0.0
	for _, r := range replays {
		d := r.MeanP - mean
		variance += d * d
		errSum += math.Abs(r.MeanP - benchmark.MeanP)
	}
	variance /= float64(len(replays))

	result := IncoherenceResult{
		Dispersion: variance / mean,
		MeanError:  errSum / float64(len(replays)),
	}
	result.Index = result.Dispersion / (result.MeanError + incoherenceEpsilon)
	return result
}
