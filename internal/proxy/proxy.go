// Package proxy implements the sigmoid/proxy layer: pure functions
// mapping ProxyObservables to a raw score v-hat and a calibrated soft
// label p. Nothing here holds state or touches the RNG.
package proxy

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
)

// DefaultK is the calibration steepness used when a scenario does not
// override ProxyK.
const DefaultK = 3.0

// DefaultDecayRate is the bounded-decay constant applied to count-valued
// observables (rework_count, verifier_rejections). This resolves the
// open question left by the source material: counts are folded into
// [0,1) via 1 - exp(-c*count), saturating toward a full penalty as the
// count grows, with c fixed here at 0.5 and configurable via
// ScenarioConfig.ProxyDecayRate.
const DefaultDecayRate = 0.5

// Config bundles the weights, calibration constant, and decay rate the
// layer needs. Reimplementations must keep these forms fixed to preserve
// cross-language reproducibility (§4.1).
type Config struct {
	Weights   models.ProxyWeights
	K         float64
	DecayRate float64
}

// FromScenario builds a Config from a ScenarioConfig, substituting the
// documented defaults for zero-valued fields.
func FromScenario(cfg models.ScenarioConfig) Config {
	w := cfg.ProxyWeights
	if w == (models.ProxyWeights{}) {
		w = models.DefaultProxyWeights()
	}
	k := cfg.ProxyK
	if k == 0 {
		k = DefaultK
	}
	decay := cfg.ProxyDecayRate
	if decay == 0 {
		decay = DefaultDecayRate
	}
	return Config{Weights: w, K: k, DecayRate: decay}
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// decay folds a non-negative count into a bounded penalty in [0,1).
func decay(count int, c float64) float64 {
	return 1 - math.Exp(-c*float64(count))
}

// Features computes the weighted linear combination of an observable's
// bounded features, before clamping. task_progress_delta and
// engagement_delta are used directly (already in [-1,1]); rework_count
// and verifier_rejections pass through the bounded decay.
func (c Config) Features(obs models.ProxyObservables) float64 {
	w := c.Weights
	reworkPenalty := decay(obs.ReworkCount, c.DecayRate)
	rejectionPenalty := decay(obs.VerifierRejections, c.DecayRate)
	return w.Progress*obs.TaskProgressDelta -
		w.Rework*reworkPenalty -
		w.Rejections*rejectionPenalty +
		w.Engagement*obs.EngagementDelta
}

// VHat computes the clamped raw proxy score for obs.
func (c Config) VHat(obs models.ProxyObservables) float64 {
	return clamp(c.Features(obs), -1, 1)
}

// Sigmoid computes p = 1/(1+exp(-k*vHat)).
func (c Config) Sigmoid(vHat float64) float64 {
	return 1 / (1 + math.Exp(-c.K*vHat))
}

// Compute returns both v-hat and the calibrated soft label for obs.
func (c Config) Compute(obs models.ProxyObservables) (vHat, p float64) {
	vHat = c.VHat(obs)
	return vHat, c.Sigmoid(vHat)
}

// InverseSigmoid recovers v-hat from a soft label p, provided for
// calibration tooling. p must lie strictly within (0,1).
func (c Config) InverseSigmoid(p float64) float64 {
	return (1 / c.K) * math.Log(p/(1-p))
}
