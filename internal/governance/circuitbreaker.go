package governance

import "github.com/swarmkernel/kernel/internal/models"

// violationTracker holds one agent's rolling toxicity window. A single
// threshold breach freezes the agent immediately; violations is kept
// only so a richer multi-strike breaker could be layered in later
// without a state migration.
type violationTracker struct {
	outcomes         []float64
	violations       int
	freezeUntilEpoch int
}

func (e *Engine) trackerFor(id string) *violationTracker {
	t, ok := e.circuit[id]
	if !ok {
		t = &violationTracker{freezeUntilEpoch: -1}
		e.circuit[id] = t
	}
	return t
}

// updateCircuitBreaker appends the interaction's p to the initiator's
// rolling window and freezes the agent once the window is full and its
// rolling toxicity, E[1-p] over the window, breaches the configured
// threshold.
func (e *Engine) updateCircuitBreaker(i *models.SoftInteraction, epoch int) (bool, int) {
	if !e.cfg.CircuitBreakerEnabled || e.cfg.CircuitBreakerWindow <= 0 {
		return false, 0
	}
	t := e.trackerFor(i.Initiator)
	if t.freezeUntilEpoch >= 0 {
		return false, 0
	}
	t.outcomes = append(t.outcomes, i.P)
	if len(t.outcomes) > e.cfg.CircuitBreakerWindow {
		t.outcomes = t.outcomes[len(t.outcomes)-e.cfg.CircuitBreakerWindow:]
	}
	if len(t.outcomes) < e.cfg.CircuitBreakerWindow {
		return false, 0
	}
	sum := 0.0
	for _, p := range t.outcomes {
		sum += 1 - p
	}
	toxicity := sum / float64(len(t.outcomes))
	if toxicity <= e.cfg.CircuitBreakerThreshold {
		return false, 0
	}
	t.violations++
	until := epoch + e.cfg.CircuitBreakerCooldown
	t.freezeUntilEpoch = until
	t.outcomes = nil
	return true, until
}
