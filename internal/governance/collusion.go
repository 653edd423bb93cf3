package governance

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/state"
)

// pairWindow is one ordered pair's rolling acceptance history, used by
// the frequency branch of the collusion detector.
type pairWindow struct {
	accepted []bool
}

func pairKey(a, b string) string { return a + "->" + b }

const minCollusionSamples = 3

// updateCollusion runs both detection branches named in §4.6/§9 and
// OR-combines them: a frequent-mutual-acceptance pattern relative to the
// population baseline, or a suspiciously correlated outcome history
// between the two agents across the whole run, not just their shared
// interactions, since coordinated behavior often shows up as correlated
// fortunes rather than direct collaboration.
func (e *Engine) updateCollusion(i *models.SoftInteraction, env *state.Environment) []PairFlag {
	key := pairKey(i.Initiator, i.Counterparty)
	w, ok := e.pairs[key]
	if !ok {
		w = &pairWindow{}
		e.pairs[key] = w
	}
	w.accepted = append(w.accepted, i.Accepted)
	if e.cfg.CollusionWindow > 0 && len(w.accepted) > e.cfg.CollusionWindow {
		w.accepted = w.accepted[len(w.accepted)-e.cfg.CollusionWindow:]
	}
	// Rejected interactions only feed the acceptance-rate windows; flags
	// are raised on accepted interactions.
	if !i.Accepted {
		return nil
	}

	var flags []PairFlag
	if e.frequencyFlag(key, w) {
		flags = append(flags, PairFlag{A: i.Initiator, B: i.Counterparty, Reason: "frequency"})
	}
	if e.correlationFlag(i.Initiator, i.Counterparty, env) {
		flags = append(flags, PairFlag{A: i.Initiator, B: i.Counterparty, Reason: "correlation"})
	}
	return flags
}

func rate(w *pairWindow) (float64, bool) {
	if len(w.accepted) < minCollusionSamples {
		return 0, false
	}
	count := 0
	for _, ok := range w.accepted {
		if ok {
			count++
		}
	}
	return float64(count) / float64(len(w.accepted)), true
}

// frequencyFlag compares the pair's own acceptance rate against the
// population's mean and standard deviation across every pair with enough
// samples to be meaningful.
func (e *Engine) frequencyFlag(key string, w *pairWindow) bool {
	target, ok := rate(w)
	if !ok {
		return false
	}
	var rates []float64
	for k, other := range e.pairs {
		if r, ok := rate(other); ok {
			rates = append(rates, r)
			_ = k
		}
	}
	if len(rates) < 2 {
		return false
	}
	mean := 0.0
	for _, r := range rates {
		mean += r
	}
	mean /= float64(len(rates))
	variance := 0.0
	for _, r := range rates {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rates))
	stddev := math.Sqrt(variance)
	threshold := mean + e.cfg.CollusionFrequencyStdDevs*stddev
	return target > threshold
}

// correlationFlag Pearson-correlates the two agents' recent outcome
// histories, aligned by trailing index rather than shared interactions.
func (e *Engine) correlationFlag(a, b string, env *state.Environment) bool {
	agentA, ok := env.Agent(a)
	if !ok {
		return false
	}
	agentB, ok := env.Agent(b)
	if !ok {
		return false
	}
	x, y := agentA.RecentOutcomes, agentB.RecentOutcomes
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < minCollusionSamples {
		return false
	}
	x = x[len(x)-n:]
	y = y[len(y)-n:]
	corr := pearson(x, y)
	return corr > e.cfg.CollusionCorrelationThreshold
}

func pearson(x, y []float64) float64 {
	n := len(x)
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
