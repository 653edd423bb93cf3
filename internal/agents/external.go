package agents

import (
	"time"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// DefaultExternalTimeout is used when NewExternalPolicy is given a zero
// or negative timeout. ScenarioConfig.ExternalProxyTimeoutMS is not read
// here or elsewhere in the kernel.
const DefaultExternalTimeout = 5 * time.Second

// Callback is the signature a bridge registers for an external-proxy
// agent. It returns an error on a malformed response; the ExternalPolicy
// converts that to PASS and counts it as a consecutive failure (no
// quarantine follows from the count). The bridge implementation itself (the process
// that talks to an LLM or a human) is out of scope for this module.
type Callback func(models.Observation) (models.Action, error)

// ExternalPolicy delegates Act to a registered callback. The kernel
// treats it identically to a local agent for scheduling; the Orchestrator
// is responsible for enforcing Timeout() around the call, since Act
// itself is a plain synchronous function per the "coroutines ->
// synchronous calls" design note.
type ExternalPolicy struct {
	id                  string
	callback            Callback
	timeout             time.Duration
	lastErr             error
	consecutiveFailures int
}

// NewExternalPolicy constructs a proxy-backed policy. A zero timeout
// falls back to DefaultExternalTimeout.
func NewExternalPolicy(id string, callback Callback, timeout time.Duration) *ExternalPolicy {
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	return &ExternalPolicy{id: id, callback: callback, timeout: timeout}
}

func (p *ExternalPolicy) ID() string                  { return p.id }
func (p *ExternalPolicy) Archetype() models.Archetype { return models.ArchetypeExternal }
func (p *ExternalPolicy) Timeout() time.Duration      { return p.timeout }

func (p *ExternalPolicy) Act(obs models.Observation) models.Action {
	action, err := p.callback(obs)
	if err != nil {
		p.lastErr = err
		p.consecutiveFailures++
		return models.Pass()
	}
	p.lastErr = nil
	p.consecutiveFailures = 0
	return action
}

func (p *ExternalPolicy) OnResult(result Result) {}

// LastError reports the most recent callback failure, if any. The
// Orchestrator does not call it; a failed callback reaches the run only
// as the PASS action Act returns.
func (p *ExternalPolicy) LastError() error { return p.lastErr }

// ConsecutiveFailures reports how many callback invocations have failed
// in a row (timeouts included, via RecordTimeout).
func (p *ExternalPolicy) ConsecutiveFailures() int { return p.consecutiveFailures }

// RecordTimeout lets the Orchestrator report a timeout detected outside
// Act itself (the timeout race is implemented at the call site since Act
// has no context parameter) so the consecutive-failure count stays
// accurate.
func (p *ExternalPolicy) RecordTimeout() {
	p.consecutiveFailures++
}

// Contribute stands in for the declared policy vector's observable
// behavior when no richer bridge-side signal is available: a mildly
// cooperative default, taken at face value per §6's external-agent
// proxy contract.
func (p *ExternalPolicy) Contribute(r *rng.Source) models.ProxyObservables {
	return models.ProxyObservables{TaskProgressDelta: 0.2, EngagementDelta: 0.2}
}

// Decide applies the honest threshold. It is bypassed only when the
// bridge answers with a TRADE_ACCEPT action, which the Orchestrator
// resolves as accepted without calling Decide; a COLLABORATE action
// proposes a new interaction instead of accepting a pending one.
func (p *ExternalPolicy) Decide(pEstimate float64, initiatorRep float64, r *rng.Source) bool {
	return pEstimate >= 0.4
}
