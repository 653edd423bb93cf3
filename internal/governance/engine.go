// Package governance implements the stateful coordinator applying
// taxes, reputation decay, random audits, circuit-breaker windows, stake
// slashing, and collusion detection, in the fixed per-interaction order
// the contract requires: tax -> audit -> circuit-breaker -> stake ->
// collusion. Each concern lives as one method on a single Engine rather
// than one lever object per concern, since the evaluation order is fixed
// and hard-coded rather than a configurable registry.
package governance

import (
	"sort"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/proxy"
	"github.com/swarmkernel/kernel/internal/rng"
	"github.com/swarmkernel/kernel/internal/state"
)

// Engine holds every governance lever's state: per-agent circuit-breaker
// trackers and per-pair collusion windows. Reputation decay carries no
// state of its own beyond the ledger.
type Engine struct {
	cfg     models.GovernanceConfig
	proxy   proxy.Config
	circuit map[string]*violationTracker
	pairs   map[string]*pairWindow
}

// New constructs a governance Engine for one run.
func New(cfg models.GovernanceConfig, proxyCfg proxy.Config) *Engine {
	return &Engine{
		cfg:     cfg,
		proxy:   proxyCfg,
		circuit: make(map[string]*violationTracker),
		pairs:   make(map[string]*pairWindow),
	}
}

// PairFlag names a pair flagged by the collusion detector.
type PairFlag struct {
	A, B   string
	Reason string
}

// Effect summarizes what a governance pass did to one resolved
// interaction; the Orchestrator turns each populated field into the
// matching event.
type Effect struct {
	Audited        bool
	AuditMismatch  *models.AuditMismatch
	Frozen         bool
	FreezeUntil    int
	Slashed        float64
	Quarantined    bool
	CollusionFlags []PairFlag
}

// OnEpochStart unfreezes any agent whose freeze has expired and returns
// their ids, sorted, for event emission.
func (e *Engine) OnEpochStart(env *state.Environment, epoch int) []string {
	var unfrozen []string
	for id, tracker := range e.circuit {
		if tracker.freezeUntilEpoch >= 0 && epoch >= tracker.freezeUntilEpoch {
			tracker.freezeUntilEpoch = -1
			tracker.violations = 0
			unfrozen = append(unfrozen, id)
		}
	}
	sort.Strings(unfrozen)
	for _, id := range unfrozen {
		_ = env.Unfreeze(id)
	}
	return unfrozen
}

// OnEpochEnd applies reputation decay for every agent using the mean p
// of their interactions during the epoch, per §4.6: applied once per
// epoch, not per interaction. An interaction the audit lever inspected
// contributes its audit-revealed ground-truth p (AuditTrueP), not the
// possibly-misreported p, to the initiator's average — a caught or
// uncaught misreport still leaves its true mark on the initiator's own
// reputation trend. The counterparty, who did not misreport, always
// averages the reported p it actually experienced.
func (e *Engine) OnEpochEnd(env *state.Environment, interactions []models.SoftInteraction) error {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, i := range interactions {
		initiatorP := i.P
		if i.AuditTrueP != nil {
			initiatorP = *i.AuditTrueP
		}
		sums[i.Initiator] += initiatorP
		counts[i.Initiator]++
		sums[i.Counterparty] += i.P
		counts[i.Counterparty]++
	}
	gamma := 1 - e.cfg.ReputationDecay
	for _, a := range env.Agents() {
		if counts[a.ID] == 0 {
			continue
		}
		pBar := sums[a.ID] / float64(counts[a.ID])
		newRep := gamma*a.Reputation + (1-gamma)*pBar
		if err := env.SetReputation(a.ID, newRep); err != nil {
			return err
		}
	}
	return nil
}

// ResolveInteraction runs every lever, in the fixed contractual order,
// against one resolved interaction. It mutates i in place (taxed_amount,
// payoffs, audit fields) and env (reputation/freeze/stake/quarantine are
// applied here except reputation, which is epoch-scoped) and returns an
// Effect describing what happened for event emission.
func (e *Engine) ResolveInteraction(i *models.SoftInteraction, trueObs models.ProxyObservables, env *state.Environment, r *rng.Source, epoch int) (Effect, error) {
	var effect Effect

	e.applyTax(i)

	attempted, mismatch, err := e.runAudit(i, trueObs, env, r)
	if err != nil {
		return effect, err
	}
	effect.Audited = attempted
	effect.AuditMismatch = mismatch
	if mismatch != nil {
		slashed, quarantined, err := e.applyAuditPenalty(i.Initiator, env)
		if err != nil {
			return effect, err
		}
		effect.Slashed += slashed
		effect.Quarantined = effect.Quarantined || quarantined
	}

	if i.Accepted {
		frozen, until := e.updateCircuitBreaker(i, epoch)
		if frozen {
			if err := env.Freeze(i.Initiator, until); err != nil {
				return effect, err
			}
			effect.Frozen = true
			effect.FreezeUntil = until
		}
	}

	if e.cfg.CollusionEnabled {
		flags := e.updateCollusion(i, env)
		effect.CollusionFlags = flags
		for _, f := range flags {
			for _, id := range []string{f.A, f.B} {
				if err := env.SetReputation(id, penalizedReputation(env, id, e.cfg.CollusionReputationPenalty)); err != nil {
					return effect, err
				}
			}
		}
	}

	return effect, nil
}

func penalizedReputation(env *state.Environment, id string, penalty float64) float64 {
	a, ok := env.Agent(id)
	if !ok {
		return 0
	}
	rep := a.Reputation - penalty
	if rep < 0 {
		rep = 0
	}
	return rep
}
