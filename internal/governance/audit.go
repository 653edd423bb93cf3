package governance

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
	"github.com/swarmkernel/kernel/internal/state"
)

// runAudit probabilistically re-derives p from the sandbox's true
// observables (the ground truth §4.6 says an audit reveals) and compares
// it against the p actually used to resolve the interaction. A gap past
// AuditDivergenceThreshold is a caught misreport.
func (e *Engine) runAudit(i *models.SoftInteraction, trueObs models.ProxyObservables, env *state.Environment, r *rng.Source) (bool, *models.AuditMismatch, error) {
	if !i.Accepted || e.cfg.AuditProbability <= 0 {
		return false, nil, nil
	}
	if !r.Bool(e.cfg.AuditProbability) {
		return false, nil, nil
	}
	i.Audited = true
	trueVHat := e.proxy.VHat(trueObs)
	trueP := e.proxy.Sigmoid(trueVHat)
	i.AuditTrueP = &trueP
	divergence := math.Abs(trueP - i.P)
	verdict := divergence <= e.cfg.AuditDivergenceThreshold
	i.AuditVerdict = &verdict
	if verdict {
		return true, nil, nil
	}
	mismatch := &models.AuditMismatch{
		InteractionID:  i.ID,
		Divergence:     divergence,
		PenaltyApplied: e.cfg.AuditPenalty,
	}
	return true, mismatch, nil
}

// applyAuditPenalty applies spec.md §4.6's three-part caught-misreport
// penalty: a reputation penalty, a resource penalty, and a stake slash
// (AuditPenalty), quarantining the agent outright once its stake is
// exhausted. The reputation and resource penalties land immediately,
// unlike ordinary reputation decay which is epoch-scoped, since a caught
// misreport is a discrete violation rather than an averaged signal.
func (e *Engine) applyAuditPenalty(agentID string, env *state.Environment) (float64, bool, error) {
	if e.cfg.AuditReputationPenalty > 0 {
		if err := env.SetReputation(agentID, penalizedReputation(env, agentID, e.cfg.AuditReputationPenalty)); err != nil {
			return 0, false, err
		}
	}
	if e.cfg.AuditResourcePenalty > 0 {
		if err := env.ApplyPayoff(agentID, -e.cfg.AuditResourcePenalty); err != nil {
			return 0, false, err
		}
	}
	if e.cfg.AuditPenalty <= 0 {
		return 0, false, nil
	}
	slashed, exhausted, err := env.SlashStake(agentID, e.cfg.AuditPenalty)
	if err != nil {
		return 0, false, err
	}
	if exhausted {
		if err := env.Quarantine(agentID); err != nil {
			return slashed, false, err
		}
		return slashed, true, nil
	}
	return slashed, false, nil
}
