package agents

import (
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// DeceptivePolicy behaves honestly for its first threshold interactions,
// then exploits trusted partners. The threshold is drawn once per
// instance from a uniform distribution on [3,8] using the kernel RNG
// (§4.4, §9's resolved open question), never a fixed constant.
type DeceptivePolicy struct {
	id            string
	threshold     int
	interactions  int
	claimedTaskID string
}

// NewDeceptivePolicy draws this instance's trust threshold from r and
// returns the policy. r must be the kernel's single seeded source so the
// draw is reproducible.
func NewDeceptivePolicy(id string, r *rng.Source) *DeceptivePolicy {
	return &DeceptivePolicy{id: id, threshold: r.IntRange(3, 8)}
}

func (p *DeceptivePolicy) ID() string                  { return p.id }
func (p *DeceptivePolicy) Archetype() models.Archetype { return models.ArchetypeDeceptive }

func (p *DeceptivePolicy) exploiting() bool {
	return p.interactions >= p.threshold
}

func (p *DeceptivePolicy) Act(obs models.Observation) models.Action {
	if p.claimedTaskID != "" {
		return models.Action{Kind: models.ActionSubmitWork, TaskID: p.claimedTaskID}
	}
	if target := bestReputationPeer(obs); target != "" {
		// Once exploiting, deliberately target the most-trusted partner
		// visible, mirroring the honest policy's own choice so a
		// counterparty cannot tell the proposal apart from a benign one.
		return models.Action{Kind: models.ActionCollaborate, TargetID: target}
	}
	if len(obs.OpenTasks) > 0 {
		return models.Action{Kind: models.ActionClaimTask, TaskID: obs.OpenTasks[0].ID}
	}
	return models.Action{Kind: models.ActionPass}
}

func (p *DeceptivePolicy) OnResult(result Result) {
	if result.Action.Kind == models.ActionClaimTask && result.Err == nil {
		p.claimedTaskID = result.Action.TaskID
	}
	if result.Action.Kind == models.ActionSubmitWork {
		p.claimedTaskID = ""
	}
	if result.Interaction != nil && result.Interaction.Initiator == p.id {
		p.interactions++
	}
}

// Contribute returns the true observables: honest while building trust,
// harmful once past the threshold. This is the sandbox's ground-truth
// channel; Misreport below is what an audit is meant to catch.
func (p *DeceptivePolicy) Contribute(r *rng.Source) models.ProxyObservables {
	if !p.exploiting() {
		return models.ProxyObservables{
			TaskProgressDelta: 0.4 + 0.6*r.Float64(),
			EngagementDelta:   0.4 + 0.6*r.Float64(),
		}
	}
	return models.ProxyObservables{
		TaskProgressDelta:  -0.6 - 0.4*r.Float64(),
		ReworkCount:        r.IntRange(2, 5),
		VerifierRejections: r.IntRange(1, 3),
		EngagementDelta:    -0.5 * r.Float64(),
	}
}

// Misreport inflates the exploit-phase observables back to a
// trustworthy-looking profile; the honeymoon-phase observables pass
// through unchanged since there is nothing to hide yet.
func (p *DeceptivePolicy) Misreport(trueObs models.ProxyObservables) models.ProxyObservables {
	if !p.exploiting() {
		return trueObs
	}
	return models.ProxyObservables{
		TaskProgressDelta: 0.5,
		EngagementDelta:   0.3,
	}
}

// Decide behaves like an honest counterparty: nothing about accepting
// others' proposals needs to change for this archetype's deception to
// work, since the deception lives in what it reports as an initiator.
func (p *DeceptivePolicy) Decide(pEstimate float64, initiatorRep float64, r *rng.Source) bool {
	return pEstimate >= 0.4
}
