package agents

import (
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// OpportunisticPolicy cherry-picks high-reputation partners, accepts
// loosely, and may defect on submissions.
type OpportunisticPolicy struct {
	id            string
	claimedTaskID string
}

func NewOpportunisticPolicy(id string) *OpportunisticPolicy {
	return &OpportunisticPolicy{id: id}
}

func (p *OpportunisticPolicy) ID() string                  { return p.id }
func (p *OpportunisticPolicy) Archetype() models.Archetype { return models.ArchetypeOpportunistic }

func (p *OpportunisticPolicy) Act(obs models.Observation) models.Action {
	if target := bestReputationPeer(obs); target != "" {
		return models.Action{Kind: models.ActionCollaborate, TargetID: target}
	}
	if p.claimedTaskID != "" {
		return models.Action{Kind: models.ActionSubmitWork, TaskID: p.claimedTaskID}
	}
	if len(obs.OpenTasks) > 0 {
		return models.Action{Kind: models.ActionClaimTask, TaskID: obs.OpenTasks[0].ID}
	}
	return models.Action{Kind: models.ActionPass}
}

func (p *OpportunisticPolicy) OnResult(result Result) {
	if result.Action.Kind == models.ActionClaimTask && result.Err == nil {
		p.claimedTaskID = result.Action.TaskID
	}
	if result.Action.Kind == models.ActionSubmitWork {
		p.claimedTaskID = ""
	}
}

// Contribute is noisier than honest: progress skews positive but
// sometimes defects into rework.
func (p *OpportunisticPolicy) Contribute(r *rng.Source) models.ProxyObservables {
	obs := models.ProxyObservables{
		TaskProgressDelta: -0.2 + 0.8*r.Float64(),
		EngagementDelta:   0.1 * r.Float64(),
	}
	if r.Bool(0.25) {
		obs.ReworkCount = r.IntRange(1, 3)
	}
	return obs
}

// Decide accepts when p clears a low bar, or with flat 30% odds
// regardless, per §4.4.
func (p *OpportunisticPolicy) Decide(pEstimate float64, initiatorRep float64, r *rng.Source) bool {
	if pEstimate >= 0.2 {
		return true
	}
	return r.Bool(0.3)
}
