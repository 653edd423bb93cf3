package agents

import (
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// HonestPolicy chooses cooperative actions, accepts interactions once the
// estimated soft label clears 0.4, and submits claimed tasks diligently.
type HonestPolicy struct {
	id            string
	claimedTaskID string
}

func NewHonestPolicy(id string) *HonestPolicy {
	return &HonestPolicy{id: id}
}

func (p *HonestPolicy) ID() string                  { return p.id }
func (p *HonestPolicy) Archetype() models.Archetype { return models.ArchetypeHonest }

func (p *HonestPolicy) Act(obs models.Observation) models.Action {
	if p.claimedTaskID != "" {
		return models.Action{Kind: models.ActionSubmitWork, TaskID: p.claimedTaskID}
	}
	if len(obs.OpenTasks) > 0 {
		return models.Action{Kind: models.ActionClaimTask, TaskID: obs.OpenTasks[0].ID}
	}
	if target := bestReputationPeer(obs); target != "" {
		return models.Action{Kind: models.ActionCollaborate, TargetID: target}
	}
	if len(obs.VisibleFeed) > 0 {
		last := obs.VisibleFeed[len(obs.VisibleFeed)-1]
		if last.AuthorID != p.id {
			return models.Action{Kind: models.ActionReply, TargetID: last.ID}
		}
	}
	return models.Action{Kind: models.ActionPost, Payload: []byte("progress-update")}
}

func (p *HonestPolicy) OnResult(result Result) {
	if result.Action.Kind == models.ActionClaimTask && result.Err == nil {
		p.claimedTaskID = result.Action.TaskID
	}
	if result.Action.Kind == models.ActionSubmitWork {
		p.claimedTaskID = ""
	}
}

// Contribute produces reliably positive observables.
func (p *HonestPolicy) Contribute(r *rng.Source) models.ProxyObservables {
	return models.ProxyObservables{
		TaskProgressDelta: 0.4 + 0.6*r.Float64(),
		EngagementDelta:   0.4 + 0.6*r.Float64(),
	}
}

// Decide accepts interactions once p clears the honest threshold.
func (p *HonestPolicy) Decide(pEstimate float64, initiatorRep float64, r *rng.Source) bool {
	return pEstimate >= 0.4
}

// bestReputationPeer returns the visible agent with the highest known
// reputation, excluding the caller, or "" if none is visible. Ties go to
// the lexicographically smallest id. Shared by honest, opportunistic, and
// deceptive archetypes.
func bestReputationPeer(obs models.Observation) string {
	best := ""
	bestRep := -1.0
	for id, rep := range obs.Reputations {
		if id == obs.Self.ID {
			continue
		}
		if rep > bestRep || (rep == bestRep && id < best) {
			bestRep = rep
			best = id
		}
	}
	return best
}
