package orchestrator

import "github.com/swarmkernel/kernel/internal/models"

// buildObservation assembles the per-turn view handed to a policy's Act:
// the agent's own ledger entry, the visible feed, the open task pool, and
// every registered agent's reputation.
func (run *Run) buildObservation(id string, epoch, step int) models.Observation {
	self, _ := run.env.Agent(id)
	reputations := make(map[string]float64, len(run.order))
	for _, other := range run.env.Agents() {
		reputations[other.ID] = other.Reputation
	}
	return models.Observation{
		Self:           self,
		VisibleFeed:    run.env.Feed(),
		OpenTasks:      run.env.OpenTasks(),
		Reputations:    reputations,
		RecentOutcomes: self.RecentOutcomes,
		Epoch:          epoch,
		Step:           step,
	}
}
