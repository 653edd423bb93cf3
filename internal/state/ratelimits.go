package state

import "github.com/swarmkernel/kernel/internal/models"

// ResetEpochCounters clears every agent's per-action rate-limit counters.
// Called by the Orchestrator at the top of each epoch, per §4.5.
func (e *Environment) ResetEpochCounters() {
	e.rateCounters = make(map[string]map[models.ActionKind]int)
}

// CheckAndConsume increments the counter for (agentID, kind) and reports
// whether the action is still within limit. limit <= 0 means unlimited.
// On success the counter is incremented; on failure it is left
// unchanged, matching the "either succeed atomically or leave state
// unchanged" contract of §4.3.
func (e *Environment) CheckAndConsume(agentID string, kind models.ActionKind, limit int) bool {
	if limit <= 0 {
		return true
	}
	counters, ok := e.rateCounters[agentID]
	if !ok {
		counters = make(map[models.ActionKind]int)
		e.rateCounters[agentID] = counters
	}
	if counters[kind] >= limit {
		return false
	}
	counters[kind]++
	return true
}
