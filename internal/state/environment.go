// Package state owns the mutable environment ledger: agents, the task
// pool, the visible feed, pending interactions, and per-epoch rate-limit
// counters. Each entity kind lives in a flat map, mutated through named
// methods that either fully apply or fail with a typed reason. No mutex
// guards these maps: the core has no concurrency and the Environment has
// exactly one owner, the Orchestrator.
package state

import (
	"github.com/swarmkernel/kernel/internal/models"
)

// Environment is the ledger. Zero value is not usable; construct with
// New.
type Environment struct {
	agents    map[string]models.Agent
	agentIDs  []string // stable registration order, used by round_robin scheduling

	tasks     map[string]models.Task
	taskIDs   []string

	feed []models.FeedPost

	pending map[string]models.SoftInteraction

	rateCounters map[string]map[models.ActionKind]int

	currentEpoch int
}

// New constructs an empty Environment.
func New() *Environment {
	return &Environment{
		agents:       make(map[string]models.Agent),
		tasks:        make(map[string]models.Task),
		pending:      make(map[string]models.SoftInteraction),
		rateCounters: make(map[string]map[models.ActionKind]int),
	}
}

// SetCurrentEpoch is called by the Orchestrator at the top of each epoch,
// before ResetEpochCounters and before governance.OnEpochStart.
func (e *Environment) SetCurrentEpoch(epoch int) {
	e.currentEpoch = epoch
}

// CurrentEpoch returns the epoch last set via SetCurrentEpoch.
func (e *Environment) CurrentEpoch() int {
	return e.currentEpoch
}
