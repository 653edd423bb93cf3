package governance

import (
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/state"
)

// CheckStake blocks an agent from initiating a new interaction when its
// stake has fallen below the configured requirement. The Orchestrator
// calls this before Contribute/Propose, not after, since staking gates
// participation rather than penalizing an already-resolved interaction.
func (e *Engine) CheckStake(agentID string, env *state.Environment) error {
	if e.cfg.StakingRequirement <= 0 {
		return nil
	}
	a, ok := env.Agent(agentID)
	if !ok {
		return &models.StateError{Op: "CheckStake", Reason: "unknown agent " + agentID}
	}
	if a.Stake < e.cfg.StakingRequirement {
		return &models.TransientActionError{AgentID: agentID, Reason: models.ReasonInsufficientStake}
	}
	return nil
}
