package state

import "github.com/swarmkernel/kernel/internal/models"

// RegisterAgent adds a new agent to the ledger. Registration order is
// preserved for round_robin scheduling.
func (e *Environment) RegisterAgent(a models.Agent) error {
	if _, exists := e.agents[a.ID]; exists {
		return &models.StateError{Op: "register_agent", Reason: "duplicate agent id " + a.ID}
	}
	if a.FrozenUntilEpoch == 0 {
		a.FrozenUntilEpoch = models.NotFrozen
	}
	e.agents[a.ID] = a
	e.agentIDs = append(e.agentIDs, a.ID)
	return nil
}

// Agent returns a copy of the agent with the given id.
func (e *Environment) Agent(id string) (models.Agent, bool) {
	a, ok := e.agents[id]
	if !ok {
		return models.Agent{}, false
	}
	return a.Clone(), true
}

// Agents returns a copy of every agent, in registration order.
func (e *Environment) Agents() []models.Agent {
	out := make([]models.Agent, 0, len(e.agentIDs))
	for _, id := range e.agentIDs {
		out = append(out, e.agents[id].Clone())
	}
	return out
}

// AgentIDs returns the registered agent ids, in registration order.
func (e *Environment) AgentIDs() []string {
	out := make([]string, len(e.agentIDs))
	copy(out, e.agentIDs)
	return out
}

// mutateAgent applies fn to a copy of the named agent and stores the
// result, or returns a StateError if the agent does not exist. Every
// exported mutation in this file funnels through here so a caller never
// observes a half-applied update.
func (e *Environment) mutateAgent(id string, fn func(*models.Agent) error) error {
	a, ok := e.agents[id]
	if !ok {
		return &models.StateError{Op: "mutate_agent", Reason: "unknown agent " + id}
	}
	copyA := a.Clone()
	if err := fn(&copyA); err != nil {
		return err
	}
	e.agents[id] = copyA
	return nil
}

// ApplyPayoff credits amount to the agent's resources.
func (e *Environment) ApplyPayoff(id string, amount float64) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		a.Resources += amount
		return nil
	})
}

// SetReputation overwrites the agent's reputation. It only enforces the
// non-NaN, non-negative invariant (§8 property 4); no upper bound is
// applied here, and governance callers only floor penalized values at 0.
func (e *Environment) SetReputation(id string, rep float64) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		if rep != rep { // NaN check without importing math
			return &models.StateError{Op: "set_reputation", Reason: "reputation became NaN for " + id}
		}
		if rep < 0 {
			return &models.StateError{Op: "set_reputation", Reason: "reputation went negative for " + id}
		}
		a.Reputation = rep
		return nil
	})
}

// PushOutcome appends p to the agent's recent-outcome window.
func (e *Environment) PushOutcome(id string, p float64, window int) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		a.PushOutcome(p, window)
		return nil
	})
}

// Freeze transitions the agent to frozen until untilEpoch (exclusive).
func (e *Environment) Freeze(id string, untilEpoch int) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		a.FrozenUntilEpoch = untilEpoch
		return nil
	})
}

// Unfreeze clears an agent's freeze state.
func (e *Environment) Unfreeze(id string) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		a.FrozenUntilEpoch = models.NotFrozen
		return nil
	})
}

// Quarantine marks an agent as quarantined (observes only).
func (e *Environment) Quarantine(id string) error {
	return e.mutateAgent(id, func(a *models.Agent) error {
		a.Quarantined = true
		return nil
	})
}

// SlashStake debits amount from the agent's stake, floored at zero, and
// reports the amount actually removed and whether the agent's stake is
// now exhausted (which the caller uses to decide on quarantine).
func (e *Environment) SlashStake(id string, amount float64) (slashed float64, exhausted bool, err error) {
	err = e.mutateAgent(id, func(a *models.Agent) error {
		if amount > a.Stake {
			slashed = a.Stake
		} else {
			slashed = amount
		}
		a.Stake -= slashed
		if a.Stake < 0 {
			a.Stake = 0
		}
		exhausted = a.Stake == 0
		return nil
	})
	return slashed, exhausted, err
}

// DebitStake reduces stake for a normal (non-slash) expenditure, failing
// with TransientActionError if the agent's stake would go negative.
func (e *Environment) DebitStake(id string, amount float64) error {
	a, ok := e.agents[id]
	if !ok {
		return &models.StateError{Op: "debit_stake", Reason: "unknown agent " + id}
	}
	if a.Stake < amount {
		return &models.TransientActionError{AgentID: id, Reason: models.ReasonInsufficientStake}
	}
	return e.mutateAgent(id, func(agent *models.Agent) error {
		agent.Stake -= amount
		return nil
	})
}
