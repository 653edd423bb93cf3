package models

// Archetype tags an agent's behavioral class.
type Archetype string

const (
	ArchetypeHonest        Archetype = "honest"
	ArchetypeOpportunistic Archetype = "opportunistic"
	ArchetypeDeceptive     Archetype = "deceptive"
	ArchetypeAdversarial   Archetype = "adversarial"
	ArchetypeExternal      Archetype = "external"
)

// NotFrozen is the sentinel FrozenUntilEpoch value for an agent that is
// not currently serving a freeze.
const NotFrozen = -1

// Agent is the mutable ledger entry for one participant. It is never
// mutated directly outside internal/state's transactional methods; every
// other component reads a copy.
type Agent struct {
	ID        string
	Archetype Archetype

	// GroupID is a shared latent identifier used by adversarial agents to
	// coordinate collusive behavior. Empty for archetypes that do not
	// coordinate.
	GroupID string

	Reputation float64
	Resources  float64
	Stake      float64

	FrozenUntilEpoch int
	Quarantined      bool

	// RecentOutcomes is the interaction-history window named in the data
	// model: the p-values of the agent's most recent resolved
	// interactions, oldest first, capped at a configured window size.
	RecentOutcomes []float64

	CreatedAtEpoch int
}

// Frozen reports whether the agent is frozen at the given epoch.
func (a Agent) Frozen(epoch int) bool {
	return a.FrozenUntilEpoch != NotFrozen && epoch < a.FrozenUntilEpoch
}

// Clone returns a deep copy safe for a caller to mutate without affecting
// the ledger's copy.
func (a Agent) Clone() Agent {
	out := a
	if a.RecentOutcomes != nil {
		out.RecentOutcomes = append([]float64(nil), a.RecentOutcomes...)
	}
	return out
}

// PushOutcome appends p to the agent's recent-outcome window, evicting the
// oldest entry once the window exceeds size.
func (a *Agent) PushOutcome(p float64, window int) {
	a.RecentOutcomes = append(a.RecentOutcomes, p)
	if window > 0 && len(a.RecentOutcomes) > window {
		a.RecentOutcomes = a.RecentOutcomes[len(a.RecentOutcomes)-window:]
	}
}
