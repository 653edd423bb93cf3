package orchestrator

import (
	"fmt"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
	"github.com/swarmkernel/kernel/internal/state"
)

// Bootstrap materializes a scenario's declared agent population into an
// Environment and a matching Policy set. r must be the same rng.Source
// later passed to New: DeceptivePolicy draws its exploit threshold at
// construction time, so agent construction and turn execution have to
// share one deterministic sequence, not two independently seeded ones.
func Bootstrap(cfg models.ScenarioConfig, r *rng.Source) (*state.Environment, map[string]agents.Policy, error) {
	env := state.New()
	policies := make(map[string]agents.Policy)

	for _, spec := range cfg.Agents {
		for i := 0; i < spec.Count; i++ {
			id := fmt.Sprintf("%s-%d", spec.Archetype, i)
			policy, err := newPolicy(spec.Archetype, id, spec.GroupID, spec, r)
			if err != nil {
				return nil, nil, err
			}
			agent := models.Agent{
				ID:               id,
				Archetype:        spec.Archetype,
				GroupID:          spec.GroupID,
				Reputation:       cfg.Governance.InitialReputation,
				Stake:            initialStake(spec),
				FrozenUntilEpoch: models.NotFrozen,
			}
			if err := env.RegisterAgent(agent); err != nil {
				return nil, nil, err
			}
			policies[id] = policy
		}
	}
	return env, policies, nil
}

func initialStake(spec models.AgentSpec) float64 {
	if v, ok := spec.Params["initial_stake"]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func newPolicy(archetype models.Archetype, id, groupID string, spec models.AgentSpec, r *rng.Source) (agents.Policy, error) {
	switch archetype {
	case models.ArchetypeHonest:
		return agents.NewHonestPolicy(id), nil
	case models.ArchetypeOpportunistic:
		return agents.NewOpportunisticPolicy(id), nil
	case models.ArchetypeDeceptive:
		return agents.NewDeceptivePolicy(id, r), nil
	case models.ArchetypeAdversarial:
		return agents.NewAdversarialPolicy(id, groupID, alliesFromParams(spec)), nil
	case models.ArchetypeExternal:
		return nil, &models.ConfigError{Field: "agents[].archetype", Reason: "external agent " + id + " requires a callback registered directly against the Environment and policy map returned by Bootstrap, before calling New"}
	default:
		return nil, &models.ConfigError{Field: "agents[].archetype", Reason: "unknown archetype " + string(archetype)}
	}
}

func alliesFromParams(spec models.AgentSpec) []string {
	raw, ok := spec.Params["allies"]
	if !ok {
		return nil
	}
	list, ok := raw.([]string)
	if !ok {
		return nil
	}
	return list
}

// External agents have no scenario-declared behavior to construct from a
// count alone; a caller that wants one registers the agent and its
// agents.NewExternalPolicy callback directly against the Environment and
// policies map Bootstrap returns, before passing both to New.
