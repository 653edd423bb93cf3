package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/eventlog"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
	"github.com/swarmkernel/kernel/internal/state"
)

// TestFinalizeDecidedDropsActionForFrozenCounterparty covers §3's
// FROZEN_ACTION_DROPPED invariant: an interaction whose counterparty froze
// or was quarantined between proposal and resolution must be dropped with
// that specific event, not folded into the generic INTERACTION_ABANDONED
// path used for a vanished or decider-less counterparty.
func TestFinalizeDecidedDropsActionForFrozenCounterparty(t *testing.T) {
	env := state.New()
	if err := env.RegisterAgent(models.Agent{ID: "a", Archetype: models.ArchetypeHonest, Reputation: 0.5, Stake: 1}); err != nil {
		t.Fatalf("RegisterAgent a: %v", err)
	}
	if err := env.RegisterAgent(models.Agent{ID: "b", Archetype: models.ArchetypeHonest, Reputation: 0.5, Stake: 1}); err != nil {
		t.Fatalf("RegisterAgent b: %v", err)
	}
	if err := env.Freeze("b", 5); err != nil {
		t.Fatalf("Freeze b: %v", err)
	}

	policies := map[string]agents.Policy{
		"a": agents.NewHonestPolicy("a"),
		"b": agents.NewHonestPolicy("b"),
	}

	path := filepath.Join(t.TempDir(), "events.jsonl")
	primary, err := eventlog.NewJSONLFileSink(path)
	if err != nil {
		t.Fatalf("NewJSONLFileSink failed: %v", err)
	}
	elog := eventlog.New(primary)

	cfg := models.ScenarioConfig{
		ID:           "frozen-counterparty",
		Seed:         3,
		Payoff:       models.DefaultPayoffConfig(),
		Governance:   models.DefaultGovernanceConfig(),
		ProxyWeights: models.DefaultProxyWeights(),
	}
	run := New(cfg, env, policies, elog, rng.New(cfg.Seed))

	interaction := models.SoftInteraction{
		ID: "int-1", Epoch: 0, Step: 0,
		Initiator: "a", Counterparty: "b",
		Kind: models.ActionCollaborate, P: 0.7,
	}
	result, err := run.finalizeInteraction(context.Background(), interaction)
	if err != nil {
		t.Fatalf("finalizeInteraction failed: %v", err)
	}
	if result != nil {
		t.Fatalf("expected a dropped action to resolve to nil, got %+v", result)
	}
	if err := elog.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, err := eventlog.LoadJSONL(path)
	if err != nil {
		t.Fatalf("LoadJSONL failed: %v", err)
	}
	var dropped *models.Event
	for i := range events {
		if events[i].Type == models.EventFrozenActionDropped {
			dropped = &events[i]
		}
		if events[i].Type == models.EventInteractionAbandoned {
			t.Fatalf("expected no INTERACTION_ABANDONED event for a frozen counterparty, got one: %+v", events[i])
		}
	}
	if dropped == nil {
		t.Fatalf("expected a FROZEN_ACTION_DROPPED event, got none in %+v", events)
	}
	if dropped.Payload["agent_id"] != "b" || dropped.Payload["id"] != "int-1" {
		t.Fatalf("FROZEN_ACTION_DROPPED payload = %+v, want agent_id=b id=int-1", dropped.Payload)
	}
}
