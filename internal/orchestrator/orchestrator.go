// Package orchestrator drives the epoch/step loop: it is the sole owner
// of the environment ledger, the event log, and the kernel's single
// seeded RNG source, and the only component that calls into governance
// and the agent policies. Turns run in a single-threaded, deterministic
// loop rather than a request-serving one.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/eventlog"
	"github.com/swarmkernel/kernel/internal/governance"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/proxy"
	"github.com/swarmkernel/kernel/internal/rng"
	"github.com/swarmkernel/kernel/internal/state"
)

// outcomeWindow bounds how many recent p-values an agent's RecentOutcomes
// carries, feeding both the observation surface and the collusion
// detector's correlation branch.
const outcomeWindow = 50

// Run holds everything one simulation run needs: the validated scenario,
// the ledger, the governance engine, every agent's policy, and the
// event log. Construct one with New.
type Run struct {
	cfg      models.ScenarioConfig
	env      *state.Environment
	gov      *governance.Engine
	proxyCfg proxy.Config
	policies map[string]agents.Policy
	order    []string // registration order, used by round_robin
	rngSrc   *rng.Source
	log      *eventlog.Log

	interactionSeq        int
	pendingTrue           map[string]models.ProxyObservables
	flaggedPairsThisEpoch int
}

// New wires a Run from a validated scenario, a populated Environment and
// matching policy set (see Bootstrap, which must share this same rng.Source
// so agent construction and turn execution draw from one deterministic
// sequence), and an event log. cfg must already have passed
// config.ValidateScenario and payoff.ValidateConfig.
func New(cfg models.ScenarioConfig, env *state.Environment, policies map[string]agents.Policy, log *eventlog.Log, r *rng.Source) *Run {
	proxyCfg := proxy.FromScenario(cfg)
	return &Run{
		cfg:         cfg,
		env:         env,
		gov:         governance.New(cfg.Governance, proxyCfg),
		proxyCfg:    proxyCfg,
		policies:    policies,
		order:       env.AgentIDs(),
		rngSrc:      r,
		log:         log,
		pendingTrue: make(map[string]models.ProxyObservables),
	}
}

// Execute runs every epoch/step to completion, or stops early on ctx
// cancellation (emitting RUN_CANCELLED) or on a fatal StateError (emitting
// RUN_CRASHED). It returns the resulting RunManifest either way.
func (run *Run) Execute(ctx context.Context) (models.RunManifest, error) {
	manifest := models.RunManifest{ScenarioID: run.cfg.ID, Seed: run.cfg.Seed, StartTime: time.Now().UTC()}

	for _, id := range run.order {
		agent, _ := run.env.Agent(id)
		if _, err := run.log.Append(ctx, 0, 0, models.EventAgentRegistered, map[string]any{
			"agent_id": id, "archetype": string(agent.Archetype), "group_id": agent.GroupID,
		}); err != nil {
			return manifest, err
		}
	}

	for epoch := 0; epoch < run.cfg.NEpochs; epoch++ {
		select {
		case <-ctx.Done():
			if _, err := run.log.Append(ctx, epoch, 0, models.EventRunCancelled, map[string]any{"reason": ctx.Err().Error()}); err != nil {
				return manifest, err
			}
			manifest.FinalStatus = models.RunStatusCancelled
			manifest.NEpochsCompleted = epoch
			manifest.EndTime = time.Now().UTC()
			return manifest, nil
		default:
		}

		if err := run.runEpoch(ctx, epoch); err != nil {
			if _, logErr := run.log.Append(ctx, epoch, 0, models.EventRunCrashed, map[string]any{"error": err.Error()}); logErr != nil {
				return manifest, fmt.Errorf("orchestrator: crash during epoch %d: %v (log write also failed: %w)", epoch, err, logErr)
			}
			manifest.FinalStatus = models.RunStatusCrashed
			manifest.NEpochsCompleted = epoch
			manifest.EndTime = time.Now().UTC()
			return manifest, nil
		}
		manifest.NEpochsCompleted = epoch + 1
	}

	manifest.FinalStatus = models.RunStatusCompleted
	manifest.EndTime = time.Now().UTC()
	return manifest, nil
}

func (run *Run) runEpoch(ctx context.Context, epoch int) error {
	run.env.SetCurrentEpoch(epoch)
	unfrozen := run.gov.OnEpochStart(run.env, epoch)
	for _, id := range unfrozen {
		if _, err := run.log.Append(ctx, epoch, 0, models.EventAgentUnfrozen, map[string]any{"agent_id": id}); err != nil {
			return err
		}
	}
	run.env.ResetEpochCounters()

	var epochInteractions []models.SoftInteraction

	for step := 0; step < run.cfg.StepsPerEpoch; step++ {
		resolved, err := run.runStep(ctx, epoch, step)
		if err != nil {
			return err
		}
		epochInteractions = append(epochInteractions, resolved...)
	}

	if err := run.gov.OnEpochEnd(run.env, epochInteractions); err != nil {
		return err
	}

	frozenCount := 0
	for _, a := range run.env.Agents() {
		if a.Frozen(epoch + 1) {
			frozenCount++
		}
	}
	snapshot := computeEpochMetrics(epoch, epochInteractions, run.env.Agents(), frozenCount, run.flaggedPairsThisEpoch)
	run.flaggedPairsThisEpoch = 0
	if _, err := run.log.Append(ctx, epoch, run.cfg.StepsPerEpoch, models.EventEpochMetrics, encodeMetrics(snapshot)); err != nil {
		return err
	}
	return nil
}

func (run *Run) visitationOrder(step int) []string {
	ids := append([]string(nil), run.order...)
	switch run.cfg.SchedulingMode {
	case models.ScheduleRandom:
		rng.Shuffle(run.rngSrc, ids)
	case models.SchedulePriority:
		sort.SliceStable(ids, func(i, j int) bool {
			ai, _ := run.env.Agent(ids[i])
			aj, _ := run.env.Agent(ids[j])
			if ai.Reputation != aj.Reputation {
				return ai.Reputation > aj.Reputation
			}
			return ids[i] < ids[j]
		})
	default: // round_robin and unset both use registration order
	}
	return ids
}

func (run *Run) nextInteractionID(epoch, step int) string {
	run.interactionSeq++
	return fmt.Sprintf("interaction-%d-%d-%d", epoch, step, run.interactionSeq)
}
