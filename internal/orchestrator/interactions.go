package orchestrator

import (
	"context"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/eventlog"
	"github.com/swarmkernel/kernel/internal/governance"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/payoff"
)

// proposeOrResolve handles a COLLABORATE/TRADE_PROPOSE action: it draws
// the initiator's true observables, applies any misreport, computes
// v-hat/p, and either resolves the interaction immediately (if the
// counterparty already took its turn this step) or defers it to the
// end-of-step sweep, per §4.5's same-step-vs-deferred rule.
func (run *Run) proposeOrResolve(ctx context.Context, epoch, step int, initiatorID, counterpartyID string, kind models.ActionKind, visited map[string]bool) (*models.SoftInteraction, error) {
	if counterpartyID == "" || counterpartyID == initiatorID {
		return nil, &models.TransientActionError{AgentID: initiatorID, Reason: models.ReasonInvalidTarget}
	}
	if _, ok := run.env.Agent(counterpartyID); !ok {
		return nil, &models.TransientActionError{AgentID: initiatorID, Reason: models.ReasonInvalidTarget}
	}
	if err := run.gov.CheckStake(initiatorID, run.env); err != nil {
		return nil, err
	}

	initiatorPolicy := run.policies[initiatorID]
	contributor, ok := initiatorPolicy.(agents.Contributor)
	if !ok {
		return nil, &models.TransientActionError{AgentID: initiatorID, Reason: models.ReasonInvalidTarget}
	}
	trueObs := contributor.Contribute(run.rngSrc)
	reportedObs := trueObs
	if deceiver, ok := initiatorPolicy.(agents.Deceiver); ok {
		reportedObs = deceiver.Misreport(trueObs)
	}
	vHat, p := run.proxyCfg.Compute(reportedObs)

	id := run.nextInteractionID(epoch, step)
	interaction := models.SoftInteraction{
		ID:           id,
		Epoch:        epoch,
		Step:         step,
		Initiator:    initiatorID,
		Counterparty: counterpartyID,
		Kind:         kind,
		Observables:  reportedObs,
		VHat:         vHat,
		P:            p,
	}
	run.pendingTrue[id] = trueObs

	if visited[counterpartyID] {
		return run.finalizeInteraction(ctx, interaction)
	}

	run.env.ProposeInteraction(interaction)
	if _, err := run.log.Append(ctx, epoch, step, models.EventInteractionProposed, map[string]any{
		"id": id, "initiator": initiatorID, "counterparty": counterpartyID, "kind": string(kind),
	}); err != nil {
		return nil, err
	}
	return nil, nil
}

// sweepPending resolves or abandons every interaction still pending at
// the end of a step, per §4.5: by now every scheduled agent has had its
// turn, so any interaction that still cannot be resolved (its
// counterparty vanished, froze, or was quarantined mid-step) is
// abandoned rather than left to leak into the next step.
func (run *Run) sweepPending(ctx context.Context, epoch, step int) ([]models.SoftInteraction, error) {
	pending := run.env.PendingInteractions()
	sortInteractionsByID(pending)

	var resolved []models.SoftInteraction
	for _, p := range pending {
		if _, err := run.env.ResolveInteraction(p.ID); err != nil {
			continue // already resolved via same-step path; nothing left to sweep
		}
		r, err := run.finalizeInteraction(ctx, p)
		if err != nil {
			return nil, err
		}
		if r != nil {
			resolved = append(resolved, *r)
		}
	}
	return resolved, nil
}

func sortInteractionsByID(xs []models.SoftInteraction) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j].ID < xs[j-1].ID; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// finalizeInteraction resolves one interaction against its counterparty's
// Decide, runs the fixed governance order, applies payoffs, and appends
// the resulting events. It returns nil (no error) when the interaction
// had to be abandoned instead.
func (run *Run) finalizeInteraction(ctx context.Context, interaction models.SoftInteraction) (*models.SoftInteraction, error) {
	return run.finalizeDecided(ctx, interaction, nil)
}

// finalizeDecided is finalizeInteraction's general form: forceAccept, when
// non-nil, bypasses the counterparty's Decide (used by an explicit
// TRADE_ACCEPT) but every other step — payoff, governance, ledger
// mutation, event emission — stays identical. A counterparty that froze or
// was quarantined between proposal and resolution drops the action
// (FROZEN_ACTION_DROPPED) rather than being treated as generically
// unavailable (INTERACTION_ABANDONED).
func (run *Run) finalizeDecided(ctx context.Context, interaction models.SoftInteraction, forceAccept *bool) (*models.SoftInteraction, error) {
	trueObs := run.pendingTrue[interaction.ID]
	delete(run.pendingTrue, interaction.ID)

	counterpartyAgent, ok := run.env.Agent(interaction.Counterparty)
	counterpartyPolicy := run.policies[interaction.Counterparty]
	decider, hasDecider := counterpartyPolicy.(agents.Decider)

	if ok && (counterpartyAgent.Frozen(interaction.Epoch) || counterpartyAgent.Quarantined) {
		if _, err := run.log.Append(ctx, interaction.Epoch, interaction.Step, models.EventFrozenActionDropped, map[string]any{
			"id": interaction.ID, "agent_id": interaction.Counterparty, "role": "counterparty",
		}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if !ok || (forceAccept == nil && !hasDecider) {
		if _, err := run.log.Append(ctx, interaction.Epoch, interaction.Step, models.EventInteractionAbandoned, map[string]any{
			"id": interaction.ID, "reason": "counterparty_unavailable",
		}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	initiatorAgent, _ := run.env.Agent(interaction.Initiator)
	if forceAccept != nil {
		interaction.Accepted = *forceAccept
	} else {
		interaction.Accepted = decider.Decide(interaction.P, initiatorAgent.Reputation, run.rngSrc)
	}

	if interaction.Accepted {
		payoffA, payoffB := payoff.Compute(interaction, run.cfg.Payoff, initiatorAgent.Reputation, counterpartyAgent.Reputation, 0, 0)
		interaction.PayoffA, interaction.PayoffB = payoffA, payoffB
	}

	effect, err := run.gov.ResolveInteraction(&interaction, trueObs, run.env, run.rngSrc, interaction.Epoch)
	if err != nil {
		return nil, err
	}

	if interaction.Accepted {
		if err := run.env.ApplyPayoff(interaction.Initiator, interaction.PayoffA); err != nil {
			return nil, err
		}
		if err := run.env.ApplyPayoff(interaction.Counterparty, interaction.PayoffB); err != nil {
			return nil, err
		}
	}
	if err := run.env.PushOutcome(interaction.Initiator, interaction.P, outcomeWindow); err != nil {
		return nil, err
	}
	if err := run.env.PushOutcome(interaction.Counterparty, interaction.P, outcomeWindow); err != nil {
		return nil, err
	}

	if _, err := run.log.Append(ctx, interaction.Epoch, interaction.Step, models.EventInteractionResolved, eventlog.EncodeInteraction(interaction)); err != nil {
		return nil, err
	}
	if err := run.emitGovernanceEvents(ctx, interaction, effect); err != nil {
		return nil, err
	}

	if initiatorResult, ok := run.policies[interaction.Initiator]; ok {
		initiatorResult.OnResult(agents.Result{Interaction: &interaction})
	}
	counterpartyPolicy.OnResult(agents.Result{Interaction: &interaction})

	return &interaction, nil
}

// acceptPending looks for a pending interaction the given initiator
// proposed to agentID and resolves it as accepted unconditionally,
// bypassing Decide since the agent has explicitly chosen to accept via
// TRADE_ACCEPT. Returns (nil, nil) if there is nothing matching to
// accept.
func (run *Run) acceptPending(ctx context.Context, agentID, initiatorID string) (*models.SoftInteraction, error) {
	for _, p := range run.env.PendingInteractions() {
		if p.Counterparty != agentID || p.Initiator != initiatorID {
			continue
		}
		if _, err := run.env.ResolveInteraction(p.ID); err != nil {
			continue
		}
		accept := true
		return run.finalizeDecided(ctx, p, &accept)
	}
	return nil, nil
}

func (run *Run) emitGovernanceEvents(ctx context.Context, i models.SoftInteraction, effect governance.Effect) error {
	if effect.Audited {
		payload := map[string]any{"interaction_id": i.ID, "agent_id": i.Initiator}
		if effect.AuditMismatch != nil {
			payload["divergence"] = effect.AuditMismatch.Divergence
			payload["penalty_applied"] = effect.AuditMismatch.PenaltyApplied
		}
		if _, err := run.log.Append(ctx, i.Epoch, i.Step, models.EventAuditExecuted, payload); err != nil {
			return err
		}
	}
	if effect.Frozen {
		if _, err := run.log.Append(ctx, i.Epoch, i.Step, models.EventAgentFrozen, map[string]any{
			"agent_id": i.Initiator, "until_epoch": effect.FreezeUntil,
		}); err != nil {
			return err
		}
	}
	if effect.Slashed > 0 {
		if _, err := run.log.Append(ctx, i.Epoch, i.Step, models.EventStakeSlashed, map[string]any{
			"agent_id": i.Initiator, "amount": effect.Slashed,
		}); err != nil {
			return err
		}
	}
	if effect.Quarantined {
		if _, err := run.log.Append(ctx, i.Epoch, i.Step, models.EventAgentQuarantined, map[string]any{
			"agent_id": i.Initiator,
		}); err != nil {
			return err
		}
	}
	for _, flag := range effect.CollusionFlags {
		run.flaggedPairsThisEpoch++
		if _, err := run.log.Append(ctx, i.Epoch, i.Step, models.EventCollusionFlagged, map[string]any{
			"agent_a": flag.A, "agent_b": flag.B, "reason": flag.Reason,
		}); err != nil {
			return err
		}
	}
	return nil
}
