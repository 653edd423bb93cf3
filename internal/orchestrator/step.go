package orchestrator

import (
	"context"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/models"
)

// runStep drives one step's turn order: build each agent's observation,
// call its policy, execute the resulting action, and hand the outcome
// back via OnResult. Interactions left pending after every scheduled
// agent has acted are resolved or abandoned in the end-of-step sweep.
func (run *Run) runStep(ctx context.Context, epoch, step int) ([]models.SoftInteraction, error) {
	order := run.visitationOrder(step)
	visited := make(map[string]bool, len(order))
	var resolved []models.SoftInteraction

	for _, id := range order {
		agent, ok := run.env.Agent(id)
		if !ok {
			continue
		}
		if agent.Quarantined || agent.Frozen(epoch) {
			reason := "frozen"
			if agent.Quarantined {
				reason = "quarantined"
			}
			if _, err := run.log.Append(ctx, epoch, step, models.EventAgentSkipped, map[string]any{
				"agent_id": id, "reason": reason,
			}); err != nil {
				return nil, err
			}
			visited[id] = true
			continue
		}

		policy := run.policies[id]
		obs := run.buildObservation(id, epoch, step)
		action, actErr := callAct(policy, obs)

		result, interaction, err := run.execute(ctx, epoch, step, id, action, actErr, visited)
		if err != nil {
			return nil, err
		}
		if interaction != nil {
			resolved = append(resolved, *interaction)
		}
		policy.OnResult(result)
		visited[id] = true
	}

	swept, err := run.sweepPending(ctx, epoch, step)
	if err != nil {
		return nil, err
	}
	resolved = append(resolved, swept...)
	return resolved, nil
}

// execute dispatches one agent's action against the ledger, converting
// any TransientActionError into a logged, no-op PASS rather than
// aborting the run (§4.3/§7).
func (run *Run) execute(ctx context.Context, epoch, step int, agentID string, action models.Action, actErr error, visited map[string]bool) (agents.Result, *models.SoftInteraction, error) {
	if actErr == nil && action.Kind != models.ActionPass {
		archetype := run.policies[agentID].Archetype()
		limit := run.cfg.RateLimits[archetype][action.Kind]
		if !run.env.CheckAndConsume(agentID, action.Kind, limit) {
			actErr = &models.TransientActionError{AgentID: agentID, Reason: models.ReasonRateLimited}
		}
	}
	if actErr != nil {
		if _, err := run.log.Append(ctx, epoch, step, models.EventActionEmitted, map[string]any{
			"agent_id": agentID, "kind": string(action.Kind), "dropped": true, "error": actErr.Error(),
		}); err != nil {
			return agents.Result{}, nil, err
		}
		return agents.Result{Action: models.Pass(), Err: actErr}, nil, nil
	}

	var interaction *models.SoftInteraction
	var err error

	switch action.Kind {
	case models.ActionPost:
		run.env.AddFeedPost(models.FeedPost{ID: run.nextInteractionID(epoch, step), AuthorID: agentID, Payload: action.Payload, Epoch: epoch, Step: step})
	case models.ActionReply:
		run.env.AddFeedPost(models.FeedPost{ID: run.nextInteractionID(epoch, step), AuthorID: agentID, Payload: action.Payload, Epoch: epoch, Step: step})
	case models.ActionVote:
		// The ledger has no separate vote tally outside task verification;
		// a vote's only effect is the ACTION_EMITTED record below.
	case models.ActionClaimTask:
		_, err = run.env.ClaimTask(agentID, action.TaskID)
	case models.ActionSubmitWork:
		_, err = run.env.SubmitWork(agentID, action.TaskID, action.Payload)
	case models.ActionVerify:
		_, err = run.env.VerifyTask(agentID, action.TaskID, action.VoteValue)
	case models.ActionCollaborate, models.ActionTradePropose:
		interaction, err = run.proposeOrResolve(ctx, epoch, step, agentID, action.TargetID, action.Kind, visited)
	case models.ActionTradeAccept:
		interaction, err = run.acceptPending(ctx, agentID, action.TargetID)
	case models.ActionPass, models.ActionExternalCustom:
		// no state effect
	}

	payload := map[string]any{"agent_id": agentID, "kind": string(action.Kind), "target_id": action.TargetID, "task_id": action.TaskID}
	if err != nil {
		payload["dropped"] = true
		payload["error"] = err.Error()
	}
	if _, logErr := run.log.Append(ctx, epoch, step, models.EventActionEmitted, payload); logErr != nil {
		return agents.Result{}, nil, logErr
	}

	if err != nil {
		return agents.Result{Action: action, Err: err}, nil, nil
	}
	return agents.Result{Action: action, Interaction: interaction}, interaction, nil
}
