package orchestrator

import (
	"time"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/models"
)

// callAct invokes policy.Act, enforcing a hard timeout when the policy
// implements agents.ExternalCaller. This is the one legitimate
// concurrency point in an otherwise single-threaded core (§5): the
// goroutine racing the callback is abandoned, not joined, on timeout, so
// a hung bridge can never stall the run.
func callAct(policy agents.Policy, obs models.Observation) (models.Action, error) {
	caller, ok := policy.(agents.ExternalCaller)
	if !ok {
		return policy.Act(obs), nil
	}

	type result struct {
		action models.Action
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{action: policy.Act(obs)}
	}()

	select {
	case r := <-ch:
		return r.action, nil
	case <-time.After(caller.Timeout()):
		if recorder, ok := policy.(agents.TimeoutRecorder); ok {
			recorder.RecordTimeout()
		}
		return models.Pass(), &models.ExternalAgentError{AgentID: policy.ID(), Reason: "timeout"}
	}
}
