package state

import "github.com/swarmkernel/kernel/internal/models"

// AddTask inserts a new unclaimed task into the pool.
func (e *Environment) AddTask(t models.Task) {
	if _, exists := e.tasks[t.ID]; !exists {
		e.taskIDs = append(e.taskIDs, t.ID)
	}
	e.tasks[t.ID] = t
}

// Task returns a copy of the task with the given id.
func (e *Environment) Task(id string) (models.Task, bool) {
	t, ok := e.tasks[id]
	return t, ok
}

// OpenTasks returns every unclaimed task, in insertion order.
func (e *Environment) OpenTasks() []models.Task {
	var out []models.Task
	for _, id := range e.taskIDs {
		t := e.tasks[id]
		if t.Claimer == "" {
			out = append(out, t)
		}
	}
	return out
}

// ClaimTask is the claim_task transaction: it succeeds only if the task
// exists and is unclaimed, otherwise it leaves state unchanged and
// returns a typed TransientActionError.
func (e *Environment) ClaimTask(agentID, taskID string) (models.Task, error) {
	t, ok := e.tasks[taskID]
	if !ok {
		return models.Task{}, &models.TransientActionError{AgentID: agentID, Reason: models.ReasonInvalidTarget}
	}
	if t.Claimer != "" {
		return models.Task{}, &models.TransientActionError{AgentID: agentID, Reason: models.ReasonInvalidTarget}
	}
	t.Claimer = agentID
	e.tasks[taskID] = t
	return t, nil
}

// SubmitWork is the submit_work transaction: it succeeds only if the
// task exists and was claimed by agentID.
func (e *Environment) SubmitWork(agentID, taskID string, payload []byte) (models.Task, error) {
	t, ok := e.tasks[taskID]
	if !ok || t.Claimer != agentID {
		return models.Task{}, &models.TransientActionError{AgentID: agentID, Reason: models.ReasonInvalidTarget}
	}
	t.Submission = payload
	e.tasks[taskID] = t
	return t, nil
}

// VerifyTask marks a submitted task as verified or rejected by a
// verifier's vote; it does not check the verifier's identity beyond
// requiring the task to exist and hold a submission.
func (e *Environment) VerifyTask(agentID, taskID string, approve bool) (models.Task, error) {
	t, ok := e.tasks[taskID]
	if !ok || t.Submission == nil {
		return models.Task{}, &models.TransientActionError{AgentID: agentID, Reason: models.ReasonInvalidTarget}
	}
	t.Verified = approve
	e.tasks[taskID] = t
	return t, nil
}
