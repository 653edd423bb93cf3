package state_test

import (
	"errors"
	"testing"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/state"
)

func TestClaimTaskThenSubmitThenVerify(t *testing.T) {
	env := state.New()
	env.AddTask(models.Task{ID: "t-1"})

	if _, err := env.ClaimTask("a-1", "t-1"); err != nil {
		t.Fatalf("ClaimTask failed: %v", err)
	}
	if len(env.OpenTasks()) != 0 {
		t.Fatalf("claimed task should no longer be open")
	}

	if _, err := env.SubmitWork("a-1", "t-1", []byte("done")); err != nil {
		t.Fatalf("SubmitWork failed: %v", err)
	}
	task, _ := env.Task("t-1")
	if string(task.Submission) != "done" {
		t.Fatalf("Submission = %q, want %q", task.Submission, "done")
	}

	if _, err := env.VerifyTask("verifier", "t-1", true); err != nil {
		t.Fatalf("VerifyTask failed: %v", err)
	}
	task, _ = env.Task("t-1")
	if !task.Verified {
		t.Fatalf("task should be verified")
	}
}

func TestClaimTaskRejectsAlreadyClaimed(t *testing.T) {
	env := state.New()
	env.AddTask(models.Task{ID: "t-1"})
	if _, err := env.ClaimTask("a-1", "t-1"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	_, err := env.ClaimTask("a-2", "t-1")
	var transient *models.TransientActionError
	if !errors.As(err, &transient) {
		t.Fatalf("expected *TransientActionError on double claim, got %v", err)
	}
}

func TestSubmitWorkRejectsWrongClaimer(t *testing.T) {
	env := state.New()
	env.AddTask(models.Task{ID: "t-1"})
	_, _ = env.ClaimTask("a-1", "t-1")

	_, err := env.SubmitWork("a-2", "t-1", []byte("x"))
	var transient *models.TransientActionError
	if !errors.As(err, &transient) {
		t.Fatalf("expected *TransientActionError, got %v", err)
	}
}

func TestVerifyTaskRequiresSubmission(t *testing.T) {
	env := state.New()
	env.AddTask(models.Task{ID: "t-1"})
	_, err := env.VerifyTask("verifier", "t-1", true)
	var transient *models.TransientActionError
	if !errors.As(err, &transient) {
		t.Fatalf("expected *TransientActionError for unsubmitted task, got %v", err)
	}
}
