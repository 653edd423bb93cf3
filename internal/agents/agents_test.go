package agents_test

import (
	"reflect"
	"testing"

	"github.com/swarmkernel/kernel/internal/agents"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

func TestHonestPolicyClaimsThenSubmitsThenClaimsAgain(t *testing.T) {
	p := agents.NewHonestPolicy("h-1")

	obs := models.Observation{Self: models.Agent{ID: "h-1"}, OpenTasks: []models.Task{{ID: "t-1"}}}
	act := p.Act(obs)
	if act.Kind != models.ActionClaimTask || act.TaskID != "t-1" {
		t.Fatalf("Act() = %+v, want CLAIM_TASK t-1", act)
	}
	p.OnResult(agents.Result{Action: act})

	act2 := p.Act(models.Observation{Self: models.Agent{ID: "h-1"}})
	if act2.Kind != models.ActionSubmitWork || act2.TaskID != "t-1" {
		t.Fatalf("Act() after claim = %+v, want SUBMIT_WORK t-1", act2)
	}
	p.OnResult(agents.Result{Action: act2})

	act3 := p.Act(models.Observation{Self: models.Agent{ID: "h-1"}, OpenTasks: []models.Task{{ID: "t-2"}}})
	if act3.Kind != models.ActionClaimTask || act3.TaskID != "t-2" {
		t.Fatalf("Act() after submit = %+v, want to claim a new task", act3)
	}
}

func TestHonestPolicyCollaboratesWithBestReputationPeer(t *testing.T) {
	p := agents.NewHonestPolicy("h-1")
	obs := models.Observation{
		Self:        models.Agent{ID: "h-1"},
		Reputations: map[string]float64{"h-1": 1.0, "h-2": 0.3, "h-3": 0.9},
	}
	act := p.Act(obs)
	if act.Kind != models.ActionCollaborate || act.TargetID != "h-3" {
		t.Fatalf("Act() = %+v, want COLLABORATE h-3", act)
	}
}

func TestHonestPolicyDecideThreshold(t *testing.T) {
	p := agents.NewHonestPolicy("h-1")
	r := rng.New(1)
	if !p.Decide(0.4, 0, r) {
		t.Fatalf("Decide(0.4) should accept at the threshold")
	}
	if p.Decide(0.39, 0, r) {
		t.Fatalf("Decide(0.39) should reject below the threshold")
	}
}

func TestOpportunisticDecideAcceptsAboveLowBar(t *testing.T) {
	p := agents.NewOpportunisticPolicy("o-1")
	r := rng.New(1)
	if !p.Decide(0.2, 0, r) {
		t.Fatalf("Decide(0.2) should accept at the low bar")
	}
}

func TestOpportunisticDecideSometimesAcceptsBelowBar(t *testing.T) {
	p := agents.NewOpportunisticPolicy("o-1")
	r := rng.New(7)
	accepted := false
	for i := 0; i < 200; i++ {
		if p.Decide(0.0, 0, r) {
			accepted = true
			break
		}
	}
	if !accepted {
		t.Fatalf("Decide(0.0) should sometimes accept via the flat-odds fallback")
	}
}

func TestOpportunisticPrefersCollaborationOverTaskClaim(t *testing.T) {
	p := agents.NewOpportunisticPolicy("o-1")
	obs := models.Observation{
		Self:        models.Agent{ID: "o-1"},
		Reputations: map[string]float64{"o-1": 0, "peer": 0.5},
		OpenTasks:   []models.Task{{ID: "t-1"}},
	}
	act := p.Act(obs)
	if act.Kind != models.ActionCollaborate || act.TargetID != "peer" {
		t.Fatalf("Act() = %+v, want COLLABORATE peer even with an open task available", act)
	}
}

func TestDeceptivePolicyBehavesHonestlyBeforeThreshold(t *testing.T) {
	r := rng.New(3)
	p := agents.NewDeceptivePolicy("d-1", r)

	obs := p.Contribute(r)
	if obs.TaskProgressDelta <= 0 {
		t.Fatalf("Contribute before threshold should be honest (positive progress), got %+v", obs)
	}
	reported := p.Misreport(obs)
	if !reflect.DeepEqual(reported, obs) {
		t.Fatalf("Misreport before threshold should pass through unchanged: got %+v, want %+v", reported, obs)
	}
}

func TestDeceptivePolicyExploitsAfterThreshold(t *testing.T) {
	r := rng.New(3)
	p := agents.NewDeceptivePolicy("d-1", r)

	// Drive interactions past whatever threshold in [3,8] was drawn.
	for i := 0; i < 8; i++ {
		p.OnResult(agents.Result{Interaction: &models.SoftInteraction{Initiator: "d-1"}})
	}

	trueObs := p.Contribute(r)
	if trueObs.TaskProgressDelta >= 0 {
		t.Fatalf("Contribute after threshold should be harmful (negative progress), got %+v", trueObs)
	}
	reported := p.Misreport(trueObs)
	if reported.TaskProgressDelta <= 0 {
		t.Fatalf("Misreport after threshold should inflate to a trustworthy-looking profile, got %+v", reported)
	}
}

func TestDeceptivePolicyOnlyCountsOwnInitiatedInteractions(t *testing.T) {
	r := rng.New(3)
	p := agents.NewDeceptivePolicy("d-1", r)
	for i := 0; i < 20; i++ {
		p.OnResult(agents.Result{Interaction: &models.SoftInteraction{Initiator: "someone-else"}})
	}
	// Even after many results, none were initiated by d-1, so it must
	// still be in the honeymoon phase.
	obs := p.Contribute(r)
	if obs.TaskProgressDelta <= 0 {
		t.Fatalf("agent should still be honest since it never initiated any counted interaction, got %+v", obs)
	}
}

func TestAdversarialBiasedVoteFavorsAllies(t *testing.T) {
	p := agents.NewAdversarialPolicy("adv-1", "cell", []string{"ally-1"})
	obs := models.Observation{Self: models.Agent{ID: "adv-1"}}

	allyTask := models.Task{ID: "t-1", Claimer: "ally-1", Submission: []byte("x")}
	act := p.Act(models.Observation{Self: obs.Self, OpenTasks: []models.Task{allyTask}})
	if act.Kind != models.ActionVerify || !act.VoteValue {
		t.Fatalf("Act() over an ally submission = %+v, want VERIFY with VoteValue=true", act)
	}

	strangerTask := models.Task{ID: "t-2", Claimer: "stranger", Submission: []byte("x")}
	act2 := p.Act(models.Observation{Self: obs.Self, OpenTasks: []models.Task{strangerTask}})
	if act2.Kind != models.ActionVerify || act2.VoteValue {
		t.Fatalf("Act() over a stranger's submission = %+v, want VERIFY with VoteValue=false", act2)
	}
}

func TestAdversarialGroupID(t *testing.T) {
	p := agents.NewAdversarialPolicy("adv-1", "cell-a", nil)
	if p.GroupID() != "cell-a" {
		t.Fatalf("GroupID() = %q, want cell-a", p.GroupID())
	}
}

func TestAdversarialDecideRarelyAccepts(t *testing.T) {
	p := agents.NewAdversarialPolicy("adv-1", "", nil)
	r := rng.New(11)
	accepts := 0
	for i := 0; i < 500; i++ {
		if p.Decide(0.9, 1.0, r) {
			accepts++
		}
	}
	if accepts > 100 {
		t.Fatalf("adversarial policy accepted %d/500 interactions, want a small minority", accepts)
	}
}

func TestExternalPolicyPassesThroughCallbackAction(t *testing.T) {
	want := models.Action{Kind: models.ActionPost}
	p := agents.NewExternalPolicy("e-1", func(models.Observation) (models.Action, error) {
		return want, nil
	}, 0)
	got := p.Act(models.Observation{})
	if got.Kind != want.Kind {
		t.Fatalf("Act() = %+v, want %+v", got, want)
	}
	if p.ConsecutiveFailures() != 0 {
		t.Fatalf("ConsecutiveFailures() = %d, want 0 on success", p.ConsecutiveFailures())
	}
}

func TestExternalPolicyConvertsErrorToPassAndCountsFailures(t *testing.T) {
	callErr := errCallbackBroken
	p := agents.NewExternalPolicy("e-1", func(models.Observation) (models.Action, error) {
		return models.Action{}, callErr
	}, 0)

	got := p.Act(models.Observation{})
	if got.Kind != models.ActionPass {
		t.Fatalf("Act() on callback error = %+v, want PASS", got)
	}
	if p.ConsecutiveFailures() != 1 {
		t.Fatalf("ConsecutiveFailures() = %d, want 1", p.ConsecutiveFailures())
	}
	if p.LastError() != callErr {
		t.Fatalf("LastError() = %v, want %v", p.LastError(), callErr)
	}

	p.Act(models.Observation{})
	if p.ConsecutiveFailures() != 2 {
		t.Fatalf("ConsecutiveFailures() = %d, want 2 after a second failure", p.ConsecutiveFailures())
	}
}

func TestExternalPolicyRecordTimeoutIncrementsFailures(t *testing.T) {
	p := agents.NewExternalPolicy("e-1", func(models.Observation) (models.Action, error) {
		return models.Action{}, nil
	}, 0)
	p.RecordTimeout()
	p.RecordTimeout()
	if p.ConsecutiveFailures() != 2 {
		t.Fatalf("ConsecutiveFailures() = %d, want 2 after two RecordTimeout calls", p.ConsecutiveFailures())
	}
}

func TestExternalPolicyDefaultTimeout(t *testing.T) {
	p := agents.NewExternalPolicy("e-1", func(models.Observation) (models.Action, error) {
		return models.Action{}, nil
	}, 0)
	if p.Timeout() != agents.DefaultExternalTimeout {
		t.Fatalf("Timeout() = %v, want DefaultExternalTimeout", p.Timeout())
	}
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

var errCallbackBroken = sentinelError("callback broken")
