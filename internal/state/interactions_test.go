package state_test

import (
	"errors"
	"testing"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/state"
)

func TestProposeThenResolveInteraction(t *testing.T) {
	env := state.New()
	env.ProposeInteraction(models.SoftInteraction{ID: "i-1", Initiator: "a-1", Counterparty: "a-2"})

	if len(env.PendingInteractions()) != 1 {
		t.Fatalf("expected one pending interaction")
	}

	resolved, err := env.ResolveInteraction("i-1")
	if err != nil {
		t.Fatalf("ResolveInteraction failed: %v", err)
	}
	if resolved.ID != "i-1" {
		t.Fatalf("resolved interaction id = %q, want i-1", resolved.ID)
	}
	if len(env.PendingInteractions()) != 0 {
		t.Fatalf("interaction should be removed from pending after resolution")
	}
}

func TestResolveInteractionUnknownID(t *testing.T) {
	env := state.New()
	_, err := env.ResolveInteraction("missing")
	var transient *models.TransientActionError
	if !errors.As(err, &transient) {
		t.Fatalf("expected *TransientActionError, got %v", err)
	}
	if transient.Reason != models.ReasonInteractionNotFound {
		t.Fatalf("Reason = %v, want ReasonInteractionNotFound", transient.Reason)
	}
}

func TestAbandonInteractionRemovesWithoutError(t *testing.T) {
	env := state.New()
	env.ProposeInteraction(models.SoftInteraction{ID: "i-1"})
	env.AbandonInteraction("i-1")
	if len(env.PendingInteractions()) != 0 {
		t.Fatalf("interaction should be gone after AbandonInteraction")
	}
}

func TestFeedPreservesPostingOrder(t *testing.T) {
	env := state.New()
	env.AddFeedPost(models.FeedPost{ID: "p1"})
	env.AddFeedPost(models.FeedPost{ID: "p2"})
	feed := env.Feed()
	if len(feed) != 2 || feed[0].ID != "p1" || feed[1].ID != "p2" {
		t.Fatalf("Feed() = %v, want [p1 p2] in order", feed)
	}
}
