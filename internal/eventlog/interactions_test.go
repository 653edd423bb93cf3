package eventlog_test

import (
	"reflect"
	"testing"

	"github.com/swarmkernel/kernel/internal/eventlog"
	"github.com/swarmkernel/kernel/internal/models"
)

func TestEncodeThenDecodeInteractionRoundTrips(t *testing.T) {
	verdict := true
	original := models.SoftInteraction{
		ID:           "i-1",
		Epoch:        2,
		Step:         3,
		Initiator:    "a",
		Counterparty: "b",
		Kind:         models.ActionCollaborate,
		Accepted:     true,
		VHat:         0.5,
		P:            0.75,
		Observables: models.ProxyObservables{
			TaskProgressDelta:  0.4,
			ReworkCount:        2,
			VerifierRejections: 1,
			EngagementDelta:    0.3,
		},
		Audited:      true,
		AuditVerdict: &verdict,
		TaxedAmount:  0.05,
		PayoffA:      1.2,
		PayoffB:      0.8,
	}

	payload := eventlog.EncodeInteraction(original)
	ev := models.Event{Epoch: original.Epoch, Step: original.Step, Type: models.EventInteractionResolved, Payload: payload}

	decoded, err := eventlog.ToInteractions([]models.Event{ev})
	if err != nil {
		t.Fatalf("ToInteractions failed: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("ToInteractions returned %d interactions, want 1", len(decoded))
	}
	got := decoded[0]

	if got.ID != original.ID || got.Initiator != original.Initiator || got.Counterparty != original.Counterparty {
		t.Fatalf("identity fields mismatch: got %+v, want %+v", got, original)
	}
	if got.Kind != original.Kind || got.Accepted != original.Accepted {
		t.Fatalf("kind/accepted mismatch: got %+v, want %+v", got, original)
	}
	if got.VHat != original.VHat || got.P != original.P {
		t.Fatalf("v_hat/p mismatch: got %+v, want %+v", got, original)
	}
	got.Observables.Extensions = nil // decodeInteraction never round-trips extensions; not part of this contract
	original.Observables.Extensions = nil
	if !reflect.DeepEqual(got.Observables, original.Observables) {
		t.Fatalf("observables mismatch: got %+v, want %+v", got.Observables, original.Observables)
	}
	if got.Audited != original.Audited || got.AuditVerdict == nil || *got.AuditVerdict != *original.AuditVerdict {
		t.Fatalf("audit fields mismatch: got %+v, want %+v", got, original)
	}
	if got.TaxedAmount != original.TaxedAmount || got.PayoffA != original.PayoffA || got.PayoffB != original.PayoffB {
		t.Fatalf("payoff fields mismatch: got %+v, want %+v", got, original)
	}
}

func TestToInteractionsIgnoresNonInteractionEvents(t *testing.T) {
	events := []models.Event{
		{Type: models.EventAgentRegistered, Payload: map[string]any{"agent_id": "a"}},
	}
	got, err := eventlog.ToInteractions(events)
	if err != nil {
		t.Fatalf("ToInteractions failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no interactions decoded from a non-interaction event stream, got %d", len(got))
	}
}

func TestToInteractionsErrorsOnMissingID(t *testing.T) {
	events := []models.Event{
		{Type: models.EventInteractionResolved, Payload: map[string]any{"accepted": true}},
	}
	if _, err := eventlog.ToInteractions(events); err == nil {
		t.Fatalf("expected an error when the id field is missing")
	}
}
