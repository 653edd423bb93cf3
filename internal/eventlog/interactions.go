package eventlog

import (
	"fmt"

	"github.com/swarmkernel/kernel/internal/models"
)

// EncodeInteraction produces the payload map an INTERACTION_RESOLVED
// event carries. This is the single schema shared by the Orchestrator
// (which writes it) and ToInteractions (which reads it back), so a
// replayed log always reconstructs the same interaction set (§8
// property 7).
func EncodeInteraction(i models.SoftInteraction) map[string]any {
	ext := make(map[string]any, len(i.Observables.Extensions))
	for k, v := range i.Observables.Extensions {
		ext[k] = v
	}
	payload := map[string]any{
		"id":                  i.ID,
		"initiator":           i.Initiator,
		"counterparty":        i.Counterparty,
		"kind":                string(i.Kind),
		"accepted":            i.Accepted,
		"v_hat":               i.VHat,
		"p":                   i.P,
		"task_progress_delta": i.Observables.TaskProgressDelta,
		"rework_count":        i.Observables.ReworkCount,
		"verifier_rejections": i.Observables.VerifierRejections,
		"engagement_delta":    i.Observables.EngagementDelta,
		"observable_extensions": ext,
		"audited":             i.Audited,
		"taxed_amount":        i.TaxedAmount,
		"payoff_a":            i.PayoffA,
		"payoff_b":            i.PayoffB,
	}
	if i.AuditVerdict != nil {
		payload["audit_verdict"] = *i.AuditVerdict
	}
	return payload
}

// ToInteractions reconstructs the resolved-interaction set from a
// replayed event stream, per §4.7's contract.
func ToInteractions(events []models.Event) ([]models.SoftInteraction, error) {
	var out []models.SoftInteraction
	for _, ev := range events {
		if ev.Type != models.EventInteractionResolved {
			continue
		}
		interaction, err := decodeInteraction(ev)
		if err != nil {
			return nil, fmt.Errorf("eventlog: decode interaction at seq %d: %w", ev.Seq, err)
		}
		out = append(out, interaction)
	}
	return out, nil
}

func decodeInteraction(ev models.Event) (models.SoftInteraction, error) {
	p := ev.Payload
	i := models.SoftInteraction{
		Epoch: ev.Epoch,
		Step:  ev.Step,
	}
	var ok bool
	if i.ID, ok = str(p, "id"); !ok {
		return i, fmt.Errorf("missing id")
	}
	i.Initiator, _ = str(p, "initiator")
	i.Counterparty, _ = str(p, "counterparty")
	kindStr, _ := str(p, "kind")
	i.Kind = models.ActionKind(kindStr)
	i.Accepted, _ = boolean(p, "accepted")
	i.VHat, _ = number(p, "v_hat")
	i.P, _ = number(p, "p")
	i.Observables.TaskProgressDelta, _ = number(p, "task_progress_delta")
	rework, _ := number(p, "rework_count")
	i.Observables.ReworkCount = int(rework)
	rejections, _ := number(p, "verifier_rejections")
	i.Observables.VerifierRejections = int(rejections)
	i.Observables.EngagementDelta, _ = number(p, "engagement_delta")
	i.Audited, _ = boolean(p, "audited")
	i.TaxedAmount, _ = number(p, "taxed_amount")
	i.PayoffA, _ = number(p, "payoff_a")
	i.PayoffB, _ = number(p, "payoff_b")
	if v, present := p["audit_verdict"]; present {
		if b, ok := v.(bool); ok {
			i.AuditVerdict = &b
		}
	}
	return i, nil
}

func str(p map[string]any, key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

func boolean(p map[string]any, key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// number reads a numeric payload field regardless of whether it survived
// as float64 (in-process) or json.Number (loaded from JSONL).
func number(p map[string]any, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
