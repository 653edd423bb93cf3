package agents

import (
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// AdversarialPolicy targets the most-trusted visible partner and, when
// verifying a fellow group member's submission, biases its vote in
// their favor regardless of quality. Its damage is overt: unlike
// DeceptivePolicy it never misreports, so an audit reveals nothing an
// honest observer of the interaction wouldn't already see.
type AdversarialPolicy struct {
	id      string
	groupID string
	allies  map[string]bool
}

// NewAdversarialPolicy constructs an adversarial agent sharing groupID
// with the given ally ids, fixed at scenario construction time — the
// same way a scenario fixes which agents belong to a coordinating cell,
// not something the agent perceives mid-run. groupID and allies may be
// empty for a lone adversarial.
func NewAdversarialPolicy(id, groupID string, allies []string) *AdversarialPolicy {
	set := make(map[string]bool, len(allies))
	for _, a := range allies {
		set[a] = true
	}
	return &AdversarialPolicy{id: id, groupID: groupID, allies: set}
}

func (p *AdversarialPolicy) ID() string                  { return p.id }
func (p *AdversarialPolicy) Archetype() models.Archetype { return models.ArchetypeAdversarial }
func (p *AdversarialPolicy) GroupID() string             { return p.groupID }

func (p *AdversarialPolicy) Act(obs models.Observation) models.Action {
	for _, t := range obs.OpenTasks {
		if t.Submission != nil && t.Claimer != p.id {
			return models.Action{Kind: models.ActionVerify, TaskID: t.ID, VoteValue: p.biasedVote(obs, t)}
		}
	}
	if target := bestReputationPeer(obs); target != "" {
		return models.Action{Kind: models.ActionCollaborate, TargetID: target}
	}
	return models.Action{Kind: models.ActionPass}
}

// biasedVote approves a fellow group member's submission unconditionally
// and otherwise votes down, the collusive voting behavior named in
// §4.4/§4.6's collusion detector.
func (p *AdversarialPolicy) biasedVote(obs models.Observation, t models.Task) bool {
	return p.allies[t.Claimer]
}

func (p *AdversarialPolicy) OnResult(result Result) {}

// Contribute always produces harmful observables; adversarial damage is
// unconditional, not gated behind a trust-building period.
func (p *AdversarialPolicy) Contribute(r *rng.Source) models.ProxyObservables {
	return models.ProxyObservables{
		TaskProgressDelta:  -0.5 - 0.5*r.Float64(),
		ReworkCount:        r.IntRange(1, 4),
		VerifierRejections: r.IntRange(1, 4),
		EngagementDelta:    -0.6 * r.Float64(),
	}
}

// Decide rejects almost everything proposed to it; adversarial agents do
// not cooperate as counterparties.
func (p *AdversarialPolicy) Decide(pEstimate float64, initiatorRep float64, r *rng.Source) bool {
	return r.Bool(0.1)
}
