// Package agents implements the five archetypes as polymorphic decision
// objects. Each archetype satisfies the small Policy interface and picks
// up whichever capability interfaces its behavior needs — no
// implementation inheritance, per the "mixins -> role composition"
// design note.
package agents

import (
	"time"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/rng"
)

// Result is what the Orchestrator hands back to a policy's OnResult
// after executing the Action it returned.
type Result struct {
	Action      models.Action
	Interaction *models.SoftInteraction // nil unless the action produced a resolved or abandoned interaction
	Err         error                   // a TransientActionError/ExternalAgentError if the action was converted to PASS
}

// Policy is the core decision object every archetype implements.
type Policy interface {
	ID() string
	Archetype() models.Archetype
	Act(obs models.Observation) models.Action
	OnResult(result Result)
}

// Contributor produces the true ProxyObservables an initiator's action
// actually yields. Every concrete archetype implements this; it is the
// sandbox's ground-truth channel referenced by §4.6's random audit.
type Contributor interface {
	Contribute(r *rng.Source) models.ProxyObservables
}

// Decider is implemented by archetypes that can be a counterparty: it
// decides whether to accept a pending interaction given the calibrated
// soft label and the initiator's reputation.
type Decider interface {
	Decide(p float64, initiatorRep float64, r *rng.Source) bool
}

// Deceiver is implemented only by archetypes capable of misreporting:
// it maps the true observables an interaction produced to the
// (possibly inflated) observables actually used to compute the
// operational v-hat/p. Archetypes without this capability report
// truthfully by construction.
type Deceiver interface {
	Misreport(trueObs models.ProxyObservables) models.ProxyObservables
}

// Colluder is implemented by archetypes that coordinate via a shared
// latent group id. Neither the governance engine's collusion detector
// nor the orchestrator reads it: the detector works from interaction
// history alone.
type Colluder interface {
	GroupID() string
}

// ExternalCaller marks a policy whose Act() may block on an out-of-process
// callback; the Orchestrator enforces Timeout() around the call and
// substitutes PASS on expiry.
type ExternalCaller interface {
	Timeout() time.Duration
}

// TimeoutRecorder lets the Orchestrator report a timeout it detected at
// the call site (outside Act itself, since Act has no context parameter)
// back to the policy's own failure bookkeeping.
type TimeoutRecorder interface {
	RecordTimeout()
}

// FailureCounter exposes a policy's consecutive-failure count. The
// Orchestrator does not read it, and no failure threshold exists: a
// proxy is not quarantined however many of its calls fail in a row.
type FailureCounter interface {
	ConsecutiveFailures() int
}
