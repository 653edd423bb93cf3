package models

// ProxyObservables are the raw signals the sigmoid/proxy layer folds into
// a calibrated soft label. Extensions carries optional domain-specific
// features that a scenario's feature weights may reference by name.
type ProxyObservables struct {
	TaskProgressDelta  float64 // in [-1, 1]
	ReworkCount        int
	VerifierRejections int
	EngagementDelta    float64 // in [-1, 1]
	Extensions         map[string]float64
}

// SoftInteraction is the immutable record of one proposed-then-resolved
// interaction between an initiator and a counterparty.
type SoftInteraction struct {
	ID           string
	Epoch        int
	Step         int
	Initiator    string
	Counterparty string
	Kind         ActionKind
	Accepted     bool

	VHat float64
	P    float64

	Observables ProxyObservables

	Audited      bool
	AuditVerdict *bool    // nil until audited; true means the audit matched within threshold
	AuditTrueP   *float64 // nil until audited; the ground-truth p an audit reveals, regardless of verdict

	TaxedAmount float64
	PayoffA     float64
	PayoffB     float64
}
