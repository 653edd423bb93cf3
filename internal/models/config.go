package models

// SchedulingMode selects the per-step agent visitation order.
type SchedulingMode string

const (
	ScheduleRoundRobin SchedulingMode = "round_robin"
	ScheduleRandom     SchedulingMode = "random"
	SchedulePriority   SchedulingMode = "priority"
)

// AgentSpec describes one population slice of a scenario: count agents of
// the given archetype, seeded with the given params.
type AgentSpec struct {
	Archetype Archetype      `json:"archetype"`
	Count     int            `json:"count"`
	GroupID   string         `json:"group_id,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// PayoffConfig is the payoff engine's configuration surface (§6).
type PayoffConfig struct {
	SPlus  float64 `json:"s_plus"`
	SMinus float64 `json:"s_minus"`
	H      float64 `json:"h"`
	Theta  float64 `json:"theta"`
	Tau    float64 `json:"tau"`
	WRep   float64 `json:"w_rep"`
	RhoA   float64 `json:"rho_a"`
	RhoB   float64 `json:"rho_b"`
}

// DefaultPayoffConfig returns the reference parameterization used by the
// end-to-end scenarios when a scenario does not override it.
func DefaultPayoffConfig() PayoffConfig {
	return PayoffConfig{
		SPlus:  2.0,
		SMinus: 1.0,
		H:      1.0,
		Theta:  0.5,
		Tau:    0.0,
		WRep:   0.1,
		RhoA:   1.0,
		RhoB:   1.0,
	}
}

// GovernanceConfig is the governance engine's configuration surface
// (§6/§4.6).
type GovernanceConfig struct {
	TaxRate         float64 `json:"tax_rate"`
	ReputationDecay float64 `json:"reputation_decay"` // = 1-gamma
	InitialReputation float64 `json:"initial_reputation"`

	AuditProbability float64 `json:"audit_probability"`
	AuditPenalty     float64 `json:"audit_penalty"` // stake slashed on a caught misreport
	AuditReputationPenalty float64 `json:"audit_reputation_penalty"`
	AuditResourcePenalty   float64 `json:"audit_resource_penalty"`
	AuditDivergenceThreshold float64 `json:"audit_divergence_threshold"`

	CircuitBreakerEnabled    bool    `json:"circuit_breaker_enabled"`
	CircuitBreakerThreshold  float64 `json:"circuit_breaker_threshold"`
	CircuitBreakerWindow     int     `json:"circuit_breaker_window"`
	CircuitBreakerCooldown   int     `json:"circuit_breaker_cooldown"`

	StakingRequirement float64 `json:"staking_requirement"`
	StakeSlashRate     float64 `json:"stake_slash_rate"`

	CollusionEnabled              bool    `json:"collusion_enabled"`
	CollusionWindow               int     `json:"collusion_window"`
	CollusionCorrelationThreshold float64 `json:"collusion_correlation_threshold"`
	CollusionFrequencyStdDevs     float64 `json:"collusion_frequency_stddevs"`
	CollusionReputationPenalty    float64 `json:"collusion_reputation_penalty"`
}

// DefaultGovernanceConfig returns a governance configuration with every
// lever disabled or neutralized; scenarios opt into specific mechanisms.
func DefaultGovernanceConfig() GovernanceConfig {
	return GovernanceConfig{
		TaxRate:                  0,
		ReputationDecay:          0.2,
		InitialReputation:        0.5,
		AuditProbability:         0,
		AuditPenalty:             0.5,
		AuditReputationPenalty:   0.15,
		AuditResourcePenalty:     0.2,
		AuditDivergenceThreshold: 0.3,
		CircuitBreakerEnabled:    false,
		CircuitBreakerThreshold:  0.5,
		CircuitBreakerWindow:     10,
		CircuitBreakerCooldown:   5,
		StakingRequirement:       0,
		StakeSlashRate:           0.5,
		CollusionEnabled:         false,
		CollusionWindow:          20,
		CollusionCorrelationThreshold: 0.7,
		CollusionFrequencyStdDevs:     2.0,
		CollusionReputationPenalty:    0.1,
	}
}

// RateLimits caps actions per archetype per epoch. A missing archetype or
// action kind is treated as unlimited.
type RateLimits map[Archetype]map[ActionKind]int

// ScenarioConfig is the top-level configuration consumed from the (out of
// scope) scenario loader; the kernel validates it and fails with
// ConfigError on any out-of-range field.
type ScenarioConfig struct {
	ID            string          `json:"id"`
	Seed          int64           `json:"seed"`
	NEpochs       int             `json:"n_epochs"`
	StepsPerEpoch int             `json:"steps_per_epoch"`
	Agents        []AgentSpec     `json:"agents"`
	Payoff        PayoffConfig    `json:"payoff"`
	Governance    GovernanceConfig `json:"governance"`
	RateLimits    RateLimits      `json:"rate_limits,omitempty"`
	SchedulingMode SchedulingMode `json:"scheduling_mode"`

	// ProxyWeights and ProxyK/DecayRate configure the sigmoid/proxy
	// layer; zero-valued fields fall back to §4.1's documented defaults.
	ProxyWeights ProxyWeights `json:"proxy_weights"`
	ProxyK       float64      `json:"proxy_k"`
	ProxyDecayRate float64    `json:"proxy_decay_rate"`

	// HonestErrorBound configures testable property 8's threshold.
	HonestErrorBound float64 `json:"honest_error_bound"`

	// ExternalProxyTimeoutMS is not read by the kernel: a bridge-backed
	// policy's timeout is the one passed to agents.NewExternalPolicy
	// (default 5000ms when that is zero).
	ExternalProxyTimeoutMS int `json:"external_proxy_timeout_ms"`
}

// ProxyWeights are the sigmoid/proxy layer's linear-combination weights.
type ProxyWeights struct {
	Progress   float64 `json:"w_progress"`
	Rework     float64 `json:"w_rework"`
	Rejections float64 `json:"w_rejections"`
	Engagement float64 `json:"w_engagement"`
}

// DefaultProxyWeights returns §4.1's documented default weights.
func DefaultProxyWeights() ProxyWeights {
	return ProxyWeights{Progress: 0.4, Rework: 0.2, Rejections: 0.2, Engagement: 0.2}
}
