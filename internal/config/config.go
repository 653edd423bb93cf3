// Package config validates ScenarioConfig values and loads the small set
// of environment-backed knobs the demo bootstrap (cmd/swarmkernel) needs
// for its optional durability sinks. It never loads scenario content
// itself — that remains the scenario loader's concern, out of scope here.
package config

import (
	"os"
	"strconv"

	"github.com/swarmkernel/kernel/internal/models"
)

// ValidateScenario checks a ScenarioConfig's numeric ranges and returns a
// *models.ConfigError on the first violation found, per §6's
// "core validates numeric ranges on entry" contract.
func ValidateScenario(cfg models.ScenarioConfig) error {
	if cfg.NEpochs < 0 {
		return &models.ConfigError{Field: "n_epochs", Reason: "must be >= 0"}
	}
	if cfg.StepsPerEpoch < 0 {
		return &models.ConfigError{Field: "steps_per_epoch", Reason: "must be >= 0"}
	}
	switch cfg.SchedulingMode {
	case "", models.ScheduleRoundRobin, models.ScheduleRandom, models.SchedulePriority:
	default:
		return &models.ConfigError{Field: "scheduling_mode", Reason: "unknown mode " + string(cfg.SchedulingMode)}
	}
	for i, spec := range cfg.Agents {
		if spec.Count < 0 {
			return &models.ConfigError{Field: "agents[].count", Reason: "must be >= 0"}
		}
		switch spec.Archetype {
		case models.ArchetypeHonest, models.ArchetypeOpportunistic, models.ArchetypeDeceptive,
			models.ArchetypeAdversarial, models.ArchetypeExternal:
		default:
			return &models.ConfigError{Field: "agents[].archetype", Reason: "unknown archetype at index " + strconv.Itoa(i)}
		}
	}
	if cfg.Governance.TaxRate < 0 {
		return &models.ConfigError{Field: "governance.tax_rate", Reason: "must be >= 0"}
	}
	if cfg.Governance.ReputationDecay <= 0 || cfg.Governance.ReputationDecay >= 1 {
		return &models.ConfigError{Field: "governance.reputation_decay", Reason: "must be in (0,1)"}
	}
	if cfg.Governance.AuditProbability < 0 || cfg.Governance.AuditProbability > 1 {
		return &models.ConfigError{Field: "governance.audit_probability", Reason: "must be in [0,1]"}
	}
	if cfg.Governance.StakeSlashRate < 0 || cfg.Governance.StakeSlashRate > 1 {
		return &models.ConfigError{Field: "governance.stake_slash_rate", Reason: "must be in [0,1]"}
	}
	return payoffRange(cfg.Payoff)
}

func payoffRange(p models.PayoffConfig) error {
	if p.Theta < 0 || p.Theta > 1 {
		return &models.ConfigError{Field: "payoff.theta", Reason: "must be in [0,1]"}
	}
	return nil
}

// RunOptions holds the demo bootstrap's environment-driven knobs: where
// to write run artifacts, and DSNs/topics for the optional durability
// sinks.
type RunOptions struct {
	OutputDir string // SWARM_OUTPUT_DIR, default "./run"

	PostgresDSN string // SWARM_POSTGRES_DSN, empty disables the sink

	KafkaBrokers string // SWARM_KAFKA_BROKERS (comma-separated), empty disables the sink
	KafkaTopic   string // SWARM_KAFKA_TOPIC, default "swarm.events"

	S3Bucket string // SWARM_S3_BUCKET, empty disables the archiver
	S3Prefix string // SWARM_S3_PREFIX
}

// RunOptionsFromEnv reads the bootstrap knobs from the environment,
// applying sensible defaults.
func RunOptionsFromEnv() RunOptions {
	opts := RunOptions{
		OutputDir:    os.Getenv("SWARM_OUTPUT_DIR"),
		PostgresDSN:  os.Getenv("SWARM_POSTGRES_DSN"),
		KafkaBrokers: os.Getenv("SWARM_KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("SWARM_KAFKA_TOPIC"),
		S3Bucket:     os.Getenv("SWARM_S3_BUCKET"),
		S3Prefix:     os.Getenv("SWARM_S3_PREFIX"),
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "./run"
	}
	if opts.KafkaTopic == "" {
		opts.KafkaTopic = "swarm.events"
	}
	return opts
}
