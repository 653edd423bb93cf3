// Command swarmkernel is the demo bootstrap: it assembles a small
// multi-archetype scenario, wires the required JSONL sink plus whatever
// optional durability mirrors the environment configures, and drives one
// run to completion (or until interrupted).
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/swarmkernel/kernel/internal/config"
	"github.com/swarmkernel/kernel/internal/eventlog"
	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/orchestrator"
	"github.com/swarmkernel/kernel/internal/payoff"
	"github.com/swarmkernel/kernel/internal/rng"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	opts := config.RunOptionsFromEnv()
	runID := uuid.NewString()
	runDir := filepath.Join(opts.OutputDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		log.Fatalf("failed to create run directory: %v", err)
	}
	log.Printf("run %s writing to %s", runID, runDir)

	cfg := demoScenario()
	if err := config.ValidateScenario(cfg); err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}
	if err := payoff.ValidateConfig(cfg.Payoff); err != nil {
		log.Fatalf("invalid payoff config: %v", err)
	}

	primary, err := eventlog.NewJSONLFileSink(filepath.Join(runDir, "events.jsonl"))
	if err != nil {
		log.Fatalf("failed to open primary event sink: %v", err)
	}

	var mirrors []eventlog.Sink
	mirrorLogger := log.New(os.Stderr, "", log.LstdFlags)

	if opts.PostgresDSN != "" {
		db, err := sql.Open("postgres", opts.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to open postgres: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			log.Fatalf("failed to ping postgres: %v", err)
		}
		cancel()
		log.Println("connected to postgres mirror")
		mirrors = append(mirrors, &eventlog.BestEffort{Inner: eventlog.NewPostgresSink(db), Name: "postgres", Logger: mirrorLogger})
	}

	if opts.KafkaBrokers != "" {
		brokers := splitAndTrim(opts.KafkaBrokers)
		sink, err := eventlog.NewKafkaSink(eventlog.KafkaSinkConfig{Brokers: brokers, Topic: opts.KafkaTopic})
		if err != nil {
			log.Fatalf("failed to initialize kafka sink: %v", err)
		}
		log.Printf("kafka mirror initialized (brokers=%v topic=%s)", brokers, opts.KafkaTopic)
		mirrors = append(mirrors, &eventlog.BestEffort{Inner: sink, Name: "kafka", Logger: mirrorLogger})
	}

	elog := eventlog.New(primary, mirrors...)

	seed := cfg.Seed
	source := rng.New(seed)
	env, policies, err := orchestrator.Bootstrap(cfg, source)
	if err != nil {
		log.Fatalf("failed to bootstrap scenario: %v", err)
	}
	run := orchestrator.New(cfg, env, policies, elog, source)

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("received shutdown signal, cancelling run")
		cancel()
	}()

	manifest, err := run.Execute(ctx)
	cancel()
	if closeErr := elog.Close(); closeErr != nil {
		log.Printf("warning: error closing event log: %v", closeErr)
	}
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	log.Printf("run %s finished: status=%s epochs=%d", runID, manifest.FinalStatus, manifest.NEpochsCompleted)

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "manifest.json"), manifestBytes, 0o644); err != nil {
		log.Fatalf("failed to write manifest: %v", err)
	}

	if opts.S3Bucket != "" {
		archiveCtx, archiveCancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer archiveCancel()
		archiver, err := eventlog.NewS3Archiver(archiveCtx, opts.S3Bucket, opts.S3Prefix)
		if err != nil {
			log.Printf("warning: s3 archiver unavailable: %v", err)
		} else if err := archiver.ArchiveRun(archiveCtx, runDir, runID); err != nil {
			log.Printf("warning: s3 archive failed: %v", err)
		} else {
			log.Printf("archived run %s to s3://%s/%s", runID, opts.S3Bucket, opts.S3Prefix)
		}
	}
}

// demoScenario is a small, self-contained population mixing every
// archetype so the run exercises the governance stack end to end: an
// honest majority, an opportunistic minority, a deceptive agent that
// eventually flips, and a colluding adversarial pair.
func demoScenario() models.ScenarioConfig {
	gov := models.DefaultGovernanceConfig()
	gov.TaxRate = 0.02
	gov.AuditProbability = 0.1
	gov.CircuitBreakerEnabled = true
	gov.StakingRequirement = 0.1
	gov.CollusionEnabled = true

	return models.ScenarioConfig{
		ID:             "demo",
		Seed:           42,
		NEpochs:        20,
		StepsPerEpoch:  10,
		SchedulingMode: models.ScheduleRoundRobin,
		Payoff:         models.DefaultPayoffConfig(),
		Governance:     gov,
		ProxyWeights:   models.DefaultProxyWeights(),
		Agents: []models.AgentSpec{
			{Archetype: models.ArchetypeHonest, Count: 6, Params: map[string]any{"initial_stake": 1.0}},
			{Archetype: models.ArchetypeOpportunistic, Count: 3, Params: map[string]any{"initial_stake": 1.0}},
			{Archetype: models.ArchetypeDeceptive, Count: 2, Params: map[string]any{"initial_stake": 1.0}},
			{Archetype: models.ArchetypeAdversarial, Count: 2, GroupID: "colluders", Params: map[string]any{
				"initial_stake": 1.0,
				"allies":        []string{"adversarial-0", "adversarial-1"},
			}},
		},
	}
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
