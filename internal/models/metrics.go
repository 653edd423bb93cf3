package models

import "time"

// EpochMetrics is the per-epoch snapshot emitted by the metrics package
// and streamed to downstream collaborators.
type EpochMetrics struct {
	Epoch int

	AcceptedCount int
	RejectedCount int

	ToxicityRate    float64
	QualityGap      float64
	ConditionalLoss float64
	MeanP           float64
	VarianceP       float64
	Brier           float64
	ECE             float64

	TotalWelfare float64
	GiniPayoffs  float64

	FrozenAgentCount int
	FlaggedPairCount int
}

// RunStatus is the terminal state recorded in a RunManifest.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusCrashed   RunStatus = "crashed"
)

// RunManifest summarizes a completed (or aborted) run for downstream
// collaborators; it is the third file of the persisted-state layout.
type RunManifest struct {
	ScenarioID       string    `json:"scenario_id"`
	Seed             int64     `json:"seed"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	NEpochsCompleted int       `json:"n_epochs_completed"`
	FinalStatus      RunStatus `json:"final_status"`
}
