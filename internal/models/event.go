package models

// EventKind tags the append-only event log's record types.
type EventKind string

const (
	EventAgentRegistered      EventKind = "AGENT_REGISTERED"
	EventActionEmitted        EventKind = "ACTION_EMITTED"
	EventInteractionProposed  EventKind = "INTERACTION_PROPOSED"
	EventInteractionResolved  EventKind = "INTERACTION_RESOLVED"
	EventInteractionAbandoned EventKind = "INTERACTION_ABANDONED"
	EventAuditExecuted        EventKind = "AUDIT_EXECUTED"
	EventAgentFrozen          EventKind = "AGENT_FROZEN"
	EventAgentUnfrozen        EventKind = "AGENT_UNFROZEN"
	EventAgentSkipped         EventKind = "AGENT_SKIPPED"
	EventFrozenActionDropped  EventKind = "FROZEN_ACTION_DROPPED"
	EventStakeSlashed         EventKind = "STAKE_SLASHED"
	EventAgentQuarantined     EventKind = "AGENT_QUARANTINED"
	EventCollusionFlagged     EventKind = "COLLUSION_FLAGGED"
	EventEpochMetrics         EventKind = "EPOCH_METRICS"
	EventRunCancelled         EventKind = "RUN_CANCELLED"
	EventRunCrashed           EventKind = "RUN_CRASHED"
)

// Event is a typed, timestamped, sequence-numbered record. Payload is a
// primitive-valued map; the log itself never interprets it, it only
// serializes and replays it.
type Event struct {
	Seq              int64
	TimestampLogical int64
	Epoch            int
	Step             int
	Type             EventKind
	Payload          map[string]any
}
