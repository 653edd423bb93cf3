package models

// ActionKind tags the variant of an Action.
type ActionKind string

const (
	ActionPost           ActionKind = "POST"
	ActionReply          ActionKind = "REPLY"
	ActionVote           ActionKind = "VOTE"
	ActionClaimTask      ActionKind = "CLAIM_TASK"
	ActionSubmitWork     ActionKind = "SUBMIT_WORK"
	ActionVerify         ActionKind = "VERIFY"
	ActionCollaborate    ActionKind = "COLLABORATE"
	ActionTradePropose   ActionKind = "TRADE_PROPOSE"
	ActionTradeAccept    ActionKind = "TRADE_ACCEPT"
	ActionPass           ActionKind = "PASS"
	ActionExternalCustom ActionKind = "EXTERNAL_CUSTOM"
)

// Action is the tagged variant an agent's policy returns each turn. Not
// every field is meaningful for every Kind; callers consult Kind first.
type Action struct {
	Kind ActionKind

	// TargetID names the counterparty (REPLY, VOTE, TRADE_PROPOSE,
	// TRADE_ACCEPT, COLLABORATE) or the post being replied to.
	TargetID string

	// TaskID names the task acted on (CLAIM_TASK, SUBMIT_WORK, VERIFY).
	TaskID string

	// VoteValue carries the direction of a VOTE action.
	VoteValue bool

	// Payload carries an opaque blob for POST/SUBMIT_WORK content and for
	// EXTERNAL_CUSTOM actions returned by a bridge-backed policy.
	Payload []byte
}

// Pass is the zero-cost no-op action every policy can fall back to.
func Pass() Action {
	return Action{Kind: ActionPass}
}
