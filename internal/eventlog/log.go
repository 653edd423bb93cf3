package eventlog

import (
	"context"
	"fmt"

	"github.com/swarmkernel/kernel/internal/models"
)

// Log is the authoritative, in-memory, append-only event buffer. The
// Orchestrator is its sole writer (§5: the state ledger and its log are
// owned exclusively by the Orchestrator).
type Log struct {
	primary   Sink
	mirrors   []Sink
	events    []models.Event
	nextSeq   int64
	logical   int64
}

// New constructs a Log. primary must not be nil and its Write errors are
// fatal (no partial writes: §7). mirrors are best-effort; wrap them with
// BestEffort before passing them here if they are not already.
func New(primary Sink, mirrors ...Sink) *Log {
	return &Log{primary: primary, mirrors: mirrors}
}

// Append constructs the next event, assigns it a strictly monotonic
// sequence number and logical timestamp, commits it to the primary sink,
// fans it out to the mirrors, and stores it in the in-memory buffer.
//
// On a primary-sink failure the event is not recorded and an error is
// returned; the caller (the Orchestrator) treats this as a StateError.
func (l *Log) Append(ctx context.Context, epoch, step int, kind models.EventKind, payload map[string]any) (models.Event, error) {
	ev := models.Event{
		Seq:              l.nextSeq,
		TimestampLogical: l.logical,
		Epoch:            epoch,
		Step:             step,
		Type:             kind,
		Payload:          payload,
	}
	if err := l.primary.Write(ctx, ev); err != nil {
		return models.Event{}, fmt.Errorf("eventlog: primary sink write failed at seq %d: %w", ev.Seq, err)
	}
	for _, m := range l.mirrors {
		_ = m.Write(ctx, ev) // best-effort sinks never return an error worth checking
	}
	l.nextSeq++
	l.logical++
	l.events = append(l.events, ev)
	return ev, nil
}

// Events returns a defensive copy of the events appended so far, in
// sequence order.
func (l *Log) Events() []models.Event {
	out := make([]models.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports the number of events appended so far.
func (l *Log) Len() int {
	return len(l.events)
}

// Close closes the primary sink and every mirror, returning the first
// error encountered (if any) after attempting to close them all.
func (l *Log) Close() error {
	var firstErr error
	if err := l.primary.Close(); err != nil {
		firstErr = err
	}
	for _, m := range l.mirrors {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
