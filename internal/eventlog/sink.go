// Package eventlog implements the append-only typed event stream: an
// in-memory authoritative buffer fanned out to a required primary sink
// (line-delimited JSON on disk) and any number of optional downstream
// mirrors (Postgres, Kafka, S3).
package eventlog

import (
	"context"
	"log"

	"github.com/swarmkernel/kernel/internal/models"
)

// Sink receives a durable copy of every appended event, in order.
type Sink interface {
	Write(ctx context.Context, ev models.Event) error
	Close() error
}

// BestEffort wraps a Sink so that Write failures are logged rather than
// propagated, matching §4.7/§9's framing that downstream mirrors observe
// history without perturbing the deterministic core: a Kafka broker
// outage or a Postgres hiccup must never abort a run.
type BestEffort struct {
	Inner  Sink
	Name   string
	Logger *log.Logger
}

func (b *BestEffort) Write(ctx context.Context, ev models.Event) error {
	if err := b.Inner.Write(ctx, ev); err != nil {
		b.Logger.Printf("eventlog: %s sink write failed at seq %d: %v", b.Name, ev.Seq, err)
	}
	return nil
}

func (b *BestEffort) Close() error {
	return b.Inner.Close()
}
