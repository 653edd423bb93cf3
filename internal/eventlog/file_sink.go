package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/swarmkernel/kernel/internal/canonical"
	"github.com/swarmkernel/kernel/internal/models"
)

// JSONLFileSink writes one canonical-JSON line per event to a file. It is
// the required primary sink: §4.7 names line-delimited JSON as the
// reasonable default persisted format, and §8 property 1 (replay
// identity) is checked against its output.
type JSONLFileSink struct {
	f *os.File
}

// NewJSONLFileSink creates (or truncates) the file at path and returns a
// sink writing to it.
func NewJSONLFileSink(path string) (*JSONLFileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: create %s: %w", path, err)
	}
	return &JSONLFileSink{f: f}, nil
}

func (s *JSONLFileSink) Write(ctx context.Context, ev models.Event) error {
	record := map[string]any{
		"seq":               ev.Seq,
		"timestamp_logical": ev.TimestampLogical,
		"epoch":             ev.Epoch,
		"step":              ev.Step,
		"type":              string(ev.Type),
		"payload":           ev.Payload,
	}
	line, err := canonical.Marshal(record)
	if err != nil {
		return fmt.Errorf("eventlog: canonicalize seq %d: %w", ev.Seq, err)
	}
	if _, err := s.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("eventlog: write seq %d: %w", ev.Seq, err)
	}
	return nil
}

func (s *JSONLFileSink) Close() error {
	return s.f.Close()
}

// LoadJSONL reads a persisted events.jsonl file back into a slice of
// events, in file order. Used by replay-identity tests (§8 S4) and by
// any collaborator reconstructing a run's interaction set.
func LoadJSONL(path string) ([]models.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	defer f.Close()

	var events []models.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var raw struct {
			Seq              int64          `json:"seq"`
			TimestampLogical int64          `json:"timestamp_logical"`
			Epoch            int            `json:"epoch"`
			Step             int            `json:"step"`
			Type             string         `json:"type"`
			Payload          map[string]any `json:"payload"`
		}
		dec := json.NewDecoder(bytes.NewReader(scanner.Bytes()))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("eventlog: decode line: %w", err)
		}
		events = append(events, models.Event{
			Seq:              raw.Seq,
			TimestampLogical: raw.TimestampLogical,
			Epoch:            raw.Epoch,
			Step:             raw.Step,
			Type:             models.EventKind(raw.Type),
			Payload:          raw.Payload,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("eventlog: scan %s: %w", path, err)
	}
	return events, nil
}
