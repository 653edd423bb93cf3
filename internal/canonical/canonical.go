// Package canonical produces deterministic JSON encodings of arbitrary
// JSON-like values. The event log relies on it: two runs with identical
// scenario and seed must produce byte-identical event streams (§4.7),
// and Go's map iteration order is not stable, so every event payload is
// serialized through this package rather than encoding/json directly.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Marshal returns deterministic JSON bytes for v.
//
// Rules:
//   - map[string]any: keys sorted lexicographically.
//   - []any and other slices: order preserved.
//   - numbers, strings, bools, nil: encoded via encoding/json.
//
// Values that are not already one of the above (structs, typed slices)
// are round-tripped through encoding/json with UseNumber so that
// numeric precision survives the trip.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch vv := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if vv {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(vv.String())
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		b, err := json.Marshal(vv)
		if err != nil {
			return err
		}
		buf.Write(b)
	case string:
		b, _ := json.Marshal(vv)
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, elem := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encode(buf, vv[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return fmt.Errorf("canonical: marshal fallback: %w", err)
		}
		var tmp any
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&tmp); err != nil {
			return fmt.Errorf("canonical: decode fallback: %w", err)
		}
		return encode(buf, tmp)
	}
	return nil
}
