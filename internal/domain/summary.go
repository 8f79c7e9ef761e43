package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SolverSummary is an insertion-ordered mapping from a human-readable field
// name to the value printed by the solver. Absent fields are simply not keys.
// The zero value is an empty summary ready to use.
type SolverSummary struct {
	keys   []string
	values map[string]string
}

// Set inserts or replaces a field. Replacing keeps the original position.
func (s *SolverSummary) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s SolverSummary) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (s SolverSummary) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s SolverSummary) Len() int { return len(s.keys) }

func (s SolverSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal summary key %q: %w", k, err)
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal summary value for %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SolverSummary) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}
	if tok == nil {
		*s = SolverSummary{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("unmarshal summary: expected object")
	}

	out := SolverSummary{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return fmt.Errorf("unmarshal summary: read key: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return errors.New("unmarshal summary: expected string key")
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("unmarshal summary: value for %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("unmarshal summary: closing brace: %w", err)
	}

	*s = out
	return nil
}
