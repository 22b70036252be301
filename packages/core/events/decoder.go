package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/tidwall/gjson"
)

// MaxLineSize bounds a single NDJSON line; attachments can be large
const MaxLineSize = 64 * 1024 * 1024

// Decoder reads newline-delimited JSON envelopes
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder creates a decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Decoder{scanner: s}
}

// Next returns the next supported envelope, or io.EOF at the end of the
// stream. Blank lines and envelopes that carry no known message are skipped.
func (d *Decoder) Next() (*Envelope, error) {
	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("line %d: invalid JSON", d.line)
		}
		if !isKnownEnvelope(raw) {
			continue
		}

		env := &Envelope{}
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
		return env, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", d.line+1, err)
	}
	return nil, io.EOF
}

// Line returns the number of the last line read
func (d *Decoder) Line() int {
	return d.line
}

func isKnownEnvelope(raw []byte) bool {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return false
	}
	known := false
	root.ForEach(func(key, _ gjson.Result) bool {
		if slices.Contains(EnvelopeKeys, key.String()) {
			known = true
			return false
		}
		return true
	})
	return known
}

// DecodeAll reads every envelope from r
func DecodeAll(r io.Reader) ([]*Envelope, error) {
	dec := NewDecoder(r)
	var envs []*Envelope
	for {
		env, err := dec.Next()
		if err == io.EOF {
			return envs, nil
		}
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
}

// Encode writes env as a single NDJSON line
func Encode(w io.Writer, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
