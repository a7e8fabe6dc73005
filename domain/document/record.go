// Package document defines the single stored entity and the rules for
// assigning its identity and creation time.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedPayload is returned when a payload cannot populate a Record.
var ErrMalformedPayload = errors.New("malformed document payload")

// Record is a stored document. ID doubles as the partition key.
type Record struct {
	ID                string     `json:"id"`
	Message           string     `json:"message"`
	CreationTimestamp *time.Time `json:"creationTimestamp,omitempty"`
}

// IDGenerator produces fresh document identifiers.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.New().String()
}

// Populate copies the fields encoded in payload into r. Keys are matched
// case-sensitively and unknown keys are ignored. Content is not validated. On
// error r is left partially initialized and must not be used.
func (r *Record) Populate(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: null payload", ErrMalformedPayload)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var decoded Record
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &decoded.ID); err != nil {
			return fmt.Errorf("%w: id: %v", ErrMalformedPayload, err)
		}
	}
	if raw, ok := fields["message"]; ok {
		if err := json.Unmarshal(raw, &decoded.Message); err != nil {
			return fmt.Errorf("%w: message: %v", ErrMalformedPayload, err)
		}
	}
	if raw, ok := fields["creationTimestamp"]; ok {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return fmt.Errorf("%w: creationTimestamp: %v", ErrMalformedPayload, err)
		}
		decoded.CreationTimestamp = ts
	}

	r.ID = decoded.ID
	r.Message = decoded.Message
	r.CreationTimestamp = decoded.CreationTimestamp
	return nil
}

// Timestamps without a zone offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(raw json.RawMessage) (*time.Time, error) {
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, *value); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", *value)
}

// HasID reports whether the caller supplied an identifier.
func (r *Record) HasID() bool {
	return r.ID != ""
}

// HasDefaultCreationTimestamp reports whether the caller explicitly sent the
// zero time. An absent timestamp is not the default.
func (r *Record) HasDefaultCreationTimestamp() bool {
	return r.CreationTimestamp != nil && r.CreationTimestamp.IsZero()
}

// StampNew gives r a brand new identity: a fresh ID and now as its creation
// time, discarding whatever the caller sent.
func (r *Record) StampNew(now Clock, newID IDGenerator) {
	r.ID = newID()
	ts := now()
	r.CreationTimestamp = &ts
}

// ReconcileForUpsert applies the upsert identity rules.
//
// A missing ID is generated, a present one is kept. The timestamp rule is
// inverted relative to "immutable creation time": only an explicit zero
// timestamp is kept as sent, while an absent or real timestamp is replaced
// with now. Existing clients depend on this, so it is kept as is.
func (r *Record) ReconcileForUpsert(now Clock, newID IDGenerator) {
	if !r.HasID() {
		r.ID = newID()
	}
	if !r.HasDefaultCreationTimestamp() {
		ts := now()
		r.CreationTimestamp = &ts
	}
}
