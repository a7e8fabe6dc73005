package fixtures

import (
	"encoding/json"
	"time"

	"docstore-backend/domain/document"
)

// RecordBuilder helps create test records with default values
type RecordBuilder struct {
	id        string
	message   string
	timestamp *time.Time
}

// NewRecordBuilder starts a record with a message and no id or timestamp
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{
		message: "Test message",
	}
}

func (b *RecordBuilder) WithID(id string) *RecordBuilder {
	b.id = id
	return b
}

func (b *RecordBuilder) WithMessage(message string) *RecordBuilder {
	b.message = message
	return b
}

func (b *RecordBuilder) WithCreationTimestamp(ts time.Time) *RecordBuilder {
	b.timestamp = &ts
	return b
}

// Build returns the record
func (b *RecordBuilder) Build() document.Record {
	return document.Record{
		ID:                b.id,
		Message:           b.message,
		CreationTimestamp: b.timestamp,
	}
}

// JSON returns the record encoded as a request body
func (b *RecordBuilder) JSON() []byte {
	body, err := json.Marshal(b.Build())
	if err != nil {
		panic(err)
	}
	return body
}
