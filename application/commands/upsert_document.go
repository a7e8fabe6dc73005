package commands

// UpsertDocumentCommand carries the raw request body for an upsert call.
type UpsertDocumentCommand struct {
	Payload []byte
}
