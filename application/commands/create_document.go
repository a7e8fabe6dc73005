package commands

// CreateDocumentCommand carries the raw request body for a create call.
type CreateDocumentCommand struct {
	Payload []byte
}
