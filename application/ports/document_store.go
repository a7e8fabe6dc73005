// Package ports defines the contracts the application layer depends on.
package ports

import (
	"context"

	"docstore-backend/domain/document"
)

// Namespace identifies the database/container pair documents live in.
type Namespace struct {
	Database  string
	Container string
}

// Table returns the physical table name for the namespace.
func (n Namespace) Table() string {
	return n.Database + "." + n.Container
}

// ItemResponse carries the status the store reported for a point operation.
// StatusCode uses HTTP status semantics (200, 201, 204, 404).
type ItemResponse struct {
	StatusCode int
	Resource   *document.Record
}

// MessageFilter selects documents whose message contains Substring
// (case-sensitive, equality included). An empty PartitionKey scans every
// partition.
type MessageFilter struct {
	Substring    string
	PartitionKey string
}

// DocumentClient is a connection-scoped handle on the document store.
// Non-nil errors are transport or service failures; expected outcomes such
// as a missing document are reported through ItemResponse.StatusCode.
type DocumentClient interface {
	Read(ctx context.Context, id, partitionKey string) (ItemResponse, error)
	Delete(ctx context.Context, id, partitionKey string) (ItemResponse, error)
	Upsert(ctx context.Context, record document.Record) (ItemResponse, error)
	Query(ctx context.Context, filter MessageFilter) ([]document.Record, error)
	Close() error
}

// ClientOpener acquires a fresh DocumentClient for a single request. The
// caller owns the client and must Close it.
type ClientOpener interface {
	Open(ctx context.Context) (DocumentClient, error)
}

// ChangePublisher announces successful writes to interested consumers.
type ChangePublisher interface {
	Publish(ctx context.Context, event document.ChangeEvent) error
}
