// Package memory implements the document store in process memory. It backs
// local runs with STORE_DRIVER=memory and the HTTP end-to-end tests.
package memory

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"docstore-backend/application/ports"
	"docstore-backend/domain/document"
	"docstore-backend/infrastructure/persistence"

	"github.com/samber/lo"
)

// ErrClientClosed is returned by operations on a closed client.
var ErrClientClosed = errors.New("document client is closed")

// Store keeps one table per namespace.
type Store struct {
	namespace *persistence.NamespaceRef

	mu     sync.RWMutex
	tables map[string]map[string]document.Record

	opens  atomic.Int64
	closes atomic.Int64
}

// NewStore creates an empty store bound to namespace.
func NewStore(namespace *persistence.NamespaceRef) *Store {
	return &Store{
		namespace: namespace,
		tables:    make(map[string]map[string]document.Record),
	}
}

// Open implements ports.ClientOpener.
func (s *Store) Open(ctx context.Context) (ports.DocumentClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.opens.Add(1)
	return &client{store: s, table: s.namespace.Load().Table()}, nil
}

// Opens returns how many clients were opened.
func (s *Store) Opens() int64 { return s.opens.Load() }

// Closes returns how many clients were closed.
func (s *Store) Closes() int64 { return s.closes.Load() }

// Put seeds a record directly, bypassing clients.
func (s *Store) Put(ns ports.Namespace, record document.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableLocked(ns.Table())[record.ID] = clone(record)
}

// Len returns the number of records stored in ns.
func (s *Store) Len(ns ports.Namespace) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[ns.Table()])
}

func (s *Store) tableLocked(name string) map[string]document.Record {
	t, ok := s.tables[name]
	if !ok {
		t = make(map[string]document.Record)
		s.tables[name] = t
	}
	return t
}

type client struct {
	store  *Store
	table  string
	closed atomic.Bool
}

func (c *client) check(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return ctx.Err()
}

func (c *client) Read(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	if err := c.check(ctx); err != nil {
		return ports.ItemResponse{}, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	r, ok := c.store.tables[c.table][id]
	if !ok || partitionKey != id {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}
	found := clone(r)
	return ports.ItemResponse{StatusCode: http.StatusOK, Resource: &found}, nil
}

func (c *client) Delete(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	if err := c.check(ctx); err != nil {
		return ports.ItemResponse{}, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	t := c.store.tables[c.table]
	if _, ok := t[id]; !ok || partitionKey != id {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}
	delete(t, id)
	return ports.ItemResponse{StatusCode: http.StatusNoContent}, nil
}

func (c *client) Upsert(ctx context.Context, record document.Record) (ports.ItemResponse, error) {
	if err := c.check(ctx); err != nil {
		return ports.ItemResponse{}, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	t := c.store.tableLocked(c.table)
	_, existed := t[record.ID]
	t[record.ID] = clone(record)

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	stored := clone(record)
	return ports.ItemResponse{StatusCode: status, Resource: &stored}, nil
}

func (c *client) Query(ctx context.Context, filter ports.MessageFilter) ([]document.Record, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	all := lo.Values(c.store.tables[c.table])
	c.store.mu.RUnlock()

	matches := lo.FilterMap(all, func(r document.Record, _ int) (document.Record, bool) {
		if filter.PartitionKey != "" && r.ID != filter.PartitionKey {
			return document.Record{}, false
		}
		return clone(r), strings.Contains(r.Message, filter.Substring)
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (c *client) Close() error {
	if c.closed.Swap(true) {
		return ErrClientClosed
	}
	c.store.closes.Add(1)
	return nil
}

func clone(r document.Record) document.Record {
	if r.CreationTimestamp != nil {
		ts := *r.CreationTimestamp
		r.CreationTimestamp = &ts
	}
	return r
}
