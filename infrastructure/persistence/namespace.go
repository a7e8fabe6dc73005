// Package persistence holds store-agnostic plumbing shared by the document
// store adapters.
package persistence

import (
	"sync/atomic"

	"docstore-backend/application/ports"
)

// NamespaceRef is the namespace every newly opened client binds to. It can be
// swapped at runtime; clients already open keep the namespace they started
// with.
type NamespaceRef struct {
	current atomic.Pointer[ports.Namespace]
}

// NewNamespaceRef returns a reference initialized to ns.
func NewNamespaceRef(ns ports.Namespace) *NamespaceRef {
	r := &NamespaceRef{}
	r.Store(ns)
	return r
}

// Load returns the current namespace.
func (r *NamespaceRef) Load() ports.Namespace {
	return *r.current.Load()
}

// Store replaces the namespace used by subsequent opens.
func (r *NamespaceRef) Store(ns ports.Namespace) {
	r.current.Store(&ns)
}
