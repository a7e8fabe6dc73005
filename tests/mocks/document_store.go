// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"docstore-backend/application/ports"
	"docstore-backend/domain/document"

	"github.com/stretchr/testify/mock"
)

// MockClientOpener is a mock implementation of ports.ClientOpener
type MockClientOpener struct {
	mock.Mock
}

// Open mocks opening a document store client
func (m *MockClientOpener) Open(ctx context.Context) (ports.DocumentClient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.DocumentClient), args.Error(1)
}

// MockDocumentClient is a mock implementation of ports.DocumentClient
type MockDocumentClient struct {
	mock.Mock
}

// Read mocks a point read
func (m *MockDocumentClient) Read(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	args := m.Called(ctx, id, partitionKey)
	return args.Get(0).(ports.ItemResponse), args.Error(1)
}

// Delete mocks a point delete
func (m *MockDocumentClient) Delete(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	args := m.Called(ctx, id, partitionKey)
	return args.Get(0).(ports.ItemResponse), args.Error(1)
}

// Upsert mocks an upsert by document
func (m *MockDocumentClient) Upsert(ctx context.Context, record document.Record) (ports.ItemResponse, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(ports.ItemResponse), args.Error(1)
}

// Query mocks a filter query
func (m *MockDocumentClient) Query(ctx context.Context, filter ports.MessageFilter) ([]document.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Record), args.Error(1)
}

// Close mocks releasing the client
func (m *MockDocumentClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockChangePublisher is a mock implementation of ports.ChangePublisher
type MockChangePublisher struct {
	mock.Mock
}

// Publish mocks publishing a change event
func (m *MockChangePublisher) Publish(ctx context.Context, event document.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
