package api

import (
	"fmt"
	"sync"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// MockStorageEngine provides a mock implementation of domain.StorageEngine
// for testing
type MockStorageEngine struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Document

	insertCalls int
	findCalls   int
	updateCalls int
	deleteCalls int

	failWith error // when set, every store call fails with this error
}

// NewMockStorageEngine creates a new mock storage engine
func NewMockStorageEngine() *MockStorageEngine {
	return &MockStorageEngine{
		collections: make(map[string]map[string]domain.Document),
	}
}

// FailWith makes every subsequent store call fail with the given error
func (m *MockStorageEngine) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Seed inserts a document directly, bypassing the call counters, and returns
// its identifier.
func (m *MockStorageEngine) Seed(collName string, doc domain.Document) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := domain.NewObjectID()
	stored := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = id

	if m.collections[collName] == nil {
		m.collections[collName] = make(map[string]domain.Document)
	}
	m.collections[collName][id] = stored
	return id
}

// InsertOne adds a document to a collection
func (m *MockStorageEngine) InsertOne(collName string, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.failWith != nil {
		return "", m.failWith
	}

	id := domain.NewObjectID()
	stored := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = id

	if m.collections[collName] == nil {
		m.collections[collName] = make(map[string]domain.Document)
	}
	m.collections[collName][id] = stored
	return id, nil
}

// FindAll returns all documents in a collection
func (m *MockStorageEngine) FindAll(collName string) ([]domain.Document, error) {
	// The counter mutation needs the write lock
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}

	docs := make([]domain.Document, 0)
	for _, doc := range m.collections[collName] {
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindByID retrieves a document by ID
func (m *MockStorageEngine) FindByID(collName, docID string) (domain.Document, error) {
	// The counter mutation needs the write lock
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}

	doc, exists := m.collections[collName][docID]
	if !exists {
		return nil, fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
	}
	return doc, nil
}

// UpdateByID merges updates over a document by ID
func (m *MockStorageEngine) UpdateByID(collName, docID string, updates domain.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	if m.failWith != nil {
		return 0, m.failWith
	}

	doc, exists := m.collections[collName][docID]
	if !exists {
		return 0, nil
	}

	for key, value := range updates {
		if key != "_id" {
			doc[key] = value
		}
	}
	return 1, nil
}

// DeleteByID removes a document by ID
func (m *MockStorageEngine) DeleteByID(collName, docID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if m.failWith != nil {
		return 0, m.failWith
	}

	if _, exists := m.collections[collName][docID]; !exists {
		return 0, nil
	}
	delete(m.collections[collName], docID)
	return 1, nil
}

// LoadFromFile is a no-op for the mock
func (m *MockStorageEngine) LoadFromFile(filename string) error { return nil }

// SaveToFile is a no-op for the mock
func (m *MockStorageEngine) SaveToFile(filename string) error { return nil }

// StartBackgroundWorkers is a no-op for the mock
func (m *MockStorageEngine) StartBackgroundWorkers() {}

// StopBackgroundWorkers is a no-op for the mock
func (m *MockStorageEngine) StopBackgroundWorkers() {}

// GetInsertCalls returns the number of InsertOne calls
func (m *MockStorageEngine) GetInsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// GetFindCalls returns the number of FindAll/FindByID calls
func (m *MockStorageEngine) GetFindCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findCalls
}

// GetUpdateCalls returns the number of UpdateByID calls
func (m *MockStorageEngine) GetUpdateCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updateCalls
}

// GetDeleteCalls returns the number of DeleteByID calls
func (m *MockStorageEngine) GetDeleteCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deleteCalls
}

// GetCollectionCount returns the number of documents in a collection
func (m *MockStorageEngine) GetCollectionCount(collName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collName])
}
