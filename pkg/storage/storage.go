package storage

import (
	"log"
	"sync"
	"time"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// StorageEngine is an in-memory document store with optional single-file
// snapshot persistence. It keeps whole collections resident; the REST layer
// shares one engine across all requests.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection

	// Configuration
	dataDir         string
	dataFile        string // Current data file for single-file persistence
	backgroundSave  bool
	transactionSave bool
	saveInterval    time.Duration

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:     make(map[string]*domain.Collection),
		dataDir:         ".",
		backgroundSave:  false,
		transactionSave: true, // Default to transaction-based saves
		saveInterval:    5 * time.Minute,
		stopChan:        make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(engine)
	}

	return engine
}

// getOrCreateCollectionLocked returns the named collection, creating it on
// first use. Callers must hold the write lock.
func (se *StorageEngine) getOrCreateCollectionLocked(collName string) *domain.Collection {
	if coll, exists := se.collections[collName]; exists {
		return coll
	}
	coll := domain.NewCollection(collName)
	se.collections[collName] = coll
	return coll
}

// saveAfterWrite persists the current state if transaction saves are enabled
// and a data file has been configured.
func (se *StorageEngine) saveAfterWrite() {
	if !se.transactionSave || se.dataFile == "" {
		return
	}
	if err := se.SaveToFile(se.dataFile); err != nil {
		// Don't fail the write if the save fails, just log the warning
		log.Printf("WARN: Failed to save data file %s after write: %v", se.dataFile, err)
	}
}

// IsTransactionSaveEnabled returns whether transaction-based saves are enabled
func (se *StorageEngine) IsTransactionSaveEnabled() bool {
	return se.transactionSave
}
