package storage

import (
	"fmt"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// InsertOne inserts a document into a collection, creating the collection on
// first use, and returns the assigned identifier.
func (se *StorageEngine) InsertOne(collName string, doc domain.Document) (string, error) {
	se.mu.Lock()
	collection := se.getOrCreateCollectionLocked(collName)

	// Generate unique ID. The identifier is owned by the store: anything the
	// caller put under _id is replaced.
	newID := domain.NewObjectID()

	stored := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = newID

	collection.Documents[newID] = stored
	se.mu.Unlock()

	se.saveAfterWrite()
	return newID, nil
}

// FindAll returns all documents in a collection. An unknown or empty
// collection yields an empty result, not an error.
func (se *StorageEngine) FindAll(collName string) ([]domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	docs := make([]domain.Document, 0)
	collection, exists := se.collections[collName]
	if !exists {
		return docs, nil
	}

	for _, doc := range collection.Documents {
		docs = append(docs, doc.Copy())
	}
	return docs, nil
}

// FindByID retrieves a specific document by its ID
func (se *StorageEngine) FindByID(collName, docID string) (domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, exists := se.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s: %w", collName, domain.ErrNotFound)
	}

	doc, exists := collection.Documents[docID]
	if !exists {
		return nil, fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
	}

	return doc.Copy(), nil
}

// UpdateByID merges the update fields over the matching document and returns
// how many documents matched. A missing document matches zero and is not an
// error, mirroring the zero-count result of a single-document update.
func (se *StorageEngine) UpdateByID(collName, docID string, updates domain.Document) (int64, error) {
	se.mu.Lock()

	collection, exists := se.collections[collName]
	if !exists {
		se.mu.Unlock()
		return 0, nil
	}

	doc, exists := collection.Documents[docID]
	if !exists {
		se.mu.Unlock()
		return 0, nil
	}

	// Apply updates to the document
	for key, value := range updates {
		if key != "_id" { // The identifier is immutable after creation
			doc[key] = value
		}
	}
	se.mu.Unlock()

	se.saveAfterWrite()
	return 1, nil
}

// DeleteByID removes the matching document and returns how many documents
// were removed. A missing document removes zero and is not an error.
func (se *StorageEngine) DeleteByID(collName, docID string) (int64, error) {
	se.mu.Lock()

	collection, exists := se.collections[collName]
	if !exists {
		se.mu.Unlock()
		return 0, nil
	}

	if _, exists := collection.Documents[docID]; !exists {
		se.mu.Unlock()
		return 0, nil
	}

	delete(collection.Documents, docID)
	se.mu.Unlock()

	se.saveAfterWrite()
	return 1, nil
}
