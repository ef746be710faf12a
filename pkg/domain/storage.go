package domain

// StorageEngine defines the interface for store operations
// This is the core business interface that implementations must conform to
type StorageEngine interface {
	// InsertOne stores a document in the named collection, creating the
	// collection on first use, and returns the assigned identifier.
	InsertOne(collName string, doc Document) (string, error)

	// FindAll returns every document in the collection. An unknown or empty
	// collection yields an empty slice, not an error.
	FindAll(collName string) ([]Document, error)

	// FindByID returns the document with the given identifier, or an error
	// wrapping ErrNotFound when no document matches.
	FindByID(collName, docID string) (Document, error)

	// UpdateByID merges the update fields over the matching document and
	// returns how many documents matched. Zero matches is not an error.
	UpdateByID(collName, docID string, updates Document) (int64, error)

	// DeleteByID removes the matching document and returns how many
	// documents were removed. Zero removals is not an error.
	DeleteByID(collName, docID string) (int64, error)

	LoadFromFile(filename string) error
	SaveToFile(filename string) error
	StartBackgroundWorkers()
	StopBackgroundWorkers()
}
