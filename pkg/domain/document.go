package domain

// Document represents a schema-less document stored in a collection.
// The store assigns every document a unique identifier under the "_id" key.
type Document map[string]interface{}

// Collection represents a named grouping of documents, keyed by identifier
type Collection struct {
	Name      string              `json:"name"`
	Documents map[string]Document `json:"documents"`
}

// NewCollection creates a new empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}

// Copy returns a field-level copy of the document. The store hands out
// copies so a caller can keep reading or encoding a result after the store's
// lock is released, while writers mutate the stored document in place.
func (d Document) Copy() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
