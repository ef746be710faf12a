package api

import (
	"log"
	"net/http"
)

// Operation is the closed set of request kinds the dispatcher understands.
// Using a typed constant instead of string tags makes the dispatch switch
// exhaustive: an unhandled value cannot silently produce no response.
type Operation int

const (
	OpCreate Operation = iota
	OpRead
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpRead:
		return "READ"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	}
	return "UNKNOWN"
}

// Dispatch maps one inbound request onto exactly one store operation and
// produces exactly one HTTP response.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request, op Operation, collName string) {
	switch op {
	case OpCreate:
		h.handleCreate(w, r, collName)
	case OpRead:
		h.handleRead(w, r, collName)
	case OpUpdate:
		h.handleUpdate(w, r, collName)
	case OpDelete:
		h.handleDelete(w, r, collName)
	default:
		log.Printf("ERROR: Unknown operation %s for collection '%s'", op, collName)
		writeQueryError(w)
	}
}

// dispatch binds an operation and collection to a route handler
func (h *Handler) dispatch(op Operation, collName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Dispatch(w, r, op, collName)
	}
}
