package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/centrosocial/centro-api/pkg/domain"
	"github.com/centrosocial/centro-api/pkg/events"
)

// notifyTimeout bounds the outbound notification so a hung chat endpoint
// cannot stall the request indefinitely.
const notifyTimeout = 10 * time.Second

// handleRead serves both READ shapes: an empty path-parameter map means
// "list the whole collection", anything else means "fetch the one document
// under the id parameter".
func (h *Handler) handleRead(w http.ResponseWriter, r *http.Request, collName string) {
	vars := mux.Vars(r)

	if len(vars) == 0 {
		log.Printf("INFO: handleRead called for collection '%s' (all documents)", collName)

		docs, err := h.storage.FindAll(collName)
		if err != nil {
			log.Printf("ERROR: Find failed for collection '%s': %v", collName, err)
			writeQueryError(w)
			return
		}

		log.Printf("INFO: Found %d documents in collection '%s'", len(docs), collName)
		h.afterRead(r, collName, docs)
		respondJSON(w, http.StatusOK, docs)
		return
	}

	docID := vars["id"]
	log.Printf("INFO: handleRead called for collection '%s', document '%s'", collName, docID)

	if !domain.IsValidObjectID(docID) {
		log.Printf("ERROR: %v: '%s' for collection '%s'", domain.ErrBadIdentifier, docID, collName)
		writeQueryError(w)
		return
	}

	doc, err := h.storage.FindByID(collName, docID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("ERROR: Find failed for document '%s' in collection '%s': %v", docID, collName, err)
		writeQueryError(w)
		return
	}

	// An absent document reads as null, exactly like the store's findOne
	var result interface{}
	if err == nil {
		result = doc
	}

	h.afterRead(r, collName, result)
	respondJSON(w, http.StatusOK, result)
}

// afterRead fires the two read side effects: the event emission for the job
// runner and the direct chat notification. Both are best-effort — a failure
// here is logged and must never turn the already-successful read into a
// client error.
func (h *Handler) afterRead(r *http.Request, collName string, result interface{}) {
	h.bus.Publish(events.Event{
		Name: events.QueryPerformed,
		Data: events.QueryData{
			Collection: collName,
			Message:    fmt.Sprintf("Consulta realizada sobre la colección *%s*", collName),
			Result:     result,
		},
	})

	ctx, cancel := context.WithTimeout(r.Context(), notifyTimeout)
	defer cancel()
	if _, err := h.notifier.Send(ctx, watchMessage(collName)); err != nil {
		log.Printf("ERROR: Notification for read on collection '%s' failed: %v", collName, err)
	}
}

// watchMessage is the per-collection read notification text
func watchMessage(collName string) string {
	if collName == CollectionUsuarios {
		return "👁️ *Consulta de Usuarios*: Alguien ha solicitado la lista completa de usuarios."
	}
	return "👁️ *Consulta de Grupos*: Alguien ha solicitado la lista completa de grupos."
}
