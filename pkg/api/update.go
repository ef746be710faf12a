package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// handleUpdate merges the partial request body over the matching document.
// A zero-match update still reports success: the store answered, nothing
// matched, and that is the behavior callers rely on.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, collName string) {
	vars := mux.Vars(r)
	docID := vars["id"]

	log.Printf("INFO: handleUpdate called for collection '%s', document '%s'", collName, docID)

	if !domain.IsValidObjectID(docID) {
		log.Printf("ERROR: %v: '%s' for collection '%s'", domain.ErrBadIdentifier, docID, collName)
		writeQueryError(w)
		return
	}

	var updates domain.Document
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Printf("ERROR: Decoding body failed for collection '%s': %v", collName, err)
		writeQueryError(w)
		return
	}

	matched, err := h.storage.UpdateByID(collName, docID, updates)
	if err != nil {
		log.Printf("ERROR: Update failed for document '%s' in collection '%s': %v", docID, collName, err)
		writeQueryError(w)
		return
	}

	log.Printf("INFO: Update matched %d document(s) in collection '%s'", matched, collName)
	respondJSON(w, http.StatusOK, messageBody{Message: "Registro ACTUALIZADO CORRECTAMENTE"})
}
