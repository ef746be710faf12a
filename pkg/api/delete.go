package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// handleDelete removes the matching document. Like updates, a zero-count
// delete reports success.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, collName string) {
	vars := mux.Vars(r)
	docID := vars["id"]

	log.Printf("INFO: handleDelete called for collection '%s', document '%s'", collName, docID)

	if !domain.IsValidObjectID(docID) {
		log.Printf("ERROR: %v: '%s' for collection '%s'", domain.ErrBadIdentifier, docID, collName)
		writeQueryError(w)
		return
	}

	deleted, err := h.storage.DeleteByID(collName, docID)
	if err != nil {
		log.Printf("ERROR: Delete failed for document '%s' in collection '%s': %v", docID, collName, err)
		writeQueryError(w)
		return
	}

	log.Printf("INFO: Delete removed %d document(s) from collection '%s'", deleted, collName)
	respondJSON(w, http.StatusOK, messageBody{Message: "Registro BORRADO CORRECTAMENTE"})
}
