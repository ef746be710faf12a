package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// handleCreate inserts the request body as a new document and answers with
// the store-assigned identifier.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request, collName string) {
	log.Printf("INFO: handleCreate called for collection '%s'", collName)

	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		log.Printf("ERROR: Decoding body failed for collection '%s': %v", collName, err)
		writeQueryError(w)
		return
	}

	newID, err := h.storage.InsertOne(collName, doc)
	if err != nil {
		log.Printf("ERROR: Insert failed for collection '%s': %v", collName, err)
		writeQueryError(w)
		return
	}

	log.Printf("INFO: Inserted document '%s' into collection '%s'", newID, collName)
	respondJSON(w, http.StatusOK, messageBody{Message: "Registro CREADO CORRECTAMENTE - id: " + newID})
}
