package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// QueryErrorMessage is the single client-facing error body. Distinct failure
// causes (malformed identifier, malformed body, store failure) deliberately
// collapse into this one message; the real cause only reaches the process
// log. Keeping the mapping in this file is what makes future differentiation
// a one-place change.
const QueryErrorMessage = "ERROR - No se encontraron documentos que coincidan con la consulta"

// messageBody is the fixed-message response shape
type messageBody struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: Encoding response failed: %v", err)
	}
}

// writeQueryError renders any caught request failure as HTTP 400 with the
// generic message body. Internal error detail must never leak to the caller.
func writeQueryError(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, messageBody{Message: QueryErrorMessage})
}
