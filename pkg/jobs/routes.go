package jobs

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/centrosocial/centro-api/pkg/events"
)

// JobInfo describes one registered job definition
type JobInfo struct {
	Name    string `json:"name"`
	Trigger string `json:"trigger"`
	Spec    string `json:"spec"`
}

// listResponse is the introspection payload
type listResponse struct {
	Jobs    []JobInfo   `json:"jobs"`
	History []RunRecord `json:"history"`
}

// runRequest optionally overrides the relayed message on manual execution
type runRequest struct {
	Mensaje string `json:"mensaje"`
}

// RegisterRoutes mounts the runner's introspection and execution endpoints
// on the given subrouter.
func (s *Service) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", s.HandleList).Methods("GET")
	router.HandleFunc("/{name}/run", s.HandleRun).Methods("POST")
}

// HandleList handles GET requests for the registered job definitions and
// their recent run history.
func (s *Service) HandleList(w http.ResponseWriter, r *http.Request) {
	response := listResponse{
		Jobs: []JobInfo{
			{Name: JobBasicNotification, Trigger: "event", Spec: events.QueryPerformed},
			{Name: JobPeriodicReport, Trigger: "cron", Spec: reportCronSpec},
		},
		History: s.History(),
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleRun handles POST requests to execute one job immediately
func (s *Service) HandleRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	log.Printf("INFO: Manual run requested for job '%s'", name)

	switch name {
	case JobBasicNotification:
		var req runRequest
		// Body is optional for manual runs
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Mensaje == "" {
			req.Mensaje = "Ejecución manual"
		}
		event := events.Event{
			Name: events.QueryPerformed,
			Time: time.Now(),
			Data: events.QueryData{Message: req.Mensaje},
		}
		result, err := s.RunBasicNotification(r.Context(), event)
		if err != nil {
			log.Printf("ERROR: Manual run of '%s' failed: %v", name, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)

	case JobPeriodicReport:
		report, err := s.RunPeriodicReport(r.Context())
		if err != nil {
			log.Printf("ERROR: Manual run of '%s' failed: %v", name, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "unknown job: " + name})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: Encoding job response failed: %v", err)
	}
}
