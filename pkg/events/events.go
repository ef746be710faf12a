package events

// QueryPerformed is published after every successful READ operation
const QueryPerformed = "notificacion/consulta"

// QueryData is the QueryPerformed payload: which collection was read, a
// human-readable description for relay jobs, and the raw read result.
type QueryData struct {
	Collection string      `json:"coleccion"`
	Message    string      `json:"mensaje"`
	Result     interface{} `json:"resultado"`
}
