package response

import (
	"encoding/json"
	"net/http"
)

// ContentType is sent with every JSON body
const ContentType = "application/json; charset=utf-8"

// JSON writes data with status. Room state is live, so responses are
// marked as not cacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent acknowledges a simulated event handed to the room
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
