package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/templequest/temple-api/internal/api/respond"
)

const maxBodyBytes = 64 << 10

// decodeBody reads a JSON request body of at most maxBodyBytes into dst. On
// failure it writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
