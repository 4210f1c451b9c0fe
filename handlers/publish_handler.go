package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mrk-foods/cardsysbackend/models"
	"github.com/mrk-foods/cardsysbackend/publish"
)

// PublishHandler exposes the publish bridge: snapshot the employee list
// into the static data file on the source-control host.
type PublishHandler struct {
	Publisher *publish.Publisher
}

type publishRequest struct {
	Employees *[]models.Employee `json:"employees"`
}

type publishResponse struct {
	Success   bool   `json:"success"`
	CommitURL string `json:"commit_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Publish handles POST /api/publish. OPTIONS preflight is answered by the
// CORS middleware; other methods get 405 from the router.
func (ph *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, publishResponse{Success: false, Error: "Invalid JSON body"})
		return
	}
	if req.Employees == nil {
		writeJSON(w, http.StatusBadRequest, publishResponse{Success: false, Error: "employees must be an array"})
		return
	}

	result, err := ph.Publisher.Publish(r.Context(), *req.Employees)
	if err != nil {
		var cfgErr *publish.ConfigError
		var remErr *publish.RemoteError
		switch {
		case errors.As(err, &cfgErr):
			writeJSON(w, http.StatusInternalServerError, publishResponse{Success: false, Error: cfgErr.Error()})
		case errors.As(err, &remErr):
			writeJSON(w, http.StatusInternalServerError, publishResponse{Success: false, Error: remErr.Error()})
		default:
			log.Printf("Publish failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, publishResponse{Success: false, Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, publishResponse{Success: true, CommitURL: result.CommitURL})
}
