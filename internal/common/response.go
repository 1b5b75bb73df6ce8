package common

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthErrorResponse is returned by the token gate so the frontend can reset
// its local auth state.
type AuthErrorResponse struct {
	Error           string `json:"error"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         *bool  `json:"isAdmin,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithServiceError maps err onto a status code and a public message.
// Server errors are logged with their detail and hidden from the client.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	RespondWithError(w, code, PublicMessage(err))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
