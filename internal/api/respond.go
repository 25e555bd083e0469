// Package api is the HTTP surface: account registration and login, group and
// message management, friend lists, health and metrics. Realtime traffic goes
// through the websocket gateway; these handlers cover everything a client
// does before or outside a live connection.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"gochat/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrPolicy):
		status = http.StatusConflict
	case errors.Is(err, common.ErrInvalid):
		status = http.StatusBadRequest
	case common.IsPersistence(err):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func readJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(common.ErrInvalid, errors.New("malformed request body"))
	}
	return nil
}
