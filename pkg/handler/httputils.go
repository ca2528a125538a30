package handler

import (
	"encoding/json"
	"errors"
	"lunarwatch"
	"lunarwatch/pkg/nasa"
	srvc "lunarwatch/pkg/service"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// getStringParam returns "" for a missing param or a nil request
func getStringParam(r *http.Request, name string) string {

	if r == nil {
		return ""
	}

	return r.URL.Query().Get(name)
}

// missingParams returns the names that are absent or empty, in order
func missingParams(r *http.Request, names ...string) []string {
	var missing []string
	for _, n := range names {
		if getStringParam(r, n) == "" {
			missing = append(missing, n)
		}
	}
	return missing
}

func requiredMessage(missing []string) string {
	if len(missing) == 1 {
		return missing[0] + " is required."
	}
	return strings.Join(missing, " and ") + " are required."
}

// respond writes the upstream body on success and a normalized error otherwise.
// Upstream detail goes to the log only.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, route, failMsg string, body []byte, err error) {

	if err == nil {
		sendRaw(w, http.StatusOK, body)
		return
	}

	entry := logEntry(r, route)

	if errors.Is(err, srvc.ErrMissingAPIKey) {
		entry.Error("NASA_KEY is not set")
		sendError(w, http.StatusInternalServerError, msgConfig)
		return
	}

	var ue *nasa.UpstreamError
	if errors.As(err, &ue) {
		entry = entry.WithFields(logrus.Fields{
			"status": ue.StatusCode,
			"body":   string(ue.Body),
		})
	}

	entry.WithError(err).Error(failMsg)
	sendError(w, http.StatusInternalServerError, failMsg)
}

func logEntry(r *http.Request, route string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"route":      route,
		"request_id": requestIDFrom(r.Context()),
	})
}

func sendRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, lunarwatch.ErrorResponse{Error: msg})
}
