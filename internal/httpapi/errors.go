package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"

	"mnnrunner/internal/runerr"
	"mnnrunner/pkg/types"
)

// statusForKind maps an error kind to its HTTP status.
func statusForKind(k runerr.Kind) int {
	switch k {
	case runerr.Arg:
		return http.StatusBadRequest
	case runerr.Model:
		return http.StatusNotFound
	case runerr.Info:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status for its kind.
func writeError(w http.ResponseWriter, err error) int {
	kind := runerr.KindOf(err)
	if kind == "" {
		kind = runerr.Run
	}
	status := statusForKind(kind)
	IncrementErrorKind(string(kind))
	writeJSONError(w, status, string(kind), runerr.Message(err))
	return status
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Kind: kind, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}
