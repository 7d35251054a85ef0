package runconfig

import (
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"mnnrunner/internal/runerr"
	"mnnrunner/pkg/types"
)

// Request is a run request as supplied by the caller. Every field is
// optional at this layer; Normalize enforces what is required. Unknown JSON
// fields are ignored.
type Request = types.RunRequest

// Decode reads one JSON request from rd. Malformed JSON is an ARG error.
func Decode(rd io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return Request{}, runerr.ErrArg("empty request")
		}
		return Request{}, runerr.Wrap(runerr.Arg, "invalid request", err)
	}
	return req, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (Request, error) {
	var req Request
	if len(strings.TrimSpace(string(b))) == 0 {
		return Request{}, runerr.ErrArg("empty request")
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return Request{}, runerr.Wrap(runerr.Arg, "invalid request", err)
	}
	return req, nil
}
