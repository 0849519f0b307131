package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/leefowlercu/codedoc/internal/docgen"
	"github.com/leefowlercu/codedoc/internal/metrics"
	"github.com/leefowlercu/codedoc/internal/narrator"
)

// Error messages returned to clients.
const (
	MsgInvalidPayload  = "Invalid JSON payload."
	MsgMissingFields   = `Missing "code" or "language" in request.`
	MsgNothingParsed   = "Could not parse any code from the provided text."
	MsgGenerationError = "An error occurred during generation: "
)

const maxRequestBytes = 4 << 20

var (
	errInvalidPayload = errors.New("invalid payload")
	errMissingFields  = errors.New("code or language is null")
)

type errorResponse struct {
	Error string `json:"error"`
}

type generateResponse struct {
	Documentation string `json:"documentation"`
}

// LivezResponse is the response format for /healthz.
type LivezResponse struct {
	Status string `json:"status"`
}

// ReadyzResponse is the response format for /readyz.
type ReadyzResponse struct {
	Status string        `json:"status"`
	Ready  bool          `json:"ready"`
	Uptime time.Duration `json:"uptime"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivezResponse{Status: "alive"})
}

// handleReadyz returns 503 while the text provider cannot be used.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	resp := ReadyzResponse{Status: "ready", Ready: true, Uptime: time.Since(s.startedAt)}

	if s.readiness != nil {
		if err := s.readiness(); err != nil {
			resp.Status = "not_ready"
			resp.Ready = false
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := decodeGenerateRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		message := MsgInvalidPayload
		if errors.Is(err, errMissingFields) {
			message = MsgMissingFields
		}
		metrics.RecordRequest(metrics.OutcomeClientError, time.Since(start))
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}

	resp, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		status, message := errorStatus(err)
		outcome := metrics.OutcomeServerError
		if status < http.StatusInternalServerError {
			outcome = metrics.OutcomeClientError
		} else {
			s.logger.Error("documentation generation failed",
				"request_id", RequestIDFrom(r.Context()),
				"error", err,
			)
		}
		metrics.RecordRequest(outcome, time.Since(start))
		writeJSONError(w, status, message)
		return
	}

	metrics.RecordRequest(metrics.OutcomeSuccess, time.Since(start))
	writeJSON(w, http.StatusOK, generateResponse{Documentation: resp.Documentation})
}

// errorStatus maps a Generate error to its HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, docgen.ErrInvalidRequest):
		return http.StatusBadRequest, MsgMissingFields
	case errors.Is(err, docgen.ErrNothingParsed):
		return http.StatusBadRequest, MsgNothingParsed
	case errors.Is(err, narrator.ErrNotConfigured):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, MsgGenerationError + err.Error()
	}
}

// decodeGenerateRequest requires a JSON object carrying string "code" and
// "language" keys; an absent key or a non-string value is an invalid payload.
// A null code or language is reported as missing. Empty strings pass through
// to the service: empty code is "nothing parsed", empty language is missing.
func decodeGenerateRequest(body io.Reader) (docgen.Request, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil || fields == nil {
		return docgen.Request{}, errInvalidPayload
	}

	var (
		req     docgen.Request
		missing bool
	)
	for key, dst := range map[string]*string{"code": &req.Code, "language": &req.Language, "style": &req.Style} {
		raw, ok := fields[key]
		if !ok {
			if key == "style" {
				continue
			}
			return docgen.Request{}, errInvalidPayload
		}
		var value *string
		if err := json.Unmarshal(raw, &value); err != nil {
			return docgen.Request{}, errInvalidPayload
		}
		switch {
		case value != nil:
			*dst = *value
		case key != "style":
			missing = true
		}
	}

	if missing {
		return docgen.Request{}, errMissingFields
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
