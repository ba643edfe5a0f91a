package web

import (
	"encoding/json"
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

// Text codes produced by the transport itself.
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeUnexpected = "UNEXPECTED"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code   string            `json:"code"`
	Text   string            `json:"text"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MapError picks the HTTP status and error body for err. Uncategorised
// errors are reported as 500 without leaking their message.
func MapError(err error) (int, Envelope) {
	var e *goerrors.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, fail(CodeUnexpected, "unexpected error", nil)
	}

	code := e.TextCode
	if code == "" {
		code = CodeUnexpected
	}

	switch e.Category {
	case goerrors.CategoryValidation:
		return http.StatusBadRequest, fail(code, e.Message, e.ValidationMap())
	case goerrors.CategoryNotFound:
		return http.StatusNotFound, fail(code, e.Message, nil)
	case goerrors.CategoryConflict:
		return http.StatusConflict, fail(code, e.Message, nil)
	case goerrors.CategoryOperation:
		return http.StatusUnprocessableEntity, fail(code, e.Message, nil)
	}
	return http.StatusInternalServerError, fail(CodeUnexpected, "unexpected error", nil)
}

func fail(code, text string, fields map[string]string) Envelope {
	if len(fields) == 0 {
		fields = nil
	}
	return Envelope{Error: &APIError{Code: code, Text: text, Fields: fields}}
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Data: data})
}

func writeBadRequest(w http.ResponseWriter, text string) {
	writeJSON(w, http.StatusBadRequest, fail(CodeBadRequest, text, nil))
}

func writeNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, fail(domain.CodeNotFound, "no route for "+r.Method+" "+r.URL.Path, nil))
}
