package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "univote/pkg/domain-errors"
)

// WriteJSON serializes v with the given status. Encoding failures are
// swallowed; by the time Encode fails the header is already written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Per-field
// failures render as a {field: message} object and missing-required-key
// failures as an ordered message list; everything else renders as
// {"message": ...}. Internal errors never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}

	status := statusFor(de.Code)
	switch {
	case len(de.Fields) > 0:
		WriteJSON(w, status, de.Fields)
	case len(de.Missing) > 0:
		WriteJSON(w, status, de.Missing)
	case de.Code == dErrors.CodeInternal:
		WriteJSON(w, status, map[string]string{"message": "internal server error"})
	default:
		WriteJSON(w, status, map[string]string{"message": de.Message})
	}
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a request body, rejecting empty bodies with the given
// message so endpoints can keep their original "information missing" texts.
func DecodeJSON(r *http.Request, v any, emptyMessage string) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeValidation, emptyMessage)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.New(dErrors.CodeValidation, emptyMessage)
	}
	return nil
}
