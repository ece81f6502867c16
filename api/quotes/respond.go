package quotes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/quoting"
)

var errBadBody = errors.New("malformed request body")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]ErrorBody{"error": {Code: code, Message: msg}})
}

// fail maps domain errors to HTTP statuses. Unexpected errors are reported
// to the monitor.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(verrs))
	case errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, model.ErrMultipleActiveFuels):
		writeError(w, http.StatusBadRequest, "multiple_active_fuels", err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, model.ErrInvalidVehicle):
		writeError(w, http.StatusBadRequest, "invalid_vehicle", err.Error())
	case errors.Is(err, quoting.ErrUnknownVehicle):
		writeError(w, http.StatusNotFound, "unknown_vehicle", err.Error())
	default:
		h.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		h.monitor.CaptureException(err, map[string]string{"component": "api", "path": r.URL.Path})
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, field+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, field+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}

// decode reads a JSON body into dst and validates its tags.
func (h *handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return h.validate.Struct(dst)
}
