package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"bloghub/internal/common"
	"bloghub/internal/logutil"

	"github.com/go-playground/validator/v10"
)

const msgInvalidEmail = "Please enter a valid email address."

// newValidator reports fields by their `label` tag so messages read naturally.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// fail handles errors that are not shown on the originating form.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logutil.GetOrDefault(r.Context())

	switch status := common.StatusFromError(err); status {
	case http.StatusForbidden:
		redirect(w, r, "/not-admin")
	case http.StatusNotFound:
		logger.Debug().Err(err).Msg("stale resource id")
		redirect(w, r, "/error")
	default:
		logger.Error().Err(err).Int("status", status).Msg("request failed")
		redirect(w, r, "/error")
	}
}

// formMessage returns the message to re-render a form with, or false when err
// is not something the user can fix.
func formMessage(err error) (string, bool) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return common.MsgMissingFields, true
		case "email":
			return msgInvalidEmail, true
		case "max":
			return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param()), true
		case "eqfield":
			return common.MsgPasswordMismatch, true
		}
		return common.MsgMissingFields, true
	}
	if msg, ok := common.AsValidation(err); ok {
		return msg, true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
