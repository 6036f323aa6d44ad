package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/api/problem"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/go-playground/validator/v10"
)

var notFoundErrors = []error{
	events.ErrNotFound,
	meetings.ErrNotFound,
	tasks.ErrNotFound,
	staff.ErrNotFound,
	expenses.ErrNotFound,
	templates.ErrNotFound,
	notifications.ErrNotFound,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, env string, err error) {
	var verr validation.Error
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env,
			problem.WithErrors(map[string]any{verr.Field: verr.Message}))
	case errors.As(err, &tooLarge):
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.TypeTooLarge, "Request body too large", err, env)
	case isNotFound(err):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
	}
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads one JSON object into dst, rejecting unknown fields and
// trailing data, then runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validation.Error{Field: "body", Message: "must contain a single JSON object"}
	}
	return validateStruct(dst)
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	var verr validation.Error
	switch {
	case errors.As(err, &tooLarge):
		return err
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, io.EOF):
		return validation.Error{Field: "body", Message: "is required"}
	case errors.As(err, &syntaxErr):
		return validation.Error{Field: "body", Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &typeErr):
		return validation.Error{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return validation.Error{Field: field, Message: "is not a known field"}
	default:
		return validation.Error{Field: "body", Message: err.Error()}
	}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return validation.Error{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

// pathID parses a positive integer path wildcard.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Error{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter; absent is 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Error{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Date accepts RFC 3339 timestamps as well as the datetime-local and plain
// date forms browsers submit. Values without an offset are read as UTC. An
// empty string decodes to the zero time, which clears optional dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return validation.Error{Field: "date", Message: "must be a date string"}
	}
	if strings.TrimSpace(raw) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validation.Error{Field: "date", Message: "must be an RFC 3339 timestamp or YYYY-MM-DD"}
}

// timePtr converts an optional Date.
func timePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
