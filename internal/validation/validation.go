package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Error is a field-level validation failure. Handlers map it to 400.
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err wraps an Error.
func IsValidationError(err error) bool {
	var verr Error
	return errors.As(err, &verr)
}

var phonePattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// Required fails when value is blank after trimming.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Error{Field: field, Message: "is required"}
	}
	return nil
}

// OneOf fails when value is not in allowed.
func OneOf[T ~string](field string, value T, allowed ...T) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return Error{Field: field, Message: "must be one of " + strings.Join(names, ", ")}
}

// NonNegative fails when value < 0.
func NonNegative(field string, value int) error {
	if value < 0 {
		return Error{Field: field, Message: "must not be negative"}
	}
	return nil
}

// NormalizePhone strips spaces, dashes, dots and parentheses from a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// Phone validates an E.164 number such as +3545550101.
func Phone(field, phone string) error {
	if !strings.HasPrefix(phone, "+") {
		return Error{Field: field, Message: "must start with + and a country code"}
	}
	if !phonePattern.MatchString(phone) {
		return Error{Field: field, Message: "must be an E.164 phone number"}
	}
	return nil
}

// URL validates an optional http(s) URL. Empty is allowed.
func URL(field, value string) error {
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return Error{Field: field, Message: "invalid URL format"}
	}
	if parsed.Scheme == "" {
		return Error{Field: field, Message: "URL must include a scheme (http:// or https://)"}
	}
	if parsed.Host == "" {
		return Error{Field: field, Message: "URL must include a host"}
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return Error{Field: field, Message: "URL scheme must be http or https"}
	}
	return nil
}
