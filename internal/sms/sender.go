// Package sms delivers text messages to staff phones.
package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidNumber is returned for recipients that are not in international format.
var ErrInvalidNumber = errors.New("phone number must start with + and a country code")

// Result describes an accepted message.
type Result struct {
	SID string
}

// Sender sends a single SMS.
type Sender interface {
	Send(ctx context.Context, to, body string) (Result, error)
}

func checkRecipient(to string) error {
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, to)
	}
	return nil
}

// LogSender writes messages to the log instead of a provider. It is used when
// SMS delivery is disabled.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "sms").Str("provider", "log").Logger()}
}

func (s *LogSender) Send(ctx context.Context, to, body string) (Result, error) {
	if err := checkRecipient(to); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	sid := "LOG" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.logger.Info().
		Str("to", mask(to)).
		Int("length", len(body)).
		Str("sid", sid).
		Msg("sms delivery disabled, message logged")
	metrics.SMSSendDuration.WithLabelValues("log").Observe(time.Since(start).Seconds())
	return Result{SID: sid}, nil
}

// mask keeps the country code and last three digits of a phone number.
func mask(phone string) string {
	if len(phone) <= 7 {
		return phone
	}
	return phone[:4] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-3:]
}
