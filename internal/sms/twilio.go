package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio rejects alphanumeric sender IDs in some countries with these codes.
const (
	codeInvalidFrom       = 21212
	codeUnsupportedSender = 21612
	twilioProviderLabel   = "twilio"
)

// messageAPI is the subset of the Twilio REST client used here.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends SMS through Twilio's Messages API.
type TwilioSender struct {
	api                 messageAPI
	messagingServiceSID string
	senderID            string
	phoneNumber         string
	logger              zerolog.Logger
}

// NewTwilioSender builds a sender from SMS configuration.
func NewTwilioSender(cfg config.SMSConfig, logger zerolog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(client.Api, cfg, logger)
}

func newTwilioSender(api messageAPI, cfg config.SMSConfig, logger zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		api:                 api,
		messagingServiceSID: cfg.MessagingServiceSID,
		senderID:            cfg.SenderID,
		phoneNumber:         cfg.PhoneNumber,
		logger:              logger.With().Str("component", "sms").Str("provider", twilioProviderLabel).Logger(),
	}
}

// Send delivers body to to. When a sender ID is configured and Twilio rejects
// it, the message is retried once without From so the messaging service or
// account default number is used.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (Result, error) {
	if err := checkRecipient(to); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	defer func() {
		metrics.SMSSendDuration.WithLabelValues(twilioProviderLabel).Observe(time.Since(start).Seconds())
	}()

	from := s.from()
	msg, err := s.api.CreateMessage(s.params(to, body, from))
	if err != nil && from != "" && from == s.senderID && rejectedSender(err) {
		metrics.SMSSenderFallbacksTotal.Inc()
		s.logger.Warn().
			Err(err).
			Str("sender_id", s.senderID).
			Msg("sender ID rejected, retrying without it")
		msg, err = s.api.CreateMessage(s.params(to, body, ""))
	}
	if err != nil {
		return Result{}, fmt.Errorf("twilio send: %w", err)
	}

	var sid string
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.Debug().Str("to", mask(to)).Str("sid", sid).Msg("sms accepted")
	return Result{SID: sid}, nil
}

// from picks the sender: an alphanumeric sender ID when configured, otherwise
// the account phone number unless a messaging service chooses one.
func (s *TwilioSender) from() string {
	if s.senderID != "" {
		return s.senderID
	}
	if s.messagingServiceSID == "" {
		return s.phoneNumber
	}
	return ""
}

func (s *TwilioSender) params(to, body, from string) *openapi.CreateMessageParams {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	if s.messagingServiceSID != "" {
		params.SetMessagingServiceSid(s.messagingServiceSID)
	}
	if from != "" {
		params.SetFrom(from)
	}
	return params
}

func rejectedSender(err error) bool {
	var restErr *twilioclient.TwilioRestError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Code == codeInvalidFrom || restErr.Code == codeUnsupportedSender
}
