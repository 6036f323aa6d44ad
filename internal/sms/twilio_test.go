package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	calls []*openapi.CreateMessageParams
	errs  []error
}

func (f *fakeAPI) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.calls = append(f.calls, params)
	if n := len(f.calls) - 1; n < len(f.errs) && f.errs[n] != nil {
		return nil, f.errs[n]
	}
	sid := "SM0001"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestTwilioSenderUsesSenderID(t *testing.T) {
	api := &fakeAPI{}
	sender := newTwilioSender(api, config.SMSConfig{SenderID: "Glee", PhoneNumber: "+15550001111"}, zerolog.Nop())

	res, err := sender.Send(context.Background(), "+3546901234", "Pizza at noon")
	require.NoError(t, err)
	require.Equal(t, "SM0001", res.SID)
	require.Len(t, api.calls, 1)
	require.Equal(t, "Glee", deref(api.calls[0].From))
	require.Equal(t, "+3546901234", deref(api.calls[0].To))
	require.Equal(t, "Pizza at noon", deref(api.calls[0].Body))
}

func TestTwilioSenderFromSelection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.SMSConfig
		wantFrom    string
		wantService string
	}{
		{name: "phone number only", cfg: config.SMSConfig{PhoneNumber: "+15550001111"}, wantFrom: "+15550001111"},
		{name: "messaging service picks number", cfg: config.SMSConfig{MessagingServiceSID: "MG1", PhoneNumber: "+15550001111"}, wantService: "MG1"},
		{name: "sender id with messaging service", cfg: config.SMSConfig{MessagingServiceSID: "MG1", SenderID: "Glee"}, wantFrom: "Glee", wantService: "MG1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			_, err := newTwilioSender(api, tt.cfg, zerolog.Nop()).Send(context.Background(), "+3546901234", "hi")
			require.NoError(t, err)
			require.Equal(t, tt.wantFrom, deref(api.calls[0].From))
			require.Equal(t, tt.wantService, deref(api.calls[0].MessagingServiceSid))
		})
	}
}

func TestTwilioSenderRetriesWithoutRejectedSenderID(t *testing.T) {
	for _, code := range []int{21212, 21612} {
		api := &fakeAPI{errs: []error{&twilioclient.TwilioRestError{Code: code, Message: "invalid From"}}}
		sender := newTwilioSender(api, config.SMSConfig{SenderID: "Glee", MessagingServiceSID: "MG1"}, zerolog.Nop())

		res, err := sender.Send(context.Background(), "+15551234567", "hi")
		require.NoError(t, err)
		require.Equal(t, "SM0001", res.SID)
		require.Len(t, api.calls, 2)
		require.Nil(t, api.calls[1].From)
		require.Equal(t, "MG1", deref(api.calls[1].MessagingServiceSid))
	}
}

func TestTwilioSenderDoesNotRetryOtherErrors(t *testing.T) {
	api := &fakeAPI{errs: []error{&twilioclient.TwilioRestError{Code: 21211, Message: "invalid To"}}}
	sender := newTwilioSender(api, config.SMSConfig{SenderID: "Glee"}, zerolog.Nop())

	_, err := sender.Send(context.Background(), "+15551234567", "hi")
	require.Error(t, err)
	require.Len(t, api.calls, 1)

	var restErr *twilioclient.TwilioRestError
	require.True(t, errors.As(err, &restErr))
	require.Equal(t, 21211, restErr.Code)
}

func TestSendersRejectLocalNumbers(t *testing.T) {
	api := &fakeAPI{}
	_, err := newTwilioSender(api, config.SMSConfig{PhoneNumber: "+15550001111"}, zerolog.Nop()).Send(context.Background(), "6901234", "hi")
	require.ErrorIs(t, err, ErrInvalidNumber)
	require.Empty(t, api.calls)

	_, err = NewLogSender(zerolog.Nop()).Send(context.Background(), "6901234", "hi")
	require.ErrorIs(t, err, ErrInvalidNumber)
}

func TestLogSender(t *testing.T) {
	res, err := NewLogSender(zerolog.Nop()).Send(context.Background(), "+3546901234", "hi")
	require.NoError(t, err)
	require.Regexp(t, `^LOG[0-9a-f]{32}$`, res.SID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLogSender(zerolog.Nop()).Send(ctx, "+3546901234", "hi")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMask(t *testing.T) {
	require.Equal(t, "+354****234", mask("+3546901234"))
	require.Equal(t, "+1234", mask("+1234"))
}
