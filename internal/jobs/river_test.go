package jobs

import (
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

func TestNewRetryPolicy(t *testing.T) {
	policy := NewRetryPolicy(0)

	if policy.Default.MaxAttempts != defaultMaxAttempts {
		t.Errorf("Default.MaxAttempts = %d, want %d", policy.Default.MaxAttempts, defaultMaxAttempts)
	}

	tests := []struct {
		kind                string
		expectedMaxAttempts int
		expectedBaseDelay   time.Duration
		expectedMaxDelay    time.Duration
	}{
		{
			kind:                JobKindSMSDispatch,
			expectedMaxAttempts: SMSDispatchMaxAttempts,
			expectedBaseDelay:   15 * time.Second,
			expectedMaxDelay:    5 * time.Minute,
		},
		{
			kind:                JobKindRecurringEvents,
			expectedMaxAttempts: RecurringEventsMaxAttempts,
			expectedBaseDelay:   time.Minute,
			expectedMaxDelay:    10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			config, ok := policy.ByKind[tt.kind]
			if !ok {
				t.Fatalf("kind %s not found in ByKind map", tt.kind)
			}
			if config.MaxAttempts != tt.expectedMaxAttempts {
				t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, tt.expectedMaxAttempts)
			}
			if config.BaseDelay != tt.expectedBaseDelay {
				t.Errorf("BaseDelay = %v, want %v", config.BaseDelay, tt.expectedBaseDelay)
			}
			if config.MaxDelay != tt.expectedMaxDelay {
				t.Errorf("MaxDelay = %v, want %v", config.MaxDelay, tt.expectedMaxDelay)
			}
		})
	}
}

func TestNewRetryPolicy_SMSOverride(t *testing.T) {
	policy := NewRetryPolicy(7)
	if got := policy.ByKind[JobKindSMSDispatch].MaxAttempts; got != 7 {
		t.Errorf("sms MaxAttempts = %d, want 7", got)
	}
}

func TestRetryPolicy_NextRetry(t *testing.T) {
	policy := NewRetryPolicy(0)
	attemptedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kind    string
		attempt int
		want    time.Duration
	}{
		{name: "first sms retry", kind: JobKindSMSDispatch, attempt: 1, want: 15 * time.Second},
		{name: "second sms retry doubles", kind: JobKindSMSDispatch, attempt: 2, want: 30 * time.Second},
		{name: "sms retry capped", kind: JobKindSMSDispatch, attempt: 10, want: 5 * time.Minute},
		{name: "zero attempt treated as first", kind: JobKindRecurringEvents, attempt: 0, want: time.Minute},
		{name: "unknown kind uses default", kind: "other", attempt: 2, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &rivertype.JobRow{Kind: tt.kind, Attempt: tt.attempt, AttemptedAt: &attemptedAt}
			got := policy.NextRetry(job)
			if want := attemptedAt.Add(tt.want); !got.Equal(want) {
				t.Errorf("NextRetry() = %v, want %v", got, want)
			}
		})
	}
}

func TestRetryPolicy_NextRetryWithoutAttemptedAt(t *testing.T) {
	policy := NewRetryPolicy(0)
	before := time.Now()
	got := policy.NextRetry(&rivertype.JobRow{Kind: JobKindSMSDispatch, Attempt: 1})
	if got.Before(before.Add(15 * time.Second)) {
		t.Errorf("NextRetry() = %v, want at least 15s after %v", got, before)
	}
}

func TestInsertOpts(t *testing.T) {
	policy := NewRetryPolicy(0)

	opts := policy.InsertOpts(JobKindSMSDispatch)
	if opts.MaxAttempts != SMSDispatchMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", opts.MaxAttempts, SMSDispatchMaxAttempts)
	}
	if opts.Queue != QueueSMS {
		t.Errorf("Queue = %q, want %q", opts.Queue, QueueSMS)
	}

	opts = policy.InsertOpts(JobKindRecurringEvents)
	if opts.Queue != "" {
		t.Errorf("Queue = %q, want default queue", opts.Queue)
	}
}

func TestNewPeriodicJobs(t *testing.T) {
	if jobs := NewPeriodicJobs(0); len(jobs) != 0 {
		t.Errorf("NewPeriodicJobs(0) returned %d jobs, want none", len(jobs))
	}
	if jobs := NewPeriodicJobs(14); len(jobs) != 1 {
		t.Errorf("NewPeriodicJobs(14) returned %d jobs, want 1", len(jobs))
	}
}

func TestNewClientConfig(t *testing.T) {
	policy := NewRetryPolicy(0)
	cfg := NewClientConfig(river.NewWorkers(), policy, nil, zerolog.Nop(), nil, NewPeriodicJobs(7))

	if cfg.MaxAttempts != defaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", cfg.MaxAttempts, defaultMaxAttempts)
	}
	if _, ok := cfg.Queues[QueueSMS]; !ok {
		t.Errorf("queue %q not configured", QueueSMS)
	}
	if len(cfg.PeriodicJobs) != 1 {
		t.Errorf("PeriodicJobs = %d, want 1", len(cfg.PeriodicJobs))
	}
	if cfg.ErrorHandler == nil {
		t.Error("ErrorHandler not set")
	}
}

func TestJobKindConstants(t *testing.T) {
	if (SMSDispatchArgs{}).Kind() != JobKindSMSDispatch {
		t.Errorf("SMSDispatchArgs.Kind() = %q", (SMSDispatchArgs{}).Kind())
	}
	if (RecurringEventsArgs{}).Kind() != JobKindRecurringEvents {
		t.Errorf("RecurringEventsArgs.Kind() = %q", (RecurringEventsArgs{}).Kind())
	}
}
