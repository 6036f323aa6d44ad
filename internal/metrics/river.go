package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// Background job metrics
var (
	// RiverJobsQueued counts inserted jobs by kind
	RiverJobsQueued = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "river_jobs_queued_total",
			Help:      "Total number of River jobs queued",
		},
		[]string{"kind", "queue"},
	)

	// RiverJobsInFlight tracks currently executing jobs
	RiverJobsInFlight = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "river_jobs_in_flight",
			Help:      "Current number of River jobs executing",
		},
		[]string{"kind"},
	)

	// RiverJobDuration tracks one attempt's execution time
	RiverJobDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "river_job_duration_seconds",
			Help:      "River job attempt duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"kind"},
	)

	// RiverJobsCompleted counts finished attempts by result (success|error)
	// and whether the attempt was a retry
	RiverJobsCompleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "river_jobs_completed_total",
			Help:      "Total number of River job attempts completed",
		},
		[]string{"kind", "result", "retry"},
	)
)

// RiverMetricsHook reports job lifecycle metrics. Attempt duration is measured
// from the row's AttemptedAt, which River sets when it fetches the job.
type RiverMetricsHook struct {
	river.HookDefaults
	now func() time.Time
}

func NewRiverMetricsHook() *RiverMetricsHook {
	return &RiverMetricsHook{now: time.Now}
}

func (h *RiverMetricsHook) InsertBegin(ctx context.Context, params *rivertype.JobInsertParams) error {
	queue := params.Queue
	if queue == "" {
		queue = river.QueueDefault
	}
	RiverJobsQueued.WithLabelValues(params.Kind, queue).Inc()
	return nil
}

func (h *RiverMetricsHook) WorkBegin(ctx context.Context, job *rivertype.JobRow) error {
	RiverJobsInFlight.WithLabelValues(job.Kind).Inc()
	return nil
}

func (h *RiverMetricsHook) WorkEnd(ctx context.Context, job *rivertype.JobRow, err error) error {
	RiverJobsInFlight.WithLabelValues(job.Kind).Dec()
	if job.AttemptedAt != nil {
		RiverJobDuration.WithLabelValues(job.Kind).Observe(h.now().Sub(*job.AttemptedAt).Seconds())
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	RiverJobsCompleted.WithLabelValues(job.Kind, result, strconv.FormatBool(job.Attempt > 1)).Inc()
	return nil
}
