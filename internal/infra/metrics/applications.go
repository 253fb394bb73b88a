package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(applicationsStartedTotal, applicationsFinishedTotal, processLatencyMs, otpSubmissionsTotal, unmatchedFieldsTotal)
}

var applicationsStartedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "applications_started_total",
		Help: "Total number of job applications started.",
	},
)

var applicationsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "applications_finished_total",
		Help: "Total number of job applications that reached a terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed', 'cancelled'
)

var processLatencyMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "application_process_latency_ms",
		Help:    "Latency distribution of a single Process step in milliseconds.",
		Buckets: prometheus.ExponentialBuckets(50, 2, 12),
	},
)

var otpSubmissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "otp_submissions_total",
		Help: "Total OTP submissions, labeled by outcome.",
	},
	[]string{"outcome"}, // 'accepted', 'rejected'
)

var unmatchedFieldsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "form_unmatched_fields_total",
		Help: "Total profile keys that could not be matched to a form field.",
	},
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncApplicationStarted() { applicationsStartedTotal.Inc() }

func IncApplicationFinished(status string) {
	applicationsFinishedTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveProcessLatency(ms float64) { processLatencyMs.Observe(ms) }

func IncOTPSubmission(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	otpSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func AddUnmatchedFields(n int) {
	if n > 0 {
		unmatchedFieldsTotal.Add(float64(n))
	}
}
