package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yt_approval_hub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yt_approval_hub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yt_approval_hub",
			Name:      "logins_total",
			Help:      "Sign-in attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	ApprovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yt_approval_hub",
			Name:      "approvals_total",
			Help:      "Approval attempts by outcome",
		},
		[]string{"outcome"},
	)

	ApprovalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "yt_approval_hub",
			Name:      "approval_duration_seconds",
			Help:      "Duration of the simulated platform upload",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5},
		},
	)

	RejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yt_approval_hub",
			Name:      "rejections_total",
			Help:      "Videos rejected",
		},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yt_approval_hub",
			Name:      "uploads_total",
			Help:      "Upload form events by outcome",
		},
		[]string{"media_type", "outcome"},
	)
)

func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

func RecordLogin(role, outcome string) {
	LoginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordApproval(outcome string, durationSec float64) {
	ApprovalsTotal.WithLabelValues(outcome).Inc()
	if durationSec > 0 {
		ApprovalDuration.Observe(durationSec)
	}
}

func RecordRejection() {
	RejectionsTotal.Inc()
}

// RecordUpload buckets anything that is not a video type as "other" to keep
// client-supplied types out of the label set.
func RecordUpload(mediaType, outcome string) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if !strings.HasPrefix(mediaType, "video/") || len(mediaType) > 64 {
		mediaType = "other"
	}
	UploadsTotal.WithLabelValues(mediaType, outcome).Inc()
}
