// Package metrics defines and registers the custom Prometheus metrics of the
// videotube API. HTTP request metrics come from echoprometheus; this package
// covers the registration workflow and media uploads.
//
// Metrics register with the default registry at package init.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/videotube/backend/internal/core/domain"
)

const namespace = "videotube"

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - outcome: "created", "validation_error", "conflict", or "internal_error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadsTotal counts uploads to the media host.
// Label:
//   - result: "ok" or "error"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads, by result.",
	},
	[]string{"result"},
)

// MediaUploadDuration measures a single upload from open to remote ack.
var MediaUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_duration_seconds",
		Help:      "Duration of media uploads to the remote host.",
		Buckets:   prometheus.DefBuckets,
	},
)

// MediaUploadBytes tracks the size of successfully uploaded files.
var MediaUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_bytes",
		Help:      "Size in bytes of uploaded media files.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 7), // 16KiB … 64MiB
	},
)

// Outcome maps a registration result to the RegistrationsTotal label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal_error"
	}
}
