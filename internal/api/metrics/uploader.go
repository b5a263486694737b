package metrics

import (
	"context"
	"time"

	"github.com/videotube/backend/internal/core/domain"
	"github.com/videotube/backend/internal/core/ports"
)

type instrumentedUploader struct {
	next ports.MediaUploader
}

// InstrumentUploader records upload count, latency and size around next.
func InstrumentUploader(next ports.MediaUploader) ports.MediaUploader {
	return &instrumentedUploader{next: next}
}

func (u *instrumentedUploader) Upload(ctx context.Context, localPath string) (*domain.UploadedMedia, error) {
	start := time.Now()
	media, err := u.next.Upload(ctx, localPath)
	MediaUploadDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		MediaUploadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	MediaUploadsTotal.WithLabelValues("ok").Inc()
	if media != nil {
		MediaUploadBytes.Observe(float64(media.Size))
	}
	return media, nil
}
