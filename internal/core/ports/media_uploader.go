package ports

import (
	"context"

	"github.com/videotube/backend/internal/core/domain"
)

// MediaUploader pushes a locally staged file to the remote media host.
// Any failure, including an empty path, is returned as an error.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (*domain.UploadedMedia, error)
}
