package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// FileStager copies multipart files into a local temp directory so the
// media uploader can read them by path.
type FileStager struct {
	dir string
}

func NewFileStager(dir string) *FileStager {
	return &FileStager{dir: dir}
}

// StagedFile is a multipart file written to local disk. The zero value means
// the request carried no such file.
type StagedFile struct {
	Path string
	Size int64
}

// Stage writes the first file of field to disk. Size limits are enforced by
// the registration workflow, not here.
func (s *FileStager) Stage(c echo.Context, field string) (StagedFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return StagedFile{}, nil
		}
		return StagedFile{}, fmt.Errorf("read %s: %w", field, err)
	}

	src, err := fh.Open()
	if err != nil {
		return StagedFile{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StagedFile{}, fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+"-"+safeName(fh.Filename))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create staged %s: %w", field, err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return StagedFile{}, fmt.Errorf("write staged %s: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return StagedFile{}, fmt.Errorf("close staged %s: %w", field, err)
	}
	return StagedFile{Path: path, Size: n}, nil
}

// Cleanup removes staged files, ignoring empty paths and missing files.
func (s *FileStager) Cleanup(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// safeName keeps only the base name of a client-supplied filename.
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
