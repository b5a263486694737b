package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/core/domain"
	"github.com/videotube/backend/internal/core/ports"
)

const bcryptMaxBytes = 72

// UserService implements account registration.
type UserService struct {
	repo          ports.UserRepository
	uploader      ports.MediaUploader
	log           zerolog.Logger
	bcryptCost    int
	maxUploadSize int64 // per file; <= 0 disables the check
	now           func() time.Time
}

// Option configures a UserService.
type Option func(*UserService)

// WithMaxUploadSize rejects avatar or cover files larger than n bytes.
func WithMaxUploadSize(n int64) Option {
	return func(s *UserService) { s.maxUploadSize = n }
}

func NewUserService(repo ports.UserRepository, uploader ports.MediaUploader, log zerolog.Logger, opts ...Option) *UserService {
	s := &UserService{
		repo:       repo,
		uploader:   uploader,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the input, rejects duplicates, uploads the images and
// persists the user. The returned user is the sanitized read-back.
//
// There is no compensation: images uploaded before a later failure stay on
// the media host.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	if isBlank(in.FullName, in.Email, in.Username, in.Password) {
		return nil, domain.NewValidationError(domain.MsgFieldsRequired)
	}

	existing, err := s.repo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.NewConflictError(domain.MsgUserExists)
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup existing user: %w", err)
	}

	if in.AvatarPath == "" {
		return nil, domain.NewValidationError(domain.MsgAvatarRequired)
	}
	if s.tooLarge(in.AvatarSize) {
		return nil, domain.NewValidationError(domain.MsgAvatarTooLarge)
	}
	if in.CoverImagePath != "" && s.tooLarge(in.CoverImageSize) {
		return nil, domain.NewValidationError(domain.MsgCoverTooLarge)
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	// Both uploads run; neither cancels the other.
	avatar, avatarErr := s.uploader.Upload(ctx, in.AvatarPath)
	var cover *domain.UploadedMedia
	if in.CoverImagePath != "" {
		var coverErr error
		cover, coverErr = s.uploader.Upload(ctx, in.CoverImagePath)
		if coverErr != nil {
			s.log.Warn().Err(coverErr).Str("username", in.Username).Msg("cover image upload failed, continuing without it")
			cover = nil
		}
	}

	if avatarErr != nil || avatar == nil || avatar.URL == "" {
		s.log.Warn().Err(avatarErr).Str("username", in.Username).Msg("avatar upload failed")
		return nil, domain.NewValidationError(domain.MsgAvatarRequired)
	}

	coverURL := ""
	if cover != nil {
		coverURL = cover.URL
	}

	now := s.now()
	user := &domain.User{
		Username:   strings.ToLower(in.Username),
		Email:      in.Email,
		FullName:   in.FullName,
		Avatar:     avatar.URL,
		CoverImage: coverURL,
		Password:   string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewConflictError(domain.MsgUserExists)
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	created, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewInternalError(domain.MsgRegisterFailed, err)
		}
		return nil, fmt.Errorf("register: read back user: %w", err)
	}
	if created == nil {
		return nil, domain.NewInternalError(domain.MsgRegisterFailed, nil)
	}

	// The projection already drops these; clear them in case a store ignores it.
	created.Password = ""
	created.RefreshToken = ""

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *UserService) tooLarge(size int64) bool {
	return s.maxUploadSize > 0 && size > s.maxUploadSize
}

// bcryptInput returns the bytes fed to bcrypt. Passwords longer than bcrypt's
// 72-byte limit are reduced to base64(sha256(password)) first.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// isBlank reports whether any field is empty after trimming whitespace.
func isBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
