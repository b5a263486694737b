package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/videotube/backend/internal/api/metrics"
	"github.com/videotube/backend/internal/api/response"
	"github.com/videotube/backend/internal/core/domain"
	"github.com/videotube/backend/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
	stager  *FileStager
}

func NewUserHandler(service ports.UserService, stager *FileStager) *UserHandler {
	return &UserHandler{service: service, stager: stager}
}

// Register handles POST /api/v1/users.
//
// @Summary      Register a new user
// @Description  Creates an account from a multipart form. The avatar file is
// @Description  mandatory; the cover image is optional.
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Param        fullName    formData  string  true   "Display name"
// @Param        email       formData  string  true   "Email address"
// @Param        username    formData  string  true   "Unique handle"
// @Param        password    formData  string  true   "Plain-text password"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201  {object}  response.Success{data=domain.User}
// @Failure      400  {object}  response.Failure
// @Failure      409  {object}  response.Failure
// @Failure      500  {object}  response.Failure
// @Router       /v1/users [post]
func (h *UserHandler) Register(c echo.Context) (err error) {
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(domain.MsgFieldsRequired, bindDetail(err))
	}
	if err := c.Validate(&req); err != nil {
		if fe, ok := err.(fieldErrors); ok {
			return domain.NewValidationError(domain.MsgFieldsRequired, fe...)
		}
		return domain.NewValidationError(domain.MsgFieldsRequired)
	}

	avatar, err := h.stager.Stage(c, formFieldAvatar)
	if err != nil {
		return err
	}
	defer h.stager.Cleanup(avatar.Path)

	cover, err := h.stager.Stage(c, formFieldCoverImage)
	if err != nil {
		return err
	}
	defer h.stager.Cleanup(cover.Path)

	user, err := h.service.Register(c.Request().Context(), ports.RegisterUserInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatar.Path,
		AvatarSize:     avatar.Size,
		CoverImagePath: cover.Path,
		CoverImageSize: cover.Size,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response.OK(http.StatusOK, user, msgUserRegistered))
}

func bindDetail(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
