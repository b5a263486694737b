package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/videotube/backend/internal/core/domain"
	"github.com/videotube/backend/internal/core/ports"
)

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error)
	calls      int
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	s.calls++
	return s.registerFn(ctx, in)
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"fullName": "Jane Doe",
		"email":    "jane@x.io",
		"username": "JaneD",
		"password": "pw123",
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestUserHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	dir := t.TempDir()

	var staged ports.RegisterUserInput
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
			staged = in
			data, err := os.ReadFile(in.AvatarPath)
			if err != nil {
				t.Fatalf("avatar not staged: %v", err)
			}
			if string(data) != "PNGDATA" {
				t.Fatalf("unexpected staged content: %q", data)
			}
			return &domain.User{
				ID:       "652f0c",
				Username: "janed",
				Email:    in.Email,
				FullName: in.FullName,
				Avatar:   "https://media.example/a.png",
				Password: "hash",
			}, nil
		},
	}
	h := NewUserHandler(stub, NewFileStager(dir))

	req := multipartRequest(t, validFields(), formFile{"avatar", "a.png", []byte("PNGDATA")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if staged.Username != "JaneD" || staged.Password != "pw123" || staged.FullName != "Jane Doe" {
		t.Fatalf("unexpected input: %+v", staged)
	}
	if staged.CoverImagePath != "" {
		t.Fatalf("expected no cover path, got %q", staged.CoverImagePath)
	}
	if _, err := os.Stat(staged.AvatarPath); !os.IsNotExist(err) {
		t.Fatalf("staged avatar should be removed after the request, stat err: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["statusCode"] != float64(200) || resp["success"] != true || resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", resp["data"])
	}
	if data["_id"] != "652f0c" || data["username"] != "janed" {
		t.Fatalf("unexpected data: %+v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Fatalf("password must not be rendered: %+v", data)
	}
}

func TestUserHandler_Register_StagesCoverImage(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
			if in.AvatarPath == "" || in.CoverImagePath == "" {
				t.Fatalf("expected both files staged: %+v", in)
			}
			if !strings.HasSuffix(in.CoverImagePath, "-c.jpg") {
				t.Fatalf("cover path should keep the client file name: %q", in.CoverImagePath)
			}
			return &domain.User{ID: "1"}, nil
		},
	}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	req := multipartRequest(t, validFields(),
		formFile{"avatar", "a.png", []byte("a")},
		formFile{"coverImage", "c.jpg", []byte("c")},
	)
	rec := httptest.NewRecorder()
	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Register_MissingField(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	fields := validFields()
	fields["email"] = "   "
	req := multipartRequest(t, fields, formFile{"avatar", "a.png", []byte("a")})
	rec := httptest.NewRecorder()

	err := h.Register(e.NewContext(req, rec))
	var de *domain.Error
	if !asDomainError(err, &de) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if de.StatusCode() != http.StatusBadRequest || de.Message != domain.MsgFieldsRequired {
		t.Fatalf("unexpected error: %+v", de)
	}
	if len(de.Details) != 1 || de.Details[0] != "email is required" {
		t.Fatalf("unexpected details: %v", de.Details)
	}
	if stub.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestUserHandler_Register_NoAvatarPassesEmptyPath(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
			if in.AvatarPath != "" {
				t.Fatalf("expected empty avatar path, got %q", in.AvatarPath)
			}
			return nil, domain.NewValidationError(domain.MsgAvatarRequired)
		},
	}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	req := multipartRequest(t, validFields())
	err := h.Register(e.NewContext(req, httptest.NewRecorder()))

	var de *domain.Error
	if !asDomainError(err, &de) || de.Message != domain.MsgAvatarRequired {
		t.Fatalf("expected avatar error, got %v", err)
	}
}

func TestUserHandler_Register_PassesStagedSizes(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
			if in.AvatarSize != 9 || in.CoverImageSize != 3 {
				t.Fatalf("unexpected sizes: avatar=%d cover=%d", in.AvatarSize, in.CoverImageSize)
			}
			return &domain.User{ID: "1"}, nil
		},
	}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	req := multipartRequest(t, validFields(),
		formFile{"avatar", "a.png", []byte("too large")},
		formFile{"coverImage", "c.png", []byte("abc")},
	)
	if err := h.Register(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 service call, got %d", stub.calls)
	}
}

func TestUserHandler_Register_ServiceErrorPassesThrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
			return nil, domain.NewConflictError(domain.MsgUserExists)
		},
	}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	req := multipartRequest(t, validFields(), formFile{"avatar", "a.png", []byte("a")})
	err := h.Register(e.NewContext(req, httptest.NewRecorder()))

	var de *domain.Error
	if !asDomainError(err, &de) || de.StatusCode() != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserHandler_Register_MalformedJSON(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{}
	h := NewUserHandler(stub, NewFileStager(t.TempDir()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"fullName":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := h.Register(e.NewContext(req, httptest.NewRecorder()))

	var de *domain.Error
	if !asDomainError(err, &de) || de.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400 domain error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func asDomainError(err error, target **domain.Error) bool {
	de, ok := err.(*domain.Error)
	if ok {
		*target = de
	}
	return ok
}
