package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/models"
	"github.com/avelez/photodeck-be/internal/services"
)

// stubUserService implements the parts of UserServiceProvider the handler
// tests exercise; everything else panics via the embedded nil interface.
type stubUserService struct {
	services.UserServiceProvider
	loginFn func(ctx context.Context, username, password string) (services.LoginResult, error)
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (services.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

type stubImageService struct {
	services.ImageServiceProvider
	uploadFn  func(ctx context.Context, upload services.ImageUpload) (models.ImageAsset, error)
	getDataFn func(ctx context.Context, directory, fileName string) ([]byte, string, error)
}

func (s *stubImageService) Upload(ctx context.Context, upload services.ImageUpload) (models.ImageAsset, error) {
	return s.uploadFn(ctx, upload)
}

func (s *stubImageService) GetData(ctx context.Context, directory, fileName string) ([]byte, string, error) {
	return s.getDataFn(ctx, directory, fileName)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&stubUserService{
		loginFn: func(_ context.Context, username, password string) (services.LoginResult, error) {
			return services.LoginResult{
				Token:     "tok",
				TokenType: "bearer",
				User:      models.User{ID: "u1", Username: username},
			}, nil
		},
	})

	body := strings.NewReader(`{"username":"alice","password":"password1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "tok", result.Token)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, "alice", result.User.Username)
}

func TestLogin_UnauthorizedIsUniform(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&stubUserService{
		loginFn: func(context.Context, string, string) (services.LoginResult, error) {
			return services.LoginResult{}, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
		},
	})

	body := strings.NewReader(`{"username":"alice","password":"wrong"}`)
	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// The body must not hint at which part of the credentials failed.
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestLogin_BadBody(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&stubUserService{})
	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not-json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, fileName, contentType, directory string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("directory_name", directory))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_ErrorKindMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.New(apperrors.KindValidation, "bad extension"), http.StatusBadRequest},
		{"duplicate", apperrors.New(apperrors.KindConflict, "name taken"), http.StatusConflict},
		{"storage", apperrors.New(apperrors.KindStorage, "backend down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewImageHandler(&stubImageService{
				uploadFn: func(context.Context, services.ImageUpload) (models.ImageAsset, error) {
					return models.ImageAsset{}, tt.err
				},
			})

			rec := httptest.NewRecorder()
			handler.Upload(rec, multipartUpload(t, "a.png", "image/png", "trip", []byte("x")))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusInternalServerError {
				// Internal detail must not leak.
				assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
			}
		})
	}
}

func TestUpload_PassesFormFieldsThrough(t *testing.T) {
	t.Parallel()

	var got services.ImageUpload
	handler := NewImageHandler(&stubImageService{
		uploadFn: func(_ context.Context, upload services.ImageUpload) (models.ImageAsset, error) {
			got = upload
			return models.ImageAsset{FileName: "key.png"}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "photo.png", "image/png", "trip", []byte("bytes")))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "photo.png", got.FileName)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "trip", got.Directory)
	assert.Equal(t, []byte("bytes"), got.Data)
}

func TestServe_SetsContentType(t *testing.T) {
	t.Parallel()

	handler := NewImageHandler(&stubImageService{
		getDataFn: func(context.Context, string, string) ([]byte, string, error) {
			return []byte{0x89, 0x50}, "image/png", nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/images/trip/key.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 0x50}, rec.Body.Bytes())
}
