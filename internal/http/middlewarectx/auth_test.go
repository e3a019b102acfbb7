package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// UserProviderMock реализует middlewarectx.UserProvider
type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserProviderMock) TouchLastActivity(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestMaker() *jwtlib.MakerImpl {
	return jwtlib.NewMaker("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func activeUser() *models.User {
	return &models.User{
		UID:           "uid-1",
		Email:         "user@example.com",
		Username:      "testuser",
		Role:          models.RoleUser,
		Permissions:   models.NewPermissionSet(),
		IsActive:      true,
		EmailVerified: true,
	}
}

func TestAuthenticate(t *testing.T) {
	maker := newTestMaker()
	logger := newNoopLogger()

	validToken, err := maker.GenerateAccessToken(activeUser())
	assert.NoError(t, err)

	expiredMaker := jwtlib.NewMaker("access-secret", "refresh-secret", -time.Hour, 24*time.Hour)
	expiredToken, err := expiredMaker.GenerateAccessToken(activeUser())
	assert.NoError(t, err)

	refreshToken, err := maker.GenerateRefreshToken(activeUser())
	assert.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		authHeader string
		setupMock  func(*UserProviderMock)
		wantStatus int
		wantBody   string
		wantCalled bool
	}{
		{
			name:       "отсутствует заголовок Authorization",
			method:     http.MethodGet,
			authHeader: "",
			setupMock:  func(_ *UserProviderMock) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"authentication required"`,
		},
		{
			name:       "заголовок без префикса Bearer",
			method:     http.MethodGet,
			authHeader: "Basic abc",
			setupMock:  func(_ *UserProviderMock) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"authentication required"`,
		},
		{
			name:       "мусор вместо токена",
			method:     http.MethodGet,
			authHeader: "Bearer not-a-token",
			setupMock:  func(_ *UserProviderMock) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"invalid token"`,
		},
		{
			name:       "истёкший токен отличим от невалидного",
			method:     http.MethodGet,
			authHeader: "Bearer " + expiredToken,
			setupMock:  func(_ *UserProviderMock) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"token expired"`,
		},
		{
			name:       "refresh-токен не проходит как access",
			method:     http.MethodGet,
			authHeader: "Bearer " + refreshToken,
			setupMock:  func(_ *UserProviderMock) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"invalid token"`,
		},
		{
			name:       "пользователь из токена не найден",
			method:     http.MethodGet,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, "uid-1").Return(nil, errors.New("not found"))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"invalid token"`,
		},
		{
			name:       "хранилище вернуло nil без ошибки",
			method:     http.MethodGet,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, "uid-1").Return(nil, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"invalid token"`,
		},
		{
			name:       "деактивированная учётная запись",
			method:     http.MethodGet,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				user := activeUser()
				user.IsActive = false
				m.On("GetUser", mock.Anything, "uid-1").Return(user, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"account deactivated"`,
		},
		{
			name:       "неподтверждённая почта блокирует POST",
			method:     http.MethodPost,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				user := activeUser()
				user.EmailVerified = false
				m.On("GetUser", mock.Anything, "uid-1").Return(user, nil)
			},
			wantStatus: http.StatusForbidden,
			wantBody:   `"message":"email verification required"`,
		},
		{
			name:       "неподтверждённая почта пропускает GET",
			method:     http.MethodGet,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				user := activeUser()
				user.EmailVerified = false
				m.On("GetUser", mock.Anything, "uid-1").Return(user, nil)
				m.On("TouchLastActivity", mock.Anything, "uid-1").Return(nil)
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "ошибка обновления активности не прерывает запрос",
			method:     http.MethodGet,
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, "uid-1").Return(activeUser(), nil)
				m.On("TouchLastActivity", mock.Anything, "uid-1").Return(errors.New("db down"))
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providerMock := new(UserProviderMock)
			tt.setupMock(providerMock)

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				user, ok := middlewarectx.UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "uid-1", user.UID)
				uid, ok := middlewarectx.UserUIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "uid-1", uid)
				w.WriteHeader(http.StatusOK)
			})

			handler := middlewarectx.Authenticate(logger, maker, providerMock)(next)

			req := httptest.NewRequest(tt.method, "/api/v1/tenders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
			providerMock.AssertExpectations(t)
		})
	}
}

func TestAuthenticateOptional(t *testing.T) {
	maker := newTestMaker()
	logger := newNoopLogger()

	validToken, err := maker.GenerateAccessToken(activeUser())
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(*UserProviderMock)
		wantInfo   bool
	}{
		{
			name:       "анонимный запрос проходит без профиля",
			authHeader: "",
			setupMock:  func(_ *UserProviderMock) {},
			wantInfo:   false,
		},
		{
			name:       "невалидный токен не отклоняет запрос",
			authHeader: "Bearer garbage",
			setupMock:  func(_ *UserProviderMock) {},
			wantInfo:   false,
		},
		{
			name:       "деактивированный пользователь проходит анонимно",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				user := activeUser()
				user.IsActive = false
				m.On("GetUser", mock.Anything, "uid-1").Return(user, nil)
			},
			wantInfo: false,
		},
		{
			name:       "валидный токен прикладывает профиль",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, "uid-1").Return(activeUser(), nil)
			},
			wantInfo: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providerMock := new(UserProviderMock)
			tt.setupMock(providerMock)

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				info, ok := middlewarectx.UserInfoFromContext(r.Context())
				assert.Equal(t, tt.wantInfo, ok)
				if tt.wantInfo {
					assert.Equal(t, "uid-1", info.UID)
					assert.Equal(t, models.RoleUser, info.Role)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := middlewarectx.AuthenticateOptional(logger, maker, providerMock)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.True(t, called, "optional authentication must never reject")
			assert.Equal(t, http.StatusOK, rec.Code)
			providerMock.AssertExpectations(t)
		})
	}
}
