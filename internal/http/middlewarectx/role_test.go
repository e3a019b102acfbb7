package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

func TestRequireRoles(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name       string
		allowed    []models.Role
		userRole   models.Role
		wantStatus int
		wantBody   string
	}{
		{
			name:       "роль входит в список",
			allowed:    []models.Role{models.RoleAdmin},
			userRole:   models.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "роль не входит в список",
			allowed:    []models.Role{models.RoleAdmin},
			userRole:   models.RoleUser,
			wantStatus: http.StatusForbidden,
			wantBody:   `"message":"insufficient role"`,
		},
		{
			name:       "ответ содержит текущую и требуемые роли",
			allowed:    []models.Role{models.RoleAdmin},
			userRole:   models.RoleUser,
			wantStatus: http.StatusForbidden,
			wantBody:   `"current_role":"user"`,
		},
		{
			name:       "несколько разрешённых ролей",
			allowed:    []models.Role{models.RoleAdmin, models.RoleUser},
			userRole:   models.RoleUser,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.RequireRoles(logger, tt.allowed...)(next)

			user := activeUser()
			user.Role = tt.userRole
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithUser(user))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireRolesWithoutUser(t *testing.T) {
	logger := newNoopLogger()
	handler := middlewarectx.RequireRoles(logger, models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"user identification missing"`)
}

func TestRequireRolesPanicsOnInvalidConfig(t *testing.T) {
	logger := newNoopLogger()
	assert.Panics(t, func() {
		middlewarectx.RequireRoles(logger)
	})
	assert.Panics(t, func() {
		middlewarectx.RequireRoles(logger, models.Role("superadmin"))
	})
}

func TestRequirePermissions(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name       string
		userPerms  []string
		required   []string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "все права на месте",
			userPerms:  []string{"tenders:write", "proposals:review"},
			required:   []string{"tenders:write"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "не хватает права",
			userPerms:  []string{"tenders:write"},
			required:   []string{"tenders:write", "proposals:review"},
			wantStatus: http.StatusForbidden,
			wantBody:   `"missing_permissions":["proposals:review"]`,
		},
		{
			name:       "пустой набор прав пользователя",
			userPerms:  nil,
			required:   []string{"tenders:write"},
			wantStatus: http.StatusForbidden,
			wantBody:   `"message":"missing permissions"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.RequirePermissions(logger, tt.required...)(next)

			user := activeUser()
			user.Permissions = models.NewPermissionSet(tt.userPerms...)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithUser(user))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
