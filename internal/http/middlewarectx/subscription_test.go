package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

func requestWithUser(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proposals", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.UserKey, user)
	ctx = context.WithValue(ctx, middlewarectx.UserUIDKey, user.UID)
	return req.WithContext(ctx)
}

func subscribedUser(plan models.PlanTier, active bool, expiresAt *time.Time) *models.User {
	user := activeUser()
	user.Subscription = models.Subscription{
		Plan:      plan,
		IsActive:  active,
		ExpiresAt: expiresAt,
	}
	return user
}

func TestRequireSubscription(t *testing.T) {
	logger := newNoopLogger()
	future := time.Now().Add(30 * 24 * time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name         string
		requiredPlan models.PlanTier
		user         *models.User
		wantStatus   int
		wantBody     string
	}{
		{
			name:         "нет пользователя в контексте",
			requiredPlan: models.PlanProfessional,
			user:         nil,
			wantStatus:   http.StatusUnauthorized,
			wantBody:     `"message":"user identification missing"`,
		},
		{
			name:         "неактивная подписка",
			requiredPlan: models.PlanProfessional,
			user:         subscribedUser(models.PlanProfessional, false, &future),
			wantStatus:   http.StatusForbidden,
			wantBody:     `"message":"no active subscription"`,
		},
		{
			name:         "неизвестный тариф считается отсутствием подписки",
			requiredPlan: models.PlanProfessional,
			user:         subscribedUser(models.PlanTier("golden"), true, &future),
			wantStatus:   http.StatusForbidden,
			wantBody:     `"message":"no active subscription"`,
		},
		{
			name:         "истёкшая подписка отклоняется независимо от тарифа",
			requiredPlan: models.PlanBasic,
			user:         subscribedUser(models.PlanEnterprise, true, &past),
			wantStatus:   http.StatusForbidden,
			wantBody:     `"message":"subscription expired"`,
		},
		{
			name:         "тариф ниже требуемого",
			requiredPlan: models.PlanProfessional,
			user:         subscribedUser(models.PlanBasic, true, &future),
			wantStatus:   http.StatusForbidden,
			wantBody:     `"message":"plan tier insufficient"`,
		},
		{
			name:         "ответ о недостаточном тарифе содержит диагностику",
			requiredPlan: models.PlanEnterprise,
			user:         subscribedUser(models.PlanProfessional, true, &future),
			wantStatus:   http.StatusForbidden,
			wantBody:     `"required_plan":"enterprise"`,
		},
		{
			name:         "тариф ровно требуемый проходит",
			requiredPlan: models.PlanProfessional,
			user:         subscribedUser(models.PlanProfessional, true, &future),
			wantStatus:   http.StatusOK,
		},
		{
			name:         "тариф выше требуемого проходит",
			requiredPlan: models.PlanProfessional,
			user:         subscribedUser(models.PlanEnterprise, true, &future),
			wantStatus:   http.StatusOK,
		},
		{
			name:         "подписка без даты истечения проходит",
			requiredPlan: models.PlanBasic,
			user:         subscribedUser(models.PlanBasic, true, nil),
			wantStatus:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.RequireSubscription(logger, middlewarectx.PlanConfig{
				RequiredPlan: tt.requiredPlan,
			})(next)

			var req *http.Request
			if tt.user != nil {
				req = requestWithUser(tt.user)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/proposals", nil)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireSubscriptionPanicsOnInvalidConfig(t *testing.T) {
	logger := newNoopLogger()
	assert.Panics(t, func() {
		middlewarectx.RequireSubscription(logger, middlewarectx.PlanConfig{
			RequiredPlan: models.PlanTier("golden"),
		})
	})
}
