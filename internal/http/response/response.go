// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Success — признак успеха запроса.
// Поле Message — текст ошибки или сообщение (опционально).
// Поле Data — данные ответа (опционально, при успехе).
// Остальные поля — диагностика отказов авторизации и лимитов.
type Response struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message,omitempty"`
	Data               any      `json:"data,omitempty"`
	CurrentPlan        string   `json:"current_plan,omitempty"`
	RequiredPlan       string   `json:"required_plan,omitempty"`
	RequiredRoles      []string `json:"required_roles,omitempty"`
	CurrentRole        string   `json:"current_role,omitempty"`
	MissingPermissions []string `json:"missing_permissions,omitempty"`
	RetryAfter         int      `json:"retry_after,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid request body"`
}

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Success: true}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

// PlanError возвращает отказ по тарифному плану с диагностикой:
// текущий план пользователя и план, требуемый маршрутом.
func PlanError(msg string, current, required models.PlanTier) Response {
	return Response{
		Success:      false,
		Message:      msg,
		CurrentPlan:  string(current),
		RequiredPlan: string(required),
	}
}

// RoleError возвращает отказ по роли с перечнем разрешённых ролей
// и фактической ролью пользователя.
func RoleError(msg string, allowed []models.Role, current models.Role) Response {
	roles := make([]string, 0, len(allowed))
	for _, r := range allowed {
		roles = append(roles, string(r))
	}
	return Response{
		Success:       false,
		Message:       msg,
		RequiredRoles: roles,
		CurrentRole:   string(current),
	}
}

// PermissionError возвращает отказ по правам со списком недостающих прав.
func PermissionError(msg string, missing []string) Response {
	return Response{
		Success:            false,
		Message:            msg,
		MissingPermissions: missing,
	}
}

// RateLimitError возвращает отказ по лимиту попыток с интервалом повтора в секундах.
func RateLimitError(msg string, retryAfter int) Response {
	return Response{
		Success:    false,
		Message:    msg,
		RetryAfter: retryAfter,
	}
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Success: false,
		Message: strings.Join(errsMsgs, ", "),
	}
}
