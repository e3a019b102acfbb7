// Package middlewarectx содержит HTTP middleware цепочки авторизации:
// проверку JWT токена, проверку подписки и роли, верификацию refresh-токена
// и ограничитель попыток входа. Middleware кладут данные пользователя
// в контекст запроса для дальнейшего использования в обработчиках.
package middlewarectx

import (
	"context"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserKey — ключ для пользователя в контексте.
	UserKey Key = "user"
	// UserUIDKey — ключ для идентификатора пользователя в контексте.
	UserUIDKey Key = "user_uid"
	// UserInfoKey — ключ сокращённого профиля, прикладываемого опциональным
	// вариантом аутентификации.
	UserInfoKey Key = "user_info"
	// RefreshUserKey — ключ пользователя, прошедшего проверку refresh-токена.
	RefreshUserKey Key = "refresh_user"
	// RefreshTokenKey — ключ строки предъявленного refresh-токена.
	RefreshTokenKey Key = "refresh_token"
)

// UserFromContext достаёт пользователя, положенного Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// UserUIDFromContext достаёт идентификатор пользователя.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}

// UserInfoFromContext достаёт сокращённый профиль. Второе значение false
// означает, что запрос анонимный.
func UserInfoFromContext(ctx context.Context) (*models.UserInfo, bool) {
	info, ok := ctx.Value(UserInfoKey).(*models.UserInfo)
	return info, ok && info != nil
}

// RefreshFromContext достаёт пользователя и refresh-токен,
// положенные VerifyRefreshToken.
func RefreshFromContext(ctx context.Context) (*models.User, string, bool) {
	user, okUser := ctx.Value(RefreshUserKey).(*models.User)
	token, okToken := ctx.Value(RefreshTokenKey).(string)
	return user, token, okUser && okToken && user != nil && token != ""
}
