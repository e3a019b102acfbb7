package jwt

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Типы токенов, записываемые в claim "typ".
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims описывает пользовательские данные, хранящиеся в JWT.
type Claims struct {
	UserUID              string      `json:"user_uid"` // Идентификатор пользователя
	Username             string      `json:"username"` // Имя пользователя
	Role                 models.Role `json:"role"`     // Роль пользователя
	TokenType            string      `json:"typ"`      // Тип токена: access или refresh
	jwt.RegisteredClaims             // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}
