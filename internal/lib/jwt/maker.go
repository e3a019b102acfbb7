// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки пары токенов (access + refresh).
// MakerImpl — конкретная реализация с использованием секретных ключей и сроков жизни.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Ошибки разбора токена. Истёкший токен отличается от некорректного,
// чтобы клиент мог запросить обновление сессии вместо повторного входа.
var (
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid — токен повреждён, подписан неизвестным ключом
	// или имеет неверный тип.
	ErrTokenInvalid = errors.New("invalid token")
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateAccessToken создает короткоживущий токен доступа.
	GenerateAccessToken(user *models.User) (string, error)
	// GenerateRefreshToken создает долгоживущий токен обновления сессии.
	GenerateRefreshToken(user *models.User) (string, error)
	// ParseAccessToken проверяет токен доступа и возвращает его claims.
	ParseAccessToken(tokenStr string) (*Claims, error)
	// ParseRefreshToken проверяет токен обновления и возвращает его claims.
	ParseRefreshToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием отдельных
// секретных ключей и времени жизни для каждого типа токена.
type MakerImpl struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GenerateAccessToken создает JWT токен доступа, подписывая его access-секретом.
func (j *MakerImpl) GenerateAccessToken(user *models.User) (string, error) {
	return j.generate(user, TokenTypeAccess, j.accessSecret, j.accessTTL)
}

// GenerateRefreshToken создает JWT токен обновления, подписывая его refresh-секретом.
func (j *MakerImpl) GenerateRefreshToken(user *models.User) (string, error) {
	return j.generate(user, TokenTypeRefresh, j.refreshSecret, j.refreshTTL)
}

func (j *MakerImpl) generate(user *models.User, tokenType, secret string, ttl time.Duration) (string, error) {
	const op = "jwt.generate"
	claims := Claims{
		UserUID:   user.UID,
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseAccessToken парсит токен доступа, проверяет его подпись и срок действия.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, TokenTypeAccess, j.accessSecret)
}

// ParseRefreshToken парсит токен обновления, проверяет его подпись и срок действия.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, TokenTypeRefresh, j.refreshSecret)
}

// parse возвращает Claims, если токен корректен. Токен с датой выпуска
// в будущем считается некорректным.
func (j *MakerImpl) parse(tokenStr, wantType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
