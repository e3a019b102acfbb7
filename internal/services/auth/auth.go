// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/lib/password"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре почта/пароль,
// а также для деактивированной учётной записи, чтобы не раскрывать её состояние.
var ErrInvalidCredentials = errors.New("invalid credentials")

// verificationTokenTTL — срок жизни токена подтверждения почты.
const verificationTokenTTL = 24 * time.Hour

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// SaveRefreshToken добавляет токен в список токенов пользователя.
	SaveRefreshToken(ctx context.Context, userUID, token string) error
	// RevokeRefreshToken отзывает конкретный токен пользователя.
	RevokeRefreshToken(ctx context.Context, userUID, token string) error
	// RevokeAllRefreshTokens отзывает все токены пользователя.
	RevokeAllRefreshTokens(ctx context.Context, userUID string) error
	// SaveVerificationToken сохраняет одноразовый токен подтверждения почты.
	SaveVerificationToken(ctx context.Context, token models.VerificationToken) error
	// ConsumeVerificationToken гасит токен и возвращает UID пользователя.
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	// MarkEmailVerified отмечает почту пользователя подтверждённой.
	MarkEmailVerified(ctx context.Context, userUID string) error
}

// Notifier публикует уведомления в очередь.
type Notifier interface {
	PublishVerificationEmail(msg models.VerificationEmail) error
}

// AuthService отвечает за регистрацию, авторизацию и жизненный цикл пары токенов.
type AuthService struct {
	users    UserRepository
	tokens   jwtlib.Maker
	notifier Notifier
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens jwtlib.Maker, notifier Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user",
// сохраняет токен подтверждения почты и публикует письмо в очередь уведомлений.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		Permissions:  models.NewPermissionSet(),
		Subscription: models.Subscription{
			Plan:     models.PlanBasic,
			IsActive: false,
		},
		IsActive:      true,
		EmailVerified: false,
	}
	userUID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}

	verification := models.VerificationToken{
		Token:     uuid.NewString(),
		UserUID:   userUID,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.users.SaveVerificationToken(ctx, verification); err != nil {
		return "", err
	}

	if err := s.notifier.PublishVerificationEmail(models.VerificationEmail{
		Email:    email,
		Username: username,
		Token:    verification.Token,
	}); err != nil {
		// Письмо можно переотправить, регистрацию это не отменяет.
		s.log.Warn("failed to publish verification email", sl.Err(err))
	}

	return userUID, nil
}

// Login проверяет пароль пользователя и выдаёт пару токенов.
// Refresh-токен добавляется в список токенов пользователя.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (access, refresh string, user *models.User, err error) {
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", nil, ErrInvalidCredentials
	}

	access, err = s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err = s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, err
	}
	if err = s.users.SaveRefreshToken(ctx, user.UID, refresh); err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

// Rotate отзывает предъявленный refresh-токен и выдаёт новую пару токенов.
func (s *AuthService) Rotate(ctx context.Context, user *models.User, oldToken string) (access, refresh string, err error) {
	if err = s.users.RevokeRefreshToken(ctx, user.UID, oldToken); err != nil {
		return "", "", err
	}
	access, err = s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	if err = s.users.SaveRefreshToken(ctx, user.UID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Logout отзывает предъявленный refresh-токен, завершая сессию.
func (s *AuthService) Logout(ctx context.Context, user *models.User, token string) error {
	return s.users.RevokeRefreshToken(ctx, user.UID, token)
}

// VerifyEmail гасит токен подтверждения и отмечает почту пользователя подтверждённой.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"
	userUID, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.MarkEmailVerified(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
