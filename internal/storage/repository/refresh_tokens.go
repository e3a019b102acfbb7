package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// SaveRefreshToken добавляет refresh-токен в список токенов пользователя.
func (s *Storage) SaveRefreshToken(ctx context.Context, userUID, token string) error {
	const op = "storage.SaveRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO refresh_tokens (user_uid, token, is_active)
			  VALUES ($1, $2, TRUE)`
	if _, err := s.DB.ExecContext(ctx, query, userUID, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindRefreshToken возвращает запись токена из списка пользователя.
// Возвращает nil без ошибки, если токен в списке отсутствует.
func (s *Storage) FindRefreshToken(ctx context.Context, userUID, token string) (*models.RefreshToken, error) {
	const op = "storage.FindRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, token, is_active, created_at
			  FROM refresh_tokens
			  WHERE user_uid = $1 AND token = $2`
	rt := &models.RefreshToken{}
	err := s.DB.QueryRowContext(ctx, query, userUID, token).
		Scan(&rt.ID, &rt.UserUID, &rt.Token, &rt.IsActive, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rt, nil
}

// RevokeRefreshToken отзывает конкретный токен из списка пользователя.
func (s *Storage) RevokeRefreshToken(ctx context.Context, userUID, token string) error {
	const op = "storage.RevokeRefreshToken"

	query := `UPDATE refresh_tokens
			  SET is_active = FALSE
			  WHERE user_uid = $1 AND token = $2`
	if _, err := s.DB.ExecContext(ctx, query, userUID, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RevokeAllRefreshTokens отзывает все токены пользователя, завершая все его сессии.
func (s *Storage) RevokeAllRefreshTokens(ctx context.Context, userUID string) error {
	const op = "storage.RevokeAllRefreshTokens"

	query := `UPDATE refresh_tokens
			  SET is_active = FALSE
			  WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveVerificationToken сохраняет одноразовый токен подтверждения почты.
func (s *Storage) SaveVerificationToken(ctx context.Context, token models.VerificationToken) error {
	const op = "storage.SaveVerificationToken"

	query := `INSERT INTO verification_tokens (token, user_uid, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, token.Token, token.UserUID, token.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeVerificationToken удаляет непросроченный токен подтверждения
// и возвращает UID пользователя. Токен одноразовый: повторное предъявление
// вернёт sql.ErrNoRows.
func (s *Storage) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	const op = "storage.ConsumeVerificationToken"

	query := `DELETE FROM verification_tokens
			  WHERE token = $1 AND expires_at > NOW()
			  RETURNING user_uid`
	var userUID string
	if err := s.DB.QueryRowContext(ctx, query, token).Scan(&userUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
