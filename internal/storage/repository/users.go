package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, permissions,
			      plan, subscription_active, subscription_expiry,
			      is_active, email_verified, last_activity_at, created_at`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	perms, err := json.Marshal(user.Permissions.List())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, permissions,
			      plan, subscription_active, is_active, email_verified)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, string(user.Role), perms,
		string(user.Subscription.Plan), user.Subscription.IsActive,
		user.IsActive, user.EmailVerified).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUserByEmail возвращает пользователя по его электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// TouchLastActivity обновляет время последней активности пользователя.
// Поле некритичное: при гонке побеждает последняя запись.
func (s *Storage) TouchLastActivity(ctx context.Context, userUID string) error {
	const op = "storage.TouchLastActivity"

	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET last_activity_at = NOW() WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkEmailVerified отмечает электронную почту пользователя подтверждённой.
func (s *Storage) MarkEmailVerified(ctx context.Context, userUID string) error {
	const op = "storage.MarkEmailVerified"

	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET email_verified = TRUE WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscription устанавливает тарифный план пользователя и продлевает
// срок действия подписки до указанной даты.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET plan = $1,
			      subscription_active = $2,
			      subscription_expiry = $3
			  WHERE uid = $4`
	_, err := s.DB.ExecContext(ctx, query,
		string(sub.Plan), sub.IsActive, sub.ExpiresAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindSubscriptionsExpiringTomorrow находит пользователей, чья подписка истекает завтра.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, username, plan, subscription_expiry
			  FROM users
		      WHERE subscription_active = TRUE
			      AND subscription_expiry::DATE = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ExpiryNotice
	for rows.Next() {
		var notice models.ExpiryNotice
		var plan string
		if err = rows.Scan(&notice.Email, &notice.Username, &plan, &notice.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		notice.Plan = models.PlanTier(plan)
		result = append(result, &notice)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var role, plan string
	var perms []byte
	var subscriptionExpiry, lastActivityAt sql.NullTime

	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&role, &perms, &plan, &u.Subscription.IsActive, &subscriptionExpiry,
		&u.IsActive, &u.EmailVerified, &lastActivityAt, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Role = models.Role(role)
	u.Subscription.Plan = models.PlanTier(plan)
	if subscriptionExpiry.Valid {
		u.Subscription.ExpiresAt = &subscriptionExpiry.Time
	}
	if lastActivityAt.Valid {
		u.LastActivityAt = &lastActivityAt.Time
	}

	var permList []string
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &permList); err != nil {
			return nil, err
		}
	}
	u.Permissions = models.NewPermissionSet(permList...)
	return u, nil
}
