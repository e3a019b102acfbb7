package repository

import (
	"context"
	"fmt"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// CreatePayment сохраняет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO payments (user_uid, provider_payment_id, amount, currency, plan, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.ProviderPaymentID, payment.Amount, payment.Currency,
		string(payment.Plan), payment.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByProviderID возвращает платёж по идентификатору провайдера.
func (s *Storage) GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_payment_id, amount, currency, plan, status, created_at
			  FROM payments
			  WHERE provider_payment_id = $1`
	p := &models.Payment{}
	var plan string
	if err := s.DB.QueryRowContext(ctx, query, providerPaymentID).Scan(&p.ID, &p.UserUID,
		&p.ProviderPaymentID, &p.Amount, &p.Currency, &plan, &p.Status, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Plan = models.PlanTier(plan)
	return p, nil
}

// UpdatePaymentStatus меняет статус платежа по идентификатору провайдера.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) error {
	const op = "storage.UpdatePaymentStatus"

	_, err := s.DB.ExecContext(ctx, `UPDATE payments
			  SET status = $1
			  WHERE provider_payment_id = $2`, status, providerPaymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPaymentsByUser возвращает платежи пользователя с пагинацией.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_payment_id, amount, currency, plan, status, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var plan string
		if err = rows.Scan(&p.ID, &p.UserUID, &p.ProviderPaymentID, &p.Amount,
			&p.Currency, &plan, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Plan = models.PlanTier(plan)
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
