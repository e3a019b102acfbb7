package repository

import (
	"context"
	"fmt"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// CreateTender сохраняет новый тендер и возвращает его ID.
func (s *Storage) CreateTender(ctx context.Context, tender models.Tender) (int, error) {
	const op = "storage.CreateTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO tenders (title, description, category, budget, deadline, status, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		tender.Title, tender.Description, tender.Category, tender.Budget,
		tender.Deadline, tender.Status, tender.CreatedBy).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadTender возвращает тендер по его ID.
func (s *Storage) ReadTender(ctx context.Context, id int) (*models.Tender, error) {
	const op = "storage.ReadTender"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, budget, deadline, status,
			      created_by, created_at, updated_at
			  FROM tenders
			  WHERE id = $1`
	t := &models.Tender{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Description,
		&t.Category, &t.Budget, &t.Deadline, &t.Status, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// UpdateTender обновляет данные тендера по ID и возвращает количество обновлённых записей.
func (s *Storage) UpdateTender(ctx context.Context, tender models.Tender, id int) (int64, error) {
	const op = "storage.UpdateTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tenders
			  SET title = $1, description = $2, category = $3, budget = $4,
			      deadline = $5, status = $6, updated_at = NOW()
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query, tender.Title, tender.Description,
		tender.Category, tender.Budget, tender.Deadline, tender.Status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemoveTender удаляет тендер по ID и возвращает количество удалённых записей.
func (s *Storage) RemoveTender(ctx context.Context, id int) (int64, error) {
	const op = "storage.RemoveTender"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM tenders WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListTenders возвращает список тендеров по фильтру с пагинацией.
// Пустые значения фильтра означают отсутствие ограничения.
func (s *Storage) ListTenders(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error) {
	const op = "storage.ListTenders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, budget, deadline, status,
			      created_by, created_at, updated_at
			  FROM tenders
			  WHERE ($1 = '' OR category = $1)
			      AND ($2 = '' OR status = $2)
			  ORDER BY deadline
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, filter.Category, filter.Status,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Tender
	for rows.Next() {
		var t models.Tender
		if err = rows.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Budget,
			&t.Deadline, &t.Status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
