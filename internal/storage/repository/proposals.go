package repository

import (
	"context"
	"fmt"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// CreateProposal сохраняет новую заявку и возвращает её ID.
func (s *Storage) CreateProposal(ctx context.Context, proposal models.Proposal) (int, error) {
	const op = "storage.CreateProposal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO proposals (tender_id, user_uid, summary, content, status, tokens_used)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		proposal.TenderID, proposal.UserUID, proposal.Summary, proposal.Content,
		proposal.Status, proposal.TokensUsed).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadProposal возвращает заявку по её ID.
func (s *Storage) ReadProposal(ctx context.Context, id int) (*models.Proposal, error) {
	const op = "storage.ReadProposal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tender_id, user_uid, summary, content, status, tokens_used,
			      created_at, updated_at
			  FROM proposals
			  WHERE id = $1`
	p := &models.Proposal{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.TenderID, &p.UserUID,
		&p.Summary, &p.Content, &p.Status, &p.TokensUsed,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProposalsByUser возвращает заявки пользователя с пагинацией.
func (s *Storage) ListProposalsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Proposal, error) {
	const op = "storage.ListProposalsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tender_id, user_uid, summary, content, status, tokens_used,
			      created_at, updated_at
			  FROM proposals
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
	var result []*models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err = rows.Scan(&p.ID, &p.TenderID, &p.UserUID, &p.Summary, &p.Content,
			&p.Status, &p.TokensUsed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProposalStatus меняет статус заявки и возвращает количество обновлённых записей.
func (s *Storage) UpdateProposalStatus(ctx context.Context, id int, status string) (int64, error) {
	const op = "storage.UpdateProposalStatus"

	res, err := s.DB.ExecContext(ctx, `UPDATE proposals
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
