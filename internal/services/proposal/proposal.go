// Package services содержит логику бизнес-уровня для работы с заявками на тендеры.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Ошибки бизнес-логики заявок.
var (
	ErrTenderNotOpen = errors.New("tender is not open for proposals")
	ErrNotOwner      = errors.New("proposal belongs to another user")
)

// ProposalRepository описывает контракт для работы с заявками в базе данных.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal models.Proposal) (int, error)
	ReadProposal(ctx context.Context, id int) (*models.Proposal, error)
	ListProposalsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Proposal, error)
	UpdateProposalStatus(ctx context.Context, id int, status string) (int64, error)
	ReadTender(ctx context.Context, id int) (*models.Tender, error)
}

// Generator описывает контракт AI-провайдера, генерирующего текст заявки.
type Generator interface {
	GenerateProposal(ctx context.Context, prompt string) (string, int, error)
}

// ProposalService инкапсулирует создание заявок с генерацией текста и контроль доступа к ним.
type ProposalService struct {
	repo ProposalRepository
	gen  Generator
	log  *slog.Logger
}

// NewProposalService создает новый экземпляр ProposalService.
func NewProposalService(repo ProposalRepository, gen Generator, log *slog.Logger) *ProposalService {
	return &ProposalService{
		repo: repo,
		gen:  gen,
		log:  log,
	}
}

// Create генерирует текст заявки по описанию участника и сохраняет её в статусе draft.
// Заявку можно подать только на открытый тендер.
func (s *ProposalService) Create(ctx context.Context, userUID string, req models.DummyProposal) (int, error) {
	const op = "services.proposal.Create"

	tender, err := s.repo.ReadTender(ctx, req.TenderID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if tender.Status != models.TenderStatusOpen {
		return 0, ErrTenderNotOpen
	}

	content, tokensUsed, err := s.gen.GenerateProposal(ctx, buildPrompt(tender, req.Summary))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	proposal := models.Proposal{
		TenderID:   req.TenderID,
		UserUID:    userUID,
		Summary:    req.Summary,
		Content:    content,
		Status:     models.ProposalStatusDraft,
		TokensUsed: tokensUsed,
	}
	id, err := s.repo.CreateProposal(ctx, proposal)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Read возвращает заявку. Чужие заявки доступны только администратору.
func (s *ProposalService) Read(ctx context.Context, id int, userUID string, role models.Role) (*models.Proposal, error) {
	proposal, err := s.repo.ReadProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.UserUID != userUID && role != models.RoleAdmin {
		return nil, ErrNotOwner
	}
	return proposal, nil
}

// List возвращает страницу заявок пользователя.
func (s *ProposalService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Proposal, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListProposalsByUser(ctx, userUID, limit, offset)
}

// UpdateStatus меняет статус заявки. Вызывается администратором.
func (s *ProposalService) UpdateStatus(ctx context.Context, id int, status string) (int64, error) {
	return s.repo.UpdateProposalStatus(ctx, id, status)
}

// buildPrompt собирает запрос к AI-провайдеру из данных тендера и описания участника.
func buildPrompt(tender *models.Tender, summary string) string {
	return fmt.Sprintf(
		"Write a formal tender proposal.\n\nTender: %s\nDescription: %s\nCategory: %s\nBudget: %d\n\nBidder summary: %s\n\nProduce a structured proposal with an introduction, approach, timeline and pricing rationale.",
		tender.Title, tender.Description, tender.Category, tender.Budget, summary,
	)
}
