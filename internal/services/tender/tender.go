// Package services содержит логику бизнес-уровня для работы с тендерами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Ошибки валидации данных тендера.
var (
	ErrInvalidDeadline = errors.New("invalid deadline format, expected 02-01-2006")
	ErrDeadlinePassed  = errors.New("deadline must be in the future")
)

// deadlineLayout — формат даты дедлайна в запросах.
const deadlineLayout = "02-01-2006"

// TenderRepository описывает контракт для работы с тендерами в базе данных.
type TenderRepository interface {
	CreateTender(ctx context.Context, tender models.Tender) (int, error)
	ReadTender(ctx context.Context, id int) (*models.Tender, error)
	UpdateTender(ctx context.Context, tender models.Tender, id int) (int64, error)
	RemoveTender(ctx context.Context, id int) (int64, error)
	ListTenders(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error)
}

// Cache описывает контракт кэша для тендеров.
type Cache interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// TenderService инкапсулирует бизнес-логику тендеров поверх хранилища и кэша.
type TenderService struct {
	repo     TenderRepository
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewTenderService создает новый экземпляр TenderService.
func NewTenderService(repo TenderRepository, cache Cache, log *slog.Logger) *TenderService {
	return &TenderService{
		repo:     repo,
		cache:    cache,
		cacheTTL: 5 * time.Minute,
		log:      log,
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("tender:%d", id)
}

// Create валидирует дедлайн, собирает Tender из запроса и сохраняет его.
func (s *TenderService) Create(ctx context.Context, userUID string, req models.DummyTender) (int, error) {
	tender, err := fromRequest(req, userUID)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateTender(ctx, tender)
}

// Read возвращает тендер по идентификатору, используя кэш по схеме cache-aside.
func (s *TenderService) Read(ctx context.Context, id int) (*models.Tender, error) {
	var cached models.Tender
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	tender, err := s.repo.ReadTender(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), tender, s.cacheTTL); err != nil {
		s.log.Warn("cache set failed", sl.Err(err))
	}
	return tender, nil
}

// Update перезаписывает тендер и сбрасывает его запись в кэше.
func (s *TenderService) Update(ctx context.Context, req models.DummyTender, id int) (int64, error) {
	tender, err := fromRequest(req, "")
	if err != nil {
		return 0, err
	}
	affected, err := s.repo.UpdateTender(ctx, tender, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	return affected, nil
}

// Remove удаляет тендер и сбрасывает его запись в кэше.
func (s *TenderService) Remove(ctx context.Context, id int) (int64, error) {
	affected, err := s.repo.RemoveTender(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	return affected, nil
}

// List возвращает страницу тендеров по фильтру.
func (s *TenderService) List(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListTenders(ctx, filter)
}

func fromRequest(req models.DummyTender, createdBy string) (models.Tender, error) {
	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		return models.Tender{}, ErrInvalidDeadline
	}
	if deadline.Before(time.Now().Truncate(24 * time.Hour)) {
		return models.Tender{}, ErrDeadlinePassed
	}
	status := req.Status
	if status == "" {
		status = models.TenderStatusOpen
	}
	return models.Tender{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Deadline:    deadline,
		Status:      status,
		CreatedBy:   createdBy,
	}, nil
}
