package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tenderbridge/tender-bridge/internal/cache"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// TenderRepositoryMock реализует TenderRepository
type TenderRepositoryMock struct {
	mock.Mock
}

func (m *TenderRepositoryMock) CreateTender(ctx context.Context, tender models.Tender) (int, error) {
	args := m.Called(ctx, tender)
	return args.Int(0), args.Error(1)
}

func (m *TenderRepositoryMock) ReadTender(ctx context.Context, id int) (*models.Tender, error) {
	args := m.Called(ctx, id)
	tender, _ := args.Get(0).(*models.Tender)
	return tender, args.Error(1)
}

func (m *TenderRepositoryMock) UpdateTender(ctx context.Context, tender models.Tender, id int) (int64, error) {
	args := m.Called(ctx, tender, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TenderRepositoryMock) RemoveTender(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TenderRepositoryMock) ListTenders(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error) {
	args := m.Called(ctx, filter)
	tenders, _ := args.Get(0).([]*models.Tender)
	return tenders, args.Error(1)
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	return &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: srv.Addr()})}
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func validRequest() models.DummyTender {
	return models.DummyTender{
		Title:       "Поставка серверного оборудования",
		Description: "Закупка стоечных серверов для дата-центра",
		Category:    "it",
		Budget:      5_000_000,
		Deadline:    time.Now().Add(30 * 24 * time.Hour).Format("02-01-2006"),
	}
}

func TestCreateTender(t *testing.T) {
	repo := new(TenderRepositoryMock)
	service := NewTenderService(repo, newTestCache(t), newNoopLogger())

	repo.On("CreateTender", mock.Anything, mock.MatchedBy(func(tender models.Tender) bool {
		return tender.Status == models.TenderStatusOpen && tender.CreatedBy == "uid-1"
	})).Return(42, nil)

	id, err := service.Create(context.Background(), "uid-1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	repo.AssertExpectations(t)
}

func TestCreateTenderDeadlineValidation(t *testing.T) {
	repo := new(TenderRepositoryMock)
	service := NewTenderService(repo, newTestCache(t), newNoopLogger())

	t.Run("некорректный формат даты", func(t *testing.T) {
		req := validRequest()
		req.Deadline = "2026-01-02"
		_, err := service.Create(context.Background(), "uid-1", req)
		assert.ErrorIs(t, err, ErrInvalidDeadline)
	})

	t.Run("дедлайн в прошлом", func(t *testing.T) {
		req := validRequest()
		req.Deadline = time.Now().Add(-48 * time.Hour).Format("02-01-2006")
		_, err := service.Create(context.Background(), "uid-1", req)
		assert.ErrorIs(t, err, ErrDeadlinePassed)
	})
}

func TestReadTenderUsesCache(t *testing.T) {
	repo := new(TenderRepositoryMock)
	service := NewTenderService(repo, newTestCache(t), newNoopLogger())

	stored := &models.Tender{
		ID:     7,
		Title:  "Ремонт кровли",
		Status: models.TenderStatusOpen,
	}
	// Хранилище должно быть опрошено только один раз.
	repo.On("ReadTender", mock.Anything, 7).Return(stored, nil).Once()

	first, err := service.Read(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ремонт кровли", first.Title)

	second, err := service.Read(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)

	repo.AssertExpectations(t)
}

func TestUpdateTenderInvalidatesCache(t *testing.T) {
	repo := new(TenderRepositoryMock)
	service := NewTenderService(repo, newTestCache(t), newNoopLogger())

	stored := &models.Tender{ID: 7, Title: "Старое название", Status: models.TenderStatusOpen}
	updated := &models.Tender{ID: 7, Title: "Новое название", Status: models.TenderStatusOpen}

	repo.On("ReadTender", mock.Anything, 7).Return(stored, nil).Once()
	repo.On("UpdateTender", mock.Anything, mock.Anything, 7).Return(int64(1), nil)

	_, err := service.Read(context.Background(), 7)
	require.NoError(t, err)

	affected, err := service.Update(context.Background(), validRequest(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// После обновления кэш сброшен, чтение снова идёт в хранилище.
	repo.On("ReadTender", mock.Anything, 7).Return(updated, nil).Once()
	got, err := service.Read(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Новое название", got.Title)

	repo.AssertExpectations(t)
}

func TestRemoveTenderInvalidatesCache(t *testing.T) {
	repo := new(TenderRepositoryMock)
	service := NewTenderService(repo, newTestCache(t), newNoopLogger())

	repo.On("RemoveTender", mock.Anything, 7).Return(int64(1), nil)

	affected, err := service.Remove(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	repo.AssertExpectations(t)
}

func TestListTendersPagination(t *testing.T) {
	tests := []struct {
		name       string
		filter     models.TenderFilter
		wantFilter models.TenderFilter
	}{
		{
			name:       "нулевой лимит заменяется дефолтным",
			filter:     models.TenderFilter{},
			wantFilter: models.TenderFilter{Limit: 20},
		},
		{
			name:       "лимит ограничивается сверху",
			filter:     models.TenderFilter{Limit: 1000},
			wantFilter: models.TenderFilter{Limit: 100},
		},
		{
			name:       "отрицательное смещение обнуляется",
			filter:     models.TenderFilter{Limit: 10, Offset: -5},
			wantFilter: models.TenderFilter{Limit: 10, Offset: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TenderRepositoryMock)
			service := NewTenderService(repo, newTestCache(t), newNoopLogger())

			repo.On("ListTenders", mock.Anything, tt.wantFilter).Return([]*models.Tender{}, nil)

			_, err := service.List(context.Background(), tt.filter)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
