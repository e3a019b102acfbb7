package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderbridge/tender-bridge/internal/models"
)

func TestStorage_CreateTender(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		tender models.Tender
		wantID int
	}{
		{
			name: "successful create tender",
			tender: models.Tender{
				Title:       "Поставка серверного оборудования",
				Description: "Закупка стоечных серверов для дата-центра",
				Category:    "it",
				Budget:      5_000_000,
				Deadline:    deadline,
				Status:      models.TenderStatusOpen,
			},
			wantID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			adminUID := uuid.New().String()
			factory.CreateUser(t, adminUID, "admin@example.com", "admin", "hashedpassword", "admin")
			tt.tender.CreatedBy = adminUID

			gotID, err := storage.CreateTender(context.Background(), tt.tender)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, gotID)

			verification := NewTestVerification(storage)
			verification.VerifyTenderExists(t, gotID)
		})
	}
}

func TestStorage_ReadTender(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		wantErr bool
		setup   func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:    "successful read tender",
			wantErr: false,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				adminUID := uuid.New().String()
				factory.CreateUser(t, adminUID, "admin@example.com", "admin", "hashedpassword", "admin")
				return factory.CreateTender(t, "Поставка серверов", "Описание закупки", "it",
					5_000_000, deadline, models.TenderStatusOpen, adminUID)
			},
		},
		{
			name:    "tender not found",
			wantErr: true,
			setup:   func(_ *testing.T, _ *TestDataFactory) int { return 9999 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tenderID := tt.setup(t, factory)

			got, err := storage.ReadTender(context.Background(), tenderID)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tenderID, got.ID)
				assert.Equal(t, "Поставка серверов", got.Title)
				assert.Equal(t, models.TenderStatusOpen, got.Status)
				assert.True(t, got.Deadline.Equal(deadline))
			}
		})
	}
}

func TestStorage_UpdateTender(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		wantRowsAffected int64
		setup            func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:             "successful update tender",
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				adminUID := uuid.New().String()
				factory.CreateUser(t, adminUID, "admin@example.com", "admin", "hashedpassword", "admin")
				return factory.CreateTender(t, "Поставка серверов", "Описание закупки", "it",
					5_000_000, deadline, models.TenderStatusOpen, adminUID)
			},
		},
		{
			name:             "tender not found",
			wantRowsAffected: 0,
			setup:            func(_ *testing.T, _ *TestDataFactory) int { return 9999 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tenderID := tt.setup(t, factory)

			updated := models.Tender{
				Title:       "Поставка серверов и СХД",
				Description: "Расширенная закупка",
				Category:    "it",
				Budget:      7_000_000,
				Deadline:    deadline.AddDate(0, 1, 0),
				Status:      models.TenderStatusClosed,
			}

			gotRowsAffected, err := storage.UpdateTender(context.Background(), updated, tenderID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, gotRowsAffected)

			if tt.wantRowsAffected == 1 {
				got, err := storage.ReadTender(context.Background(), tenderID)
				require.NoError(t, err)
				assert.Equal(t, "Поставка серверов и СХД", got.Title)
				assert.Equal(t, models.TenderStatusClosed, got.Status)
				assert.Equal(t, int64(7_000_000), got.Budget)
			}
		})
	}
}

func TestStorage_RemoveTender(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		wantRowsAffected int64
		setup            func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:             "successful delete tender",
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				adminUID := uuid.New().String()
				factory.CreateUser(t, adminUID, "admin@example.com", "admin", "hashedpassword", "admin")
				return factory.CreateTender(t, "Поставка серверов", "Описание закупки", "it",
					5_000_000, deadline, models.TenderStatusOpen, adminUID)
			},
		},
		{
			name:             "tender not found",
			wantRowsAffected: 0,
			setup:            func(_ *testing.T, _ *TestDataFactory) int { return 9999 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tenderID := tt.setup(t, factory)

			gotRowsAffected, err := storage.RemoveTender(context.Background(), tenderID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, gotRowsAffected)

			if tt.wantRowsAffected == 1 {
				verification := NewTestVerification(storage)
				verification.VerifyTenderDeleted(t, tenderID)
			}
		})
	}
}

func TestStorage_ListTenders(t *testing.T) {
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, factory *TestDataFactory) {
		adminUID := uuid.New().String()
		factory.CreateUser(t, adminUID, "admin@example.com", "admin", "hashedpassword", "admin")
		factory.CreateTender(t, "Поставка серверов", "Описание", "it",
			5_000_000, deadline, models.TenderStatusOpen, adminUID)
		factory.CreateTender(t, "Строительство склада", "Описание", "construction",
			20_000_000, deadline.AddDate(0, 1, 0), models.TenderStatusOpen, adminUID)
		factory.CreateTender(t, "Закупка мебели", "Описание", "supplies",
			1_000_000, deadline.AddDate(0, -1, 0), models.TenderStatusClosed, adminUID)
	}

	tests := []struct {
		name      string
		filter    models.TenderFilter
		wantCount int
	}{
		{
			name:      "list all tenders",
			filter:    models.TenderFilter{Limit: 10, Offset: 0},
			wantCount: 3,
		},
		{
			name:      "filter by category",
			filter:    models.TenderFilter{Category: "it", Limit: 10, Offset: 0},
			wantCount: 1,
		},
		{
			name:      "filter by status",
			filter:    models.TenderFilter{Status: models.TenderStatusOpen, Limit: 10, Offset: 0},
			wantCount: 2,
		},
		{
			name:      "pagination offset",
			filter:    models.TenderFilter{Limit: 2, Offset: 2},
			wantCount: 1,
		},
		{
			name:      "no matches",
			filter:    models.TenderFilter{Category: "medicine", Limit: 10, Offset: 0},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			seed(t, factory)

			got, err := storage.ListTenders(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
		})
	}
}
