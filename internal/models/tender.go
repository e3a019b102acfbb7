// Package models содержит доменные структуры, описывающие тендер,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы тендера.
const (
	TenderStatusOpen    = "open"
	TenderStatusClosed  = "closed"
	TenderStatusAwarded = "awarded"
)

// Tender представляет собой основную модель тендера,
// используемую в бизнес-логике и хранилище.
type Tender struct {
	ID          int       // Идентификатор тендера
	Title       string    // Название тендера
	Description string    // Описание предмета закупки
	Category    string    // Категория закупки
	Budget      int64     // Бюджет в минимальных единицах валюты
	Deadline    time.Time // Крайний срок подачи заявок
	Status      string    // Статус: open, closed, awarded
	CreatedBy   string    // UID пользователя, создавшего тендер
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DummyTender используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Tender.
// Дата приходит в виде строки, чтобы её можно было валидировать и парсить вручную.
type DummyTender struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`  // Название
	Description string `json:"description" validate:"required"`          // Описание
	Category    string `json:"category" validate:"required"`             // Категория
	Budget      int64  `json:"budget" validate:"required,gt=0"`          // Бюджет (>0)
	Deadline    string `json:"deadline" validate:"required"`             // Дедлайн в формате 02-01-2006
	Status      string `json:"status" validate:"omitempty,oneof=open closed awarded"`
}

// TenderFilter — фильтр списка тендеров с пагинацией.
type TenderFilter struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}
