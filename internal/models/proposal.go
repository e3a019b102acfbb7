package models

import "time"

// Статусы заявки на тендер.
const (
	ProposalStatusDraft     = "draft"
	ProposalStatusSubmitted = "submitted"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
)

// Proposal представляет заявку участника на тендер. Текст заявки
// генерируется внешним AI-провайдером на основе краткого описания участника.
type Proposal struct {
	ID         int    // Идентификатор заявки
	TenderID   int    // Идентификатор тендера
	UserUID    string // UID автора заявки
	Summary    string // Краткое описание, присланное участником
	Content    string // Сгенерированный текст заявки
	Status     string // Статус: draft, submitted, accepted, rejected
	TokensUsed int    // Количество токенов, израсходованных провайдером
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DummyProposal используется для приёма данных из JSON-запроса на создание заявки.
type DummyProposal struct {
	TenderID int    `json:"tender_id" validate:"required,gt=0"` // Тендер, на который подаётся заявка
	Summary  string `json:"summary" validate:"required,min=20"` // Краткое описание предложения
}

// DummyProposalStatus используется для смены статуса заявки администратором.
type DummyProposalStatus struct {
	Status string `json:"status" validate:"required,oneof=submitted accepted rejected"`
}
