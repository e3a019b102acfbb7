package models

import "fmt"

// PlanTier — тарифный план подписки. Планы образуют фиксированный порядок:
// basic < professional < enterprise.
type PlanTier string

const (
	// PlanBasic — базовый план.
	PlanBasic PlanTier = "basic"
	// PlanProfessional — профессиональный план.
	PlanProfessional PlanTier = "professional"
	// PlanEnterprise — корпоративный план.
	PlanEnterprise PlanTier = "enterprise"
)

var planRank = map[PlanTier]int{
	PlanBasic:        1,
	PlanProfessional: 2,
	PlanEnterprise:   3,
}

// Valid сообщает, является ли значение известным тарифным планом.
func (p PlanTier) Valid() bool {
	_, ok := planRank[p]
	return ok
}

// AtLeast сообщает, покрывает ли план required по фиксированному порядку.
func (p PlanTier) AtLeast(required PlanTier) bool {
	return planRank[p] >= planRank[required]
}

// ParsePlanTier преобразует строку из хранилища или запроса в PlanTier.
func ParsePlanTier(s string) (PlanTier, error) {
	p := PlanTier(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan tier: %q", s)
	}
	return p, nil
}
