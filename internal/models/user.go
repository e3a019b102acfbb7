// Package models содержит доменные модели платформы: пользователей с подпиской
// и правами доступа, тендеры, заявки и платежи. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import (
	"fmt"
	"sort"
	"time"
)

// Role — закрытое перечисление ролей пользователя.
type Role string

const (
	// RoleUser — обычный участник торгов.
	RoleUser Role = "user"
	// RoleAdmin — администратор платформы.
	RoleAdmin Role = "admin"
)

// Valid сообщает, входит ли значение в перечисление ролей.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole преобразует строку из хранилища или токена в Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// PermissionSet — явное множество строковых прав пользователя.
type PermissionSet map[string]struct{}

// NewPermissionSet собирает множество прав из списка строк.
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has проверяет наличие права в множестве.
func (s PermissionSet) Has(perm string) bool {
	_, ok := s[perm]
	return ok
}

// Missing возвращает отсортированный список прав из required,
// которых нет в множестве.
func (s PermissionSet) Missing(required []string) []string {
	var missing []string
	for _, p := range required {
		if !s.Has(p) {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}

// List возвращает отсортированный список прав для сериализации.
func (s PermissionSet) List() []string {
	list := make([]string, 0, len(s))
	for p := range s {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

// Subscription описывает текущую подписку пользователя на платформу.
type Subscription struct {
	Plan      PlanTier   // Тарифный план
	IsActive  bool       // Признак активной подписки
	ExpiresAt *time.Time // Дата истечения оплаченного периода, nil — не оплачена
}

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UID            string        // Уникальный идентификатор пользователя
	Email          string        // Электронная почта
	Username       string        // Имя пользователя (уникальное)
	PasswordHash   string        // Хэш пароля пользователя
	Role           Role          // Роль пользователя, admin или user
	Permissions    PermissionSet // Права пользователя
	Subscription   Subscription  // Текущая подписка
	IsActive       bool          // Признак активной (не деактивированной) учётной записи
	EmailVerified  bool          // Подтверждена ли электронная почта
	LastActivityAt *time.Time    // Время последней активности
	CreatedAt      time.Time
}

// UserInfo — сокращённый профиль, который советующий (не отклоняющий)
// вариант аутентификации кладёт в контекст запроса.
type UserInfo struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// RefreshToken — запись долгоживущего токена в списке токенов пользователя.
// Токен из списка можно отозвать, после чего обновление сессии по нему невозможно.
type RefreshToken struct {
	ID        int
	UserUID   string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}

// VerificationToken — одноразовый токен подтверждения электронной почты.
type VerificationToken struct {
	Token     string
	UserUID   string
	ExpiresAt time.Time
}
