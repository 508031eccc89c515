package domain

import (
	"fmt"
	"strings"
)

// Role роль пользователя
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// ParseRole разбирает роль из заголовка; пустая строка - клиент
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleClient:
		return RoleClient, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrForbidden, s)
	}
}

// IsAdmin возвращает true для администратора
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User пользователь из справочника пользователей
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Role      Role
}

// FullName имя в прямом порядке
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
