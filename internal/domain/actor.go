package domain

import (
	"fmt"
	"strings"
)

// Role роль сотрудника
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Actor пользователь, от имени которого выполняется запрос
type Actor struct {
	UserID int64
	Role   Role
}

// CanSeeAllCalendars администраторы и менеджеры видят календари всех сотрудников
func (a Actor) CanSeeAllCalendars() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// ParseRole разбирает роль без учета регистра
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
