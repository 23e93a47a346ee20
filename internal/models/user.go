package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// User — 시스템 운영자 계정 (학생 계정 아님).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
