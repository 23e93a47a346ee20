package models

import "time"

type Instructor struct {
	ID             int64
	Name           string
	Department     string
	Subject        string
	Phone          string
	Email          string
	HireDate       *time.Time
	Address        string
	Memo           string
	Salary         int
	EmploymentType string // 정규 | 파트타임
	Status         string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
