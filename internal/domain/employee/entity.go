package employee

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanViewReports reports whether the role may read attendance reports and the roster.
func (r Role) CanViewReports() bool {
	return r == RoleAdmin || r == RoleManager
}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Employee struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Designation   string
	Department    string
	Role          Role
	Status        Status
	DateOfJoining time.Time
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
