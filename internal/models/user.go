package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleProfessor UserRole = "professor"
	RoleStudent   UserRole = "student"
)

func (r UserRole) IsValid() bool {
	return r == RoleProfessor || r == RoleStudent
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`
	Active       bool     `json:"active" gorm:"not null;default:true"`

	// Students only. nil is the single representation of "no professor".
	ProfessorID *string `json:"professor_id,omitempty" gorm:"size:36;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave normalises an empty professor link to NULL so that every
// query can rely on IS NULL alone.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.ProfessorID = NormalizeProfessorID(u.ProfessorID)
	return nil
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// HasProfessor reports whether the student is linked to a professor.
func (u *User) HasProfessor() bool {
	return NormalizeProfessorID(u.ProfessorID) != nil
}

// NormalizeProfessorID folds blank links into nil.
func NormalizeProfessorID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ProfessorStudent is the roster entry of a professor. It is a cache of
// users.professor_id and may lag behind or run ahead of it.
type ProfessorStudent struct {
	ProfessorID string    `json:"professor_id" gorm:"primaryKey;size:36"`
	StudentID   string    `json:"student_id" gorm:"primaryKey;size:36"`
	AddedAt     time.Time `json:"added_at" gorm:"not null"`
}

func (ProfessorStudent) TableName() string {
	return "professor_students"
}

// Identity is the authenticated caller, passed explicitly into every
// service call.
type Identity struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

func (i Identity) IsProfessor() bool {
	return i.Role == RoleProfessor
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}
