package repositories

import (
	"context"

	"github.com/fitvs/coaching-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user operations
type UserRepository interface {
	// Basic read operations
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error)

	// List operations
	ListByProfessor(ctx context.Context, tx *gorm.DB, professorID string) ([]*models.User, error)
	ListUnassignedStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error)
	ListActiveByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]*models.User, error)

	// AssignProfessor links every listed student that has no professor yet
	// and returns how many rows were actually changed. Ids that are not
	// students, are already linked, or do not exist are skipped.
	AssignProfessor(ctx context.Context, tx *gorm.DB, studentIDs []string, professorID string) (int64, error)
}

// RosterRepository maintains the cached professor -> students set
type RosterRepository interface {
	AddStudents(ctx context.Context, tx *gorm.DB, professorID string, studentIDs []string) error
	RemoveStudents(ctx context.Context, tx *gorm.DB, professorID string, studentIDs []string) error
	ListStudentIDs(ctx context.Context, tx *gorm.DB, professorID string) ([]string, error)
}
