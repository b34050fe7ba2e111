package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

// GetByID retrieves a single user
func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := u.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by login email
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := u.getDB(tx).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByIDs retrieves every user in ids that exists, in name order
func (u *UserPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	var users []*models.User
	if err := u.getDB(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// ListByProfessor lists the students whose canonical link points at professorID
func (u *UserPostgreSQL) ListByProfessor(ctx context.Context, tx *gorm.DB, professorID string) ([]*models.User, error) {
	var users []*models.User
	if err := u.getDB(tx).WithContext(ctx).
		Scopes(studentsOnly).
		Where("professor_id = ?", professorID).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list students by professor: %w", err)
	}
	return users, nil
}

// ListUnassignedStudents lists active students with no professor
func (u *UserPostgreSQL) ListUnassignedStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	var users []*models.User
	if err := u.getDB(tx).WithContext(ctx).
		Scopes(studentsOnly, activeOnly, unassignedOnly).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list unassigned students: %w", err)
	}
	return users, nil
}

// ListActiveByRole lists active users holding role
func (u *UserPostgreSQL) ListActiveByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]*models.User, error) {
	var users []*models.User
	if err := u.getDB(tx).WithContext(ctx).
		Scopes(activeOnly).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// AssignProfessor is a single conditional UPDATE, so two professors racing
// for the same student cannot both win.
func (u *UserPostgreSQL) AssignProfessor(ctx context.Context, tx *gorm.DB, studentIDs []string, professorID string) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}

	result := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Scopes(studentsOnly, unassignedOnly).
		Where("id IN ?", studentIDs).
		Update("professor_id", professorID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to assign professor: %w", result.Error)
	}

	return result.RowsAffected, nil
}
