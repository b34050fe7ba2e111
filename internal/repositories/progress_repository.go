package repositories

import (
	"context"

	"github.com/fitvs/coaching-service/internal/models"
	"gorm.io/gorm"
)

// ProgressRepository interface for per-student progress records
type ProgressRepository interface {
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) (*models.ProgressRecord, error)
	GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) (map[string]*models.ProgressRecord, error)
	ListByProfessor(ctx context.Context, tx *gorm.DB, professorID string) ([]*models.ProgressRecord, error)

	// CreateIfAbsent inserts the records whose student has none yet.
	// Existing records are left untouched.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, records []models.ProgressRecord) error

	// AverageByProfessor returns the mean average_progress over the
	// professor's records and how many records took part.
	AverageByProfessor(ctx context.Context, tx *gorm.DB, professorID string) (float64, int64, error)
}

// NotificationRepository interface for notification records
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListRecent(ctx context.Context, tx *gorm.DB, userID string, limit int, unreadOnly bool) ([]*models.Notification, error)
}
