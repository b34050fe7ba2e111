package repositories

import (
	"context"

	"github.com/fitvs/coaching-service/internal/models"
	"gorm.io/gorm"
)

// WorkoutRepository is read-only for the coaching core
type WorkoutRepository interface {
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Workout, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, filters WorkoutFilters) (WorkoutStatusCounts, error)

	// NextPending returns the pending workout with the earliest due date,
	// falling back to the assignment date. nil when there is none.
	NextPending(ctx context.Context, tx *gorm.DB, studentID string) (*models.Workout, error)
}
