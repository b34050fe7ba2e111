package postgres

import (
	"context"
	"fmt"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"gorm.io/gorm"
)

type WorkoutPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewWorkoutPostgreSQL(db *gorm.DB) repositories.WorkoutRepository {
	return &WorkoutPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (w *WorkoutPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return w.db
}

// ListByStudent returns the student's workouts, most recently assigned first
func (w *WorkoutPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Workout, error) {
	var workouts []*models.Workout
	if err := w.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("assigned_at DESC").
		Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

func (w *WorkoutPostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB, filters repositories.WorkoutFilters) (repositories.WorkoutStatusCounts, error) {
	var rows []struct {
		Status models.WorkoutStatus
		Total  int64
	}

	query := w.getDB(tx).WithContext(ctx).Model(&models.Workout{})
	query = w.helpers.ApplyWorkoutFilters(query, filters)

	if err := query.
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	counts := make(repositories.WorkoutStatusCounts, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (w *WorkoutPostgreSQL) NextPending(ctx context.Context, tx *gorm.DB, studentID string) (*models.Workout, error) {
	var workouts []*models.Workout
	if err := w.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, models.WorkoutPending).
		Order("COALESCE(due_date, assigned_at) ASC").
		Limit(1).
		Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to get next workout: %w", err)
	}

	if len(workouts) == 0 {
		return nil, nil
	}
	return workouts[0], nil
}
