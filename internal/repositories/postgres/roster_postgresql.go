package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) repositories.RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// AddStudents is a set union: pairs already present are left alone
func (r *rosterRepository) AddStudents(ctx context.Context, tx *gorm.DB, professorID string, studentIDs []string) error {
	studentIDs = dedupe(studentIDs)
	if len(studentIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := make([]models.ProfessorStudent, 0, len(studentIDs))
	for _, id := range studentIDs {
		entries = append(entries, models.ProfessorStudent{
			ProfessorID: professorID,
			StudentID:   id,
			AddedAt:     now,
		})
	}

	if err := r.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to add roster entries: %w", err)
	}
	return nil
}

func (r *rosterRepository) RemoveStudents(ctx context.Context, tx *gorm.DB, professorID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}

	if err := r.getDB(tx).WithContext(ctx).
		Where("professor_id = ? AND student_id IN ?", professorID, studentIDs).
		Delete(&models.ProfessorStudent{}).Error; err != nil {
		return fmt.Errorf("failed to remove roster entries: %w", err)
	}
	return nil
}

func (r *rosterRepository) ListStudentIDs(ctx context.Context, tx *gorm.DB, professorID string) ([]string, error) {
	var ids []string
	if err := r.getDB(tx).WithContext(ctx).
		Model(&models.ProfessorStudent{}).
		Where("professor_id = ?", professorID).
		Order("added_at ASC").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return ids, nil
}
