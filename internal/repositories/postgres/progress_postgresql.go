package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProgressPostgreSQL) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := p.getDB(tx).WithContext(ctx).Where("student_id = ?", studentID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}
	return &record, nil
}

// GetByStudentIDs loads records for many students in one query, keyed by student id
func (p *ProgressPostgreSQL) GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) (map[string]*models.ProgressRecord, error) {
	result := make(map[string]*models.ProgressRecord, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}

	var records []*models.ProgressRecord
	if err := p.getDB(tx).WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get progress records: %w", err)
	}

	for _, record := range records {
		result[record.StudentID] = record
	}
	return result, nil
}

func (p *ProgressPostgreSQL) ListByProfessor(ctx context.Context, tx *gorm.DB, professorID string) ([]*models.ProgressRecord, error) {
	var records []*models.ProgressRecord
	if err := p.getDB(tx).WithContext(ctx).
		Where("professor_id = ?", professorID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	return records, nil
}

func (p *ProgressPostgreSQL) CreateIfAbsent(ctx context.Context, tx *gorm.DB, records []models.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoNothing: true,
		}).
		Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create progress records: %w", err)
	}
	return nil
}

func (p *ProgressPostgreSQL) AverageByProfessor(ctx context.Context, tx *gorm.DB, professorID string) (float64, int64, error) {
	var row struct {
		Average float64
		Total   int64
	}

	if err := p.getDB(tx).WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Select("COALESCE(AVG(average_progress), 0) AS average, COUNT(*) AS total").
		Where("professor_id = ?", professorID).
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to average progress: %w", err)
	}
	return row.Average, row.Total, nil
}
