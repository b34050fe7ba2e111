package repositories

import (
	"errors"

	"github.com/fitvs/coaching-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type WorkoutFilters struct {
	StudentID   *string `json:"student_id"`
	ProfessorID *string `json:"professor_id"`
}

// ===== SHARED STATISTICS STRUCTS =====

type WorkoutStatusCounts map[models.WorkoutStatus]int64

func (c WorkoutStatusCounts) Get(status models.WorkoutStatus) int64 {
	if c == nil {
		return 0
	}
	return c[status]
}

// ===== ERRORS =====

var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the requested record is missing
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
