package postgres

import (
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ===== SCOPES =====

func studentsOnly(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", models.RoleStudent)
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// unassignedOnly matches the single canonical "no professor" value
func unassignedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("professor_id IS NULL")
}

// ApplyWorkoutFilters applies common filters to workout queries
func (h *SharedHelpers) ApplyWorkoutFilters(query *gorm.DB, filters repositories.WorkoutFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.ProfessorID != nil {
		query = query.Where("professor_id = ?", *filters.ProfessorID)
	}
	return query
}

// dedupe keeps the first occurrence of each id
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
