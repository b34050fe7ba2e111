package models

import "time"

// ProgressRecord aggregates workout completion for one student.
type ProgressRecord struct {
	StudentID         string    `json:"student_id" gorm:"primaryKey;size:36"`
	ProfessorID       string    `json:"professor_id" gorm:"not null;size:36;index"`
	CompletedWorkouts int       `json:"completed_workouts" gorm:"not null"`
	PendingWorkouts   int       `json:"pending_workouts" gorm:"not null"`
	AverageProgress   float64   `json:"average_progress" gorm:"not null"` // 0-100
	LastUpdatedAt     time.Time `json:"last_updated_at" gorm:"not null"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// NewProgressRecord builds the zero record created when a student is first
// linked to a professor.
func NewProgressRecord(studentID, professorID string, now time.Time) ProgressRecord {
	return ProgressRecord{
		StudentID:     studentID,
		ProfessorID:   professorID,
		LastUpdatedAt: now,
	}
}
