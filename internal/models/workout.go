package models

import "time"

type WorkoutStatus string

const (
	WorkoutPending    WorkoutStatus = "pending"
	WorkoutInProgress WorkoutStatus = "in_progress"
	WorkoutCompleted  WorkoutStatus = "completed"
)

type Workout struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	StudentID   string        `json:"student_id" gorm:"not null;size:36;index"`
	ProfessorID string        `json:"professor_id" gorm:"not null;size:36;index"`
	Name        string        `json:"name" gorm:"not null;size:200"`
	Description string        `json:"description" gorm:"type:text"`
	Status      WorkoutStatus `json:"status" gorm:"not null;size:20;default:pending;index"`

	AssignedAt  time.Time  `json:"assigned_at" gorm:"not null"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

// ScheduledAt is the date a workout is expected by: the due date when set,
// otherwise the assignment date.
func (w *Workout) ScheduledAt() time.Time {
	if w.DueDate != nil {
		return *w.DueDate
	}
	return w.AssignedAt
}
