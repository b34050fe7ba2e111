package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationAssignment  NotificationType = "assignment"
	NotificationNewWorkout  NotificationType = "new_workout"
	NotificationWorkoutDue  NotificationType = "workout_due"
	NotificationEvaluation  NotificationType = "evaluation"
	NotificationProgression NotificationType = "progress"
)

type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey;size:36"`
	UserID  string           `json:"user_id" gorm:"not null;size:36;index:idx_notifications_user_read_created,priority:1"`
	Type    NotificationType `json:"type" gorm:"not null;size:30"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Message string           `json:"message" gorm:"type:text"`
	Read    bool             `json:"read" gorm:"not null;index:idx_notifications_user_read_created,priority:2"`

	// Free-form references, e.g. professor_id / workout_id.
	Data datatypes.JSONMap `json:"data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time  `json:"created_at" gorm:"index:idx_notifications_user_read_created,priority:3"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
