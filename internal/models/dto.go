package models

import "time"

// ===== USER DTOs =====

// UserResponse is the public shape of a user. It has no secret fields so it
// is safe to return from any read path.
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        UserRole  `json:"role"`
	Active      bool      `json:"active"`
	ProfessorID *string   `json:"professor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Active:      u.Active,
		ProfessorID: NormalizeProfessorID(u.ProfessorID),
		CreatedAt:   u.CreatedAt,
	}
}

func NewUserResponses(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// ===== PROGRESS DTOs =====

type ProgressSnapshot struct {
	CompletedWorkouts int     `json:"completed_workouts"`
	PendingWorkouts   int     `json:"pending_workouts"`
	AverageProgress   float64 `json:"average_progress"`
}

func NewProgressSnapshot(p *ProgressRecord) ProgressSnapshot {
	if p == nil {
		return ProgressSnapshot{}
	}
	return ProgressSnapshot{
		CompletedWorkouts: p.CompletedWorkouts,
		PendingWorkouts:   p.PendingWorkouts,
		AverageProgress:   p.AverageProgress,
	}
}

type StudentWithProgress struct {
	UserResponse
	Progress ProgressSnapshot `json:"progress"`
}

// ===== REQUEST DTOs =====

type AssignStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,entity_id"`
}

// ===== GENERIC RESPONSES =====

type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
