package services

import (
	"context"
	"time"

	"github.com/fitvs/coaching-service/internal/models"
)

// ===== REQUEST/RESPONSE DTOs =====

type AssignStudentsResponse struct {
	Success       bool  `json:"success"`
	AssignedCount int64 `json:"assigned_count"`
}

type ReconcileRosterResponse struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// ===== DASHBOARD DTOs =====

// DashboardResponse is tagged by role; exactly one of Professor and Student is set
type DashboardResponse struct {
	Role          models.UserRole        `json:"role"`
	Professor     *ProfessorDashboard    `json:"professor,omitempty"`
	Student       *StudentDashboard      `json:"student,omitempty"`
	Notifications []*models.Notification `json:"notifications"`
}

type ProfessorDashboard struct {
	TotalStudents     int                   `json:"total_students"`
	CompletedWorkouts int64                 `json:"completed_workouts"`
	PendingWorkouts   int64                 `json:"pending_workouts"`
	AverageProgress   int                   `json:"average_progress"`
	RecentStudents    []models.UserResponse `json:"recent_students"`
}

type StudentDashboard struct {
	CompletedWorkouts  int64           `json:"completed_workouts"`
	PendingWorkouts    int64           `json:"pending_workouts"`
	InProgressWorkouts int64           `json:"in_progress_workouts"`
	OverallProgress    float64         `json:"overall_progress"`
	NextWorkout        *models.Workout `json:"next_workout"`
}

// ===== DIRECTORY DTOs =====

type StudentProfessorResponse struct {
	Student   models.UserResponse  `json:"student"`
	Professor *models.UserResponse `json:"professor"`
}

// ===== SERVICE INTERFACES =====

// AssignmentService links unassigned students to a professor
type AssignmentService interface {
	AssignStudents(ctx context.Context, caller models.Identity, req *models.AssignStudentsRequest) (*AssignStudentsResponse, error)
}

// RosterService answers roster queries for professors
type RosterService interface {
	ListStudents(ctx context.Context, caller models.Identity) ([]models.StudentWithProgress, error)
	ListUnassigned(ctx context.Context, caller models.Identity) ([]models.UserResponse, error)
	ExportStudents(ctx context.Context, caller models.Identity) ([]byte, error)
	ReconcileRoster(ctx context.Context, caller models.Identity) (*ReconcileRosterResponse, error)
}

// DashboardService builds role-specific summaries
type DashboardService interface {
	GetDashboard(ctx context.Context, caller models.Identity) (*DashboardResponse, error)
}

// DirectoryService serves profile and relationship lookups
type DirectoryService interface {
	GetProfile(ctx context.Context, caller models.Identity) (*models.UserResponse, error)
	ListProfessors(ctx context.Context, caller models.Identity) ([]models.UserResponse, error)
	GetStudentProfessor(ctx context.Context, caller models.Identity) (*StudentProfessorResponse, error)
	ListStudentWorkouts(ctx context.Context, caller models.Identity) ([]*models.Workout, error)
}

// ServiceManager owns service construction and lifecycle
type ServiceManager interface {
	// Core service getters
	Assignment() AssignmentService
	Roster() RosterService
	Dashboard() DashboardService
	Directory() DirectoryService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// clock is swapped in tests
type clock func() time.Time
