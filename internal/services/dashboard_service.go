package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
)

const (
	dashboardNotificationLimit = 5
	recentStudentsLimit        = 5
)

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, caller models.Identity) (*DashboardResponse, error) {
	s.logger.Debug("Building dashboard", "user_id", caller.UserID, "role", caller.Role)

	resp := &DashboardResponse{Role: caller.Role}

	switch caller.Role {
	case models.RoleProfessor:
		professor, err := s.professorDashboard(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		resp.Professor = professor
	case models.RoleStudent:
		student, err := s.studentDashboard(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		resp.Student = student
	default:
		return nil, NewPermissionError(caller.UserID, "dashboard", "view", "unknown role")
	}

	notifications, err := s.repo.Notification().ListRecent(ctx, nil, caller.UserID, dashboardNotificationLimit, true)
	if err != nil {
		return nil, storageError("list notifications", err)
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	resp.Notifications = notifications

	return resp, nil
}

func (s *dashboardService) professorDashboard(ctx context.Context, professorID string) (*ProfessorDashboard, error) {
	students, err := s.repo.User().ListByProfessor(ctx, nil, professorID)
	if err != nil {
		return nil, storageError("list students", err)
	}

	counts, err := s.repo.Workout().CountByStatus(ctx, nil, repositories.WorkoutFilters{ProfessorID: &professorID})
	if err != nil {
		return nil, storageError("count workouts", err)
	}

	average, _, err := s.repo.Progress().AverageByProfessor(ctx, nil, professorID)
	if err != nil {
		return nil, storageError("average progress", err)
	}

	recent := students
	if len(recent) > recentStudentsLimit {
		recent = recent[:recentStudentsLimit]
	}

	return &ProfessorDashboard{
		TotalStudents:     len(students),
		CompletedWorkouts: counts.Get(models.WorkoutCompleted),
		PendingWorkouts:   counts.Get(models.WorkoutPending),
		AverageProgress:   int(math.Round(average)),
		RecentStudents:    models.NewUserResponses(recent),
	}, nil
}

func (s *dashboardService) studentDashboard(ctx context.Context, studentID string) (*StudentDashboard, error) {
	counts, err := s.repo.Workout().CountByStatus(ctx, nil, repositories.WorkoutFilters{StudentID: &studentID})
	if err != nil {
		return nil, storageError("count workouts", err)
	}

	var overall float64
	progress, err := s.repo.Progress().GetByStudentID(ctx, nil, studentID)
	switch {
	case err == nil:
		overall = progress.AverageProgress
	case repositories.IsNotFoundError(err):
		overall = 0
	default:
		return nil, storageError("load progress", err)
	}

	next, err := s.repo.Workout().NextPending(ctx, nil, studentID)
	if err != nil {
		return nil, storageError("next workout", err)
	}

	return &StudentDashboard{
		CompletedWorkouts:  counts.Get(models.WorkoutCompleted),
		PendingWorkouts:    counts.Get(models.WorkoutPending),
		InProgressWorkouts: counts.Get(models.WorkoutInProgress),
		OverallProgress:    overall,
		NextWorkout:        next,
	}, nil
}
