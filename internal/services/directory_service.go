package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
)

type directoryService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDirectoryService(repo repositories.Repository, logger *slog.Logger) DirectoryService {
	return &directoryService{
		repo:   repo,
		logger: logger,
	}
}

func (s *directoryService) GetProfile(ctx context.Context, caller models.Identity) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	resp := models.NewUserResponse(user)
	return &resp, nil
}

func (s *directoryService) ListProfessors(ctx context.Context, caller models.Identity) ([]models.UserResponse, error) {
	professors, err := s.repo.User().ListActiveByRole(ctx, nil, models.RoleProfessor)
	if err != nil {
		return nil, storageError("list professors", err)
	}
	return models.NewUserResponses(professors), nil
}

// GetStudentProfessor returns the calling student with their professor, or
// a nil professor when the student is unassigned.
func (s *directoryService) GetStudentProfessor(ctx context.Context, caller models.Identity) (*StudentProfessorResponse, error) {
	if !caller.IsStudent() {
		return nil, NewPermissionError(caller.UserID, "professor", "view", "caller is not a student")
	}

	student, err := s.getUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	resp := &StudentProfessorResponse{Student: models.NewUserResponse(student)}
	if !student.HasProfessor() {
		return resp, nil
	}

	professor, err := s.repo.User().GetByID(ctx, nil, *models.NormalizeProfessorID(student.ProfessorID))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Warn("Student linked to missing professor", "student_id", student.ID, "professor_id", *student.ProfessorID)
			return resp, nil
		}
		return nil, storageError("load professor", err)
	}

	professorResp := models.NewUserResponse(professor)
	resp.Professor = &professorResp
	return resp, nil
}

func (s *directoryService) ListStudentWorkouts(ctx context.Context, caller models.Identity) ([]*models.Workout, error) {
	if !caller.IsStudent() {
		return nil, NewPermissionError(caller.UserID, "workouts", "list", "caller is not a student")
	}

	workouts, err := s.repo.Workout().ListByStudent(ctx, nil, caller.UserID)
	if err != nil {
		return nil, storageError("list workouts", err)
	}
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	return workouts, nil
}

func (s *directoryService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, storageError("load user", err)
	}
	return user, nil
}
