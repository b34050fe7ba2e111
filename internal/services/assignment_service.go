package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/fitvs/coaching-service/internal/events"
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
	"github.com/fitvs/coaching-service/internal/validator"
)

// Upper bound on concurrent notification inserts per request
const notificationFanOut = 8

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	now       clock
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		now:       time.Now,
	}
}

// AssignStudents links every eligible student in the batch to the caller.
// The professor link, roster and progress backfill commit together;
// notifications and the domain event follow on a best-effort basis.
func (s *assignmentService) AssignStudents(ctx context.Context, caller models.Identity, req *models.AssignStudentsRequest) (*AssignStudentsResponse, error) {
	if !caller.IsProfessor() {
		return nil, NewPermissionError(caller.UserID, "students", "assign", "caller is not a professor")
	}

	studentIDs, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assigning students", "professor_id", caller.UserID, "requested", len(studentIDs))

	professor, err := s.loadProfessor(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	var assigned int64
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		n, err := tx.User().AssignProfessor(ctx, nil, studentIDs, professor.ID)
		if err != nil {
			return storageError("assign professor", err)
		}
		assigned = n

		if err := tx.Roster().AddStudents(ctx, nil, professor.ID, studentIDs); err != nil {
			return storageError("update roster", err)
		}

		now := s.now().UTC()
		records := make([]models.ProgressRecord, 0, len(studentIDs))
		for _, id := range studentIDs {
			records = append(records, models.NewProgressRecord(id, professor.ID, now))
		}
		if err := tx.Progress().CreateIfAbsent(ctx, nil, records); err != nil {
			return storageError("backfill progress", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to assign students", "professor_id", professor.ID, "error", err)
		return nil, asStorageError("assignment transaction", err)
	}

	s.notifyStudents(ctx, professor, studentIDs)
	s.publishAssigned(ctx, professor, studentIDs, assigned)

	s.logger.Info("Students assigned", "professor_id", professor.ID, "requested", len(studentIDs), "assigned", assigned)

	return &AssignStudentsResponse{
		Success:       true,
		AssignedCount: assigned,
	}, nil
}

func (s *assignmentService) validateRequest(req *models.AssignStudentsRequest) ([]string, error) {
	if req == nil {
		return nil, NewValidationError("student_ids", "is required", nil)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, validationFailure(err)
	}

	ids, errs := s.validator.GetBusinessValidator().NormalizeStudentIDs(req.StudentIDs)
	if len(errs) > 0 {
		return nil, newValidationErrors(errs)
	}
	return ids, nil
}

// loadProfessor re-reads the caller record so a stale or forged identity
// cannot assign on behalf of a non-professor account.
func (s *assignmentService) loadProfessor(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: professor %s", ErrNotFound, id)
		}
		return nil, storageError("load professor", err)
	}
	if !user.IsProfessor() {
		return nil, fmt.Errorf("%w: user %s is not a professor", ErrUnauthorized, id)
	}
	return user, nil
}

// notifyStudents creates one assignment notification per student. Failures
// are logged and never abort the others.
func (s *assignmentService) notifyStudents(ctx context.Context, professor *models.User, studentIDs []string) {
	var (
		g      errgroup.Group
		failed atomic.Int64
	)
	g.SetLimit(notificationFanOut)

	now := s.now().UTC()
	for _, id := range studentIDs {
		g.Go(func() error {
			notification := newAssignmentNotification(id, professor, now)
			if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
				failed.Add(1)
				s.logger.Warn("Failed to create assignment notification",
					"student_id", id,
					"professor_id", professor.ID,
					"error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		s.logger.Warn("Some assignment notifications were not created", "professor_id", professor.ID, "failed", n, "total", len(studentIDs))
	}
}

func (s *assignmentService) publishAssigned(ctx context.Context, professor *models.User, studentIDs []string, assigned int64) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.EventStudentsAssigned, events.StudentsAssignedEvent{
		ProfessorID:   professor.ID,
		ProfessorName: professor.Name,
		StudentIDs:    studentIDs,
		AssignedCount: assigned,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish assignment event", "event_id", event.ID, "professor_id", professor.ID, "error", err)
	}
}

func newAssignmentNotification(studentID string, professor *models.User, now time.Time) *models.Notification {
	return &models.Notification{
		ID:      uuid.NewString(),
		UserID:  studentID,
		Type:    models.NotificationAssignment,
		Title:   "New professor assigned",
		Message: fmt.Sprintf("You were assigned to professor %s. Welcome!", professor.Name),
		Data: datatypes.JSONMap{
			"professor_id":   professor.ID,
			"professor_name": professor.Name,
		},
		CreatedAt: now,
	}
}
