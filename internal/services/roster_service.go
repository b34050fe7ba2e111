package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
)

const rosterSheet = "Students"

var rosterExportHeader = []interface{}{
	"ID", "Name", "Email", "Active", "Completed Workouts", "Pending Workouts", "Average Progress",
}

type rosterService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewRosterService(repo repositories.Repository, logger *slog.Logger) RosterService {
	return &rosterService{
		repo:   repo,
		logger: logger,
	}
}

// ListStudents returns the caller's students joined with their progress.
// A student without a progress record gets the zero snapshot.
func (s *rosterService) ListStudents(ctx context.Context, caller models.Identity) ([]models.StudentWithProgress, error) {
	if !caller.IsProfessor() {
		return nil, NewPermissionError(caller.UserID, "students", "list", "caller is not a professor")
	}

	students, err := s.repo.User().ListByProfessor(ctx, nil, caller.UserID)
	if err != nil {
		return nil, storageError("list students", err)
	}

	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}

	progress, err := s.repo.Progress().GetByStudentIDs(ctx, nil, ids)
	if err != nil {
		return nil, storageError("load progress", err)
	}

	out := make([]models.StudentWithProgress, 0, len(students))
	for _, st := range students {
		out = append(out, models.StudentWithProgress{
			UserResponse: models.NewUserResponse(st),
			Progress:     models.NewProgressSnapshot(progress[st.ID]),
		})
	}
	return out, nil
}

// ListUnassigned returns the global pool of active students with no professor
func (s *rosterService) ListUnassigned(ctx context.Context, caller models.Identity) ([]models.UserResponse, error) {
	if !caller.IsProfessor() {
		return nil, NewPermissionError(caller.UserID, "students", "list_unassigned", "caller is not a professor")
	}

	students, err := s.repo.User().ListUnassignedStudents(ctx, nil)
	if err != nil {
		return nil, storageError("list unassigned students", err)
	}
	return models.NewUserResponses(students), nil
}

// ExportStudents renders the caller's roster as an xlsx workbook
func (s *rosterService) ExportStudents(ctx context.Context, caller models.Identity) ([]byte, error) {
	students, err := s.ListStudents(ctx, caller)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &rosterExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, st := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{
			st.ID,
			st.Name,
			st.Email,
			st.Active,
			st.Progress.CompletedWorkouts,
			st.Progress.PendingWorkouts,
			st.Progress.AverageProgress,
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Roster exported", "professor_id", caller.UserID, "students", len(students))
	return buf.Bytes(), nil
}

// ReconcileRoster rebuilds the cached roster from the students' own
// professor links.
func (s *rosterService) ReconcileRoster(ctx context.Context, caller models.Identity) (*ReconcileRosterResponse, error) {
	if !caller.IsProfessor() {
		return nil, NewPermissionError(caller.UserID, "roster", "reconcile", "caller is not a professor")
	}

	result := &ReconcileRosterResponse{}
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		linked, err := tx.User().ListByProfessor(ctx, nil, caller.UserID)
		if err != nil {
			return storageError("list students", err)
		}
		cached, err := tx.Roster().ListStudentIDs(ctx, nil, caller.UserID)
		if err != nil {
			return storageError("list roster", err)
		}

		want := make(map[string]struct{}, len(linked))
		for _, st := range linked {
			want[st.ID] = struct{}{}
		}
		have := make(map[string]struct{}, len(cached))
		for _, id := range cached {
			have[id] = struct{}{}
		}

		var missing, stale []string
		for _, st := range linked {
			if _, ok := have[st.ID]; !ok {
				missing = append(missing, st.ID)
			}
		}
		for _, id := range cached {
			if _, ok := want[id]; !ok {
				stale = append(stale, id)
			}
		}

		if len(missing) > 0 {
			if err := tx.Roster().AddStudents(ctx, nil, caller.UserID, missing); err != nil {
				return storageError("add roster entries", err)
			}
		}
		if len(stale) > 0 {
			if err := tx.Roster().RemoveStudents(ctx, nil, caller.UserID, stale); err != nil {
				return storageError("remove roster entries", err)
			}
		}

		result.Added = len(missing)
		result.Removed = len(stale)
		return nil
	})
	if err != nil {
		return nil, asStorageError("reconcile roster", err)
	}

	s.logger.Info("Roster reconciled", "professor_id", caller.UserID, "added", result.Added, "removed", result.Removed)
	return result, nil
}
