package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitvs/coaching-service/internal/models"
)

func studentIdentity(id string) models.Identity {
	return models.Identity{UserID: id, Role: models.RoleStudent}
}

func TestGetProfile(t *testing.T) {
	svc := NewDirectoryService(seededStore(), discardLogger())

	profile, err := svc.GetProfile(context.Background(), studentIdentity(stuDora))
	require.NoError(t, err)
	assert.Equal(t, "Dora", profile.Name)
	require.NotNil(t, profile.ProfessorID)
	assert.Equal(t, profDiego, *profile.ProfessorID)

	_, err = svc.GetProfile(context.Background(), studentIdentity(ghostID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProfessors(t *testing.T) {
	store := seededStore().addUser(models.User{ID: "a1b2c3d4-0000-4000-8000-000000000003", Name: "Retired", Role: models.RoleProfessor, Active: false})

	professors, err := NewDirectoryService(store, discardLogger()).ListProfessors(context.Background(), studentIdentity(stuAna))
	require.NoError(t, err)
	require.Len(t, professors, 2)
	assert.Equal(t, "Carla", professors[0].Name)
	assert.Equal(t, "Diego", professors[1].Name)
}

func TestGetStudentProfessor(t *testing.T) {
	store := seededStore().
		addUser(models.User{ID: "b1b2c3d4-0000-4000-8000-00000000000c", Name: "Orphan", Role: models.RoleStudent, Active: true, ProfessorID: strPtr(ghostID)})
	svc := NewDirectoryService(store, discardLogger())

	t.Run("linked", func(t *testing.T) {
		resp, err := svc.GetStudentProfessor(context.Background(), studentIdentity(stuDora))
		require.NoError(t, err)
		assert.Equal(t, "Dora", resp.Student.Name)
		require.NotNil(t, resp.Professor)
		assert.Equal(t, "Diego", resp.Professor.Name)
	})

	t.Run("unassigned", func(t *testing.T) {
		resp, err := svc.GetStudentProfessor(context.Background(), studentIdentity(stuAna))
		require.NoError(t, err)
		assert.Nil(t, resp.Professor)
	})

	t.Run("dangling link", func(t *testing.T) {
		resp, err := svc.GetStudentProfessor(context.Background(), studentIdentity("b1b2c3d4-0000-4000-8000-00000000000c"))
		require.NoError(t, err)
		assert.Nil(t, resp.Professor)
	})

	t.Run("professor caller", func(t *testing.T) {
		_, err := svc.GetStudentProfessor(context.Background(), professorIdentity(profCarla))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListStudentWorkouts(t *testing.T) {
	store := seededStore()
	store.workouts = []*models.Workout{
		workout("older", stuAna, profCarla, models.WorkoutCompleted, fixedNow.Add(-48*time.Hour), nil),
		workout("newer", stuAna, profCarla, models.WorkoutPending, fixedNow, nil),
		workout("theirs", stuBruno, profCarla, models.WorkoutPending, fixedNow, nil),
	}
	svc := NewDirectoryService(store, discardLogger())

	workouts, err := svc.ListStudentWorkouts(context.Background(), studentIdentity(stuAna))
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, "newer", workouts[0].ID)
	assert.Equal(t, "older", workouts[1].ID)

	empty, err := svc.ListStudentWorkouts(context.Background(), studentIdentity(stuCaio))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.ListStudentWorkouts(context.Background(), professorIdentity(profCarla))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestServiceManager(t *testing.T) {
	store := seededStore()
	sm := NewServiceManager(store, discardLogger(), nil, nil)

	assert.Panics(t, func() { sm.Dashboard() })
	assert.Error(t, sm.HealthCheck(context.Background()))

	require.NoError(t, sm.Initialize(context.Background()))
	assert.NotNil(t, sm.Assignment())
	assert.NotNil(t, sm.Roster())
	assert.NotNil(t, sm.Dashboard())
	assert.NotNil(t, sm.Directory())
	assert.NoError(t, sm.HealthCheck(context.Background()))

	store.failOn["ping"] = errFakeStore
	assert.Error(t, sm.HealthCheck(context.Background()))

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Error(t, sm.HealthCheck(context.Background()))
}
