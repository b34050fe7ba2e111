package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
)

// fakeStore is an in-memory repositories.Repository. Every method takes the
// store lock, so single calls are atomic the way single statements are.
type fakeStore struct {
	mu sync.Mutex

	users         map[string]*models.User
	userOrder     []string
	roster        map[string]map[string]struct{}
	progress      map[string]models.ProgressRecord
	notifications []*models.Notification
	workouts      []*models.Workout

	// failures keyed by operation name, e.g. "user.assign"
	failOn map[string]error
	// notification inserts that fail for these recipients
	failNotify map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*models.User),
		roster:     make(map[string]map[string]struct{}),
		progress:   make(map[string]models.ProgressRecord),
		failOn:     make(map[string]error),
		failNotify: make(map[string]bool),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *fakeStore) addUser(u models.User) *fakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
	s.userOrder = append(s.userOrder, u.ID)
	return s
}

func (s *fakeStore) user(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *fakeStore) rosterOf(professorID string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for id := range s.roster[professorID] {
		out[id] = struct{}{}
	}
	return out
}

func (s *fakeStore) notificationsFor(userID string) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *fakeStore) fail(op string) error {
	return s.failOn[op]
}

// ===== repositories.Repository =====

func (s *fakeStore) User() repositories.UserRepository                 { return fakeUsers{s} }
func (s *fakeStore) Roster() repositories.RosterRepository             { return fakeRoster{s} }
func (s *fakeStore) Progress() repositories.ProgressRepository         { return fakeProgress{s} }
func (s *fakeStore) Workout() repositories.WorkoutRepository           { return fakeWorkouts{s} }
func (s *fakeStore) Notification() repositories.NotificationRepository { return fakeNotifications{s} }

func (s *fakeStore) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(s)
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.fail("ping") }
func (s *fakeStore) Close() error                   { return nil }

// ===== users =====

type fakeUsers struct{ *fakeStore }

func (r fakeUsers) GetByID(_ context.Context, _ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("user.get"); err != nil {
		return nil, err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUsers) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.userOrder {
		if u := r.users[id]; u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeUsers) GetByIDs(_ context.Context, _ *gorm.DB, ids []string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeUsers) filter(keep func(*models.User) bool) []*models.User {
	var out []*models.User
	for _, id := range r.userOrder {
		u := r.users[id]
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out
}

func (r fakeUsers) ListByProfessor(_ context.Context, _ *gorm.DB, professorID string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("user.list_by_professor"); err != nil {
		return nil, err
	}
	return r.filter(func(u *models.User) bool {
		p := models.NormalizeProfessorID(u.ProfessorID)
		return u.IsStudent() && p != nil && *p == professorID
	}), nil
}

func (r fakeUsers) ListUnassignedStudents(_ context.Context, _ *gorm.DB) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("user.list_unassigned"); err != nil {
		return nil, err
	}
	return r.filter(func(u *models.User) bool {
		return u.IsStudent() && u.Active && !u.HasProfessor()
	}), nil
}

func (r fakeUsers) ListActiveByRole(_ context.Context, _ *gorm.DB, role models.UserRole) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(u *models.User) bool {
		return u.Role == role && u.Active
	}), nil
}

func (r fakeUsers) AssignProfessor(_ context.Context, _ *gorm.DB, studentIDs []string, professorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("user.assign"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range studentIDs {
		u, ok := r.users[id]
		if !ok || !u.IsStudent() || u.HasProfessor() {
			continue
		}
		p := professorID
		u.ProfessorID = &p
		n++
	}
	return n, nil
}

// ===== roster =====

type fakeRoster struct{ *fakeStore }

func (r fakeRoster) AddStudents(_ context.Context, _ *gorm.DB, professorID string, studentIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("roster.add"); err != nil {
		return err
	}
	set, ok := r.roster[professorID]
	if !ok {
		set = make(map[string]struct{})
		r.roster[professorID] = set
	}
	for _, id := range studentIDs {
		set[id] = struct{}{}
	}
	return nil
}

func (r fakeRoster) RemoveStudents(_ context.Context, _ *gorm.DB, professorID string, studentIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range studentIDs {
		delete(r.roster[professorID], id)
	}
	return nil
}

func (r fakeRoster) ListStudentIDs(_ context.Context, _ *gorm.DB, professorID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.roster[professorID]))
	for id := range r.roster[professorID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// ===== progress =====

type fakeProgress struct{ *fakeStore }

func (r fakeProgress) GetByStudentID(_ context.Context, _ *gorm.DB, studentID string) (*models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("progress.get"); err != nil {
		return nil, err
	}
	p, ok := r.progress[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r fakeProgress) GetByStudentIDs(_ context.Context, _ *gorm.DB, studentIDs []string) (map[string]*models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("progress.get_many"); err != nil {
		return nil, err
	}
	out := make(map[string]*models.ProgressRecord)
	for _, id := range studentIDs {
		if p, ok := r.progress[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r fakeProgress) ListByProfessor(_ context.Context, _ *gorm.DB, professorID string) ([]*models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ProgressRecord
	for _, p := range r.progress {
		if p.ProfessorID == professorID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeProgress) CreateIfAbsent(_ context.Context, _ *gorm.DB, records []models.ProgressRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("progress.create"); err != nil {
		return err
	}
	for _, rec := range records {
		if _, ok := r.progress[rec.StudentID]; !ok {
			r.progress[rec.StudentID] = rec
		}
	}
	return nil
}

func (r fakeProgress) AverageByProfessor(_ context.Context, _ *gorm.DB, professorID string) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		sum   float64
		count int64
	)
	for _, p := range r.progress {
		if p.ProfessorID == professorID {
			sum += p.AverageProgress
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

// ===== notifications =====

type fakeNotifications struct{ *fakeStore }

func (r fakeNotifications) Create(_ context.Context, _ *gorm.DB, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNotify[n.UserID] {
		return errFakeStore
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r fakeNotifications) ListRecent(_ context.Context, _ *gorm.DB, userID string, limit int, unreadOnly bool) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("notification.list"); err != nil {
		return nil, err
	}
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ===== workouts =====

type fakeWorkouts struct{ *fakeStore }

func (r fakeWorkouts) ListByStudent(_ context.Context, _ *gorm.DB, studentID string) ([]*models.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Workout
	for _, w := range r.workouts {
		if w.StudentID == studentID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (r fakeWorkouts) CountByStatus(_ context.Context, _ *gorm.DB, filters repositories.WorkoutFilters) (repositories.WorkoutStatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("workout.count"); err != nil {
		return nil, err
	}
	counts := repositories.WorkoutStatusCounts{}
	for _, w := range r.workouts {
		if filters.StudentID != nil && w.StudentID != *filters.StudentID {
			continue
		}
		if filters.ProfessorID != nil && w.ProfessorID != *filters.ProfessorID {
			continue
		}
		counts[w.Status]++
	}
	return counts, nil
}

func (r fakeWorkouts) NextPending(_ context.Context, _ *gorm.DB, studentID string) (*models.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *models.Workout
	for _, w := range r.workouts {
		if w.StudentID != studentID || w.Status != models.WorkoutPending {
			continue
		}
		if next == nil || w.ScheduledAt().Before(next.ScheduledAt()) {
			next = w
		}
	}
	return next, nil
}
