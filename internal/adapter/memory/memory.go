// Package memory implements in-memory repositories for development and
// testing. It enforces the same uniqueness rules as the SQL schema under
// a single mutex, so concurrency properties hold without Postgres.
package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"sync"
	"time"

	"timeclock/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	users      []*domain.User
	workplaces []domain.WorkPlace
	employees  []domain.Employee
	workDays   []domain.WorkDay
	sessions   []domain.WorkSession

	userIDCounter      int64
	workplaceIDCounter int64
	employeeIDCounter  int64
	workDayIDCounter   int64
	sessionIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.WorkPlaceRepository = (*WorkPlaceRepo)(nil)
var _ domain.EmployeeRepository = (*EmployeeRepo)(nil)
var _ domain.WorkDayRepository = (*WorkDayRepo)(nil)
var _ domain.WorkSessionRepository = (*WorkSessionRepo)(nil)

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, fmt.Errorf("users_email_key: %w", domain.ErrConflict)
		}
	}

	db.userIDCounter++
	now := time.Now().UTC()
	u := &domain.User{
		ID:           db.userIDCounter,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- WorkPlaceRepository ---

// WorkPlaceRepo implements workplace persistence.
type WorkPlaceRepo struct {
	db *DB
}

// NewWorkPlaceRepo creates a new workplace repository.
func (db *DB) NewWorkPlaceRepo() *WorkPlaceRepo {
	return &WorkPlaceRepo{db: db}
}

// Create creates a new workplace.
func (r *WorkPlaceRepo) Create(ctx context.Context, title, address string) (*domain.WorkPlace, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, wp := range r.db.workplaces {
		if wp.Title == title || wp.Address == address {
			return nil, fmt.Errorf("workplaces_title_key: %w", domain.ErrConflict)
		}
	}

	r.db.workplaceIDCounter++
	wp := domain.WorkPlace{ID: r.db.workplaceIDCounter, Title: title, Address: address}
	r.db.workplaces = append(r.db.workplaces, wp)
	return &wp, nil
}

// GetByID retrieves a workplace by ID.
func (r *WorkPlaceRepo) GetByID(ctx context.Context, id int64) (*domain.WorkPlace, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, wp := range r.db.workplaces {
		if wp.ID == id {
			ret := wp
			return &ret, nil
		}
	}
	return nil, nil
}

// List returns all workplaces.
func (r *WorkPlaceRepo) List(ctx context.Context) ([]domain.WorkPlace, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.WorkPlace, len(r.db.workplaces))
	copy(out, r.db.workplaces)
	return out, nil
}

// Delete removes a workplace unless employees still reference it.
func (r *WorkPlaceRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.employees {
		if e.WorkPlaceID == id {
			return fmt.Errorf("employees_workplace_id_fkey: %w", domain.ErrConflict)
		}
	}
	for i, wp := range r.db.workplaces {
		if wp.ID == id {
			r.db.workplaces = append(r.db.workplaces[:i], r.db.workplaces[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- EmployeeRepository ---

// EmployeeRepo implements employee persistence.
type EmployeeRepo struct {
	db *DB
}

// NewEmployeeRepo creates a new employee repository.
func (db *DB) NewEmployeeRepo() *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// Create creates a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.employees {
		if existing.Email == e.Email || existing.PhoneNumber == e.PhoneNumber || existing.TokenDigest == e.TokenDigest {
			return nil, fmt.Errorf("employees_email_key: %w", domain.ErrConflict)
		}
	}

	r.db.employeeIDCounter++
	now := time.Now().UTC()
	e.ID = r.db.employeeIDCounter
	e.CreatedAt = now
	e.UpdatedAt = now
	r.db.employees = append(r.db.employees, e)
	ret := e
	return &ret, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.employees {
		if e.ID == id {
			ret := e
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByTokenDigest retrieves an employee by token digest using a
// constant-time comparison.
func (r *EmployeeRepo) GetByTokenDigest(ctx context.Context, digest string) (*domain.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.employees {
		if subtle.ConstantTimeCompare([]byte(e.TokenDigest), []byte(digest)) == 1 {
			ret := e
			return &ret, nil
		}
	}
	return nil, nil
}

// ListByUser returns all employees owned by userID.
func (r *EmployeeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Employee
	for _, e := range r.db.employees {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateTokenDigest replaces the stored token digest.
func (r *EmployeeRepo) UpdateTokenDigest(ctx context.Context, id int64, digest string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.employees {
		if r.db.employees[i].ID == id {
			r.db.employees[i].TokenDigest = digest
			r.db.employees[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

// Delete removes an employee owned by userID, cascading its work days and
// sessions.
func (r *EmployeeRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, e := range r.db.employees {
		if e.ID == id && e.UserID == userID {
			r.db.employees = append(r.db.employees[:i], r.db.employees[i+1:]...)
			r.db.cascadeWorkDays(id)
			return true, nil
		}
	}
	return false, nil
}

// cascadeWorkDays removes an employee's work days and their sessions.
// Caller holds db.mu.
func (db *DB) cascadeWorkDays(employeeID int64) {
	var days []domain.WorkDay
	removed := map[int64]bool{}
	for _, wd := range db.workDays {
		if wd.EmployeeID == employeeID {
			removed[wd.ID] = true
			continue
		}
		days = append(days, wd)
	}
	db.workDays = days

	var sessions []domain.WorkSession
	for _, s := range db.sessions {
		if removed[s.WorkDayID] {
			continue
		}
		sessions = append(sessions, s)
	}
	db.sessions = sessions
}

// --- WorkDayRepository ---

// WorkDayRepo implements work day persistence.
type WorkDayRepo struct {
	db *DB
}

// NewWorkDayRepo creates a new work day repository.
func (db *DB) NewWorkDayRepo() *WorkDayRepo {
	return &WorkDayRepo{db: db}
}

// GetOrCreate resolves the work day for (employee, day), creating it with
// a zero total if absent. The mutex makes check-and-insert atomic.
func (r *WorkDayRepo) GetOrCreate(ctx context.Context, employeeID int64, day string) (*domain.WorkDay, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if wd := r.db.findWorkDay(employeeID, day); wd != nil {
		ret := *wd
		return &ret, nil
	}

	r.db.workDayIDCounter++
	wd := domain.WorkDay{ID: r.db.workDayIDCounter, EmployeeID: employeeID, Day: day}
	r.db.workDays = append(r.db.workDays, wd)
	return &wd, nil
}

// GetByDay returns the work day for (employee, day), or nil if none.
func (r *WorkDayRepo) GetByDay(ctx context.Context, employeeID int64, day string) (*domain.WorkDay, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if wd := r.db.findWorkDay(employeeID, day); wd != nil {
		ret := *wd
		return &ret, nil
	}
	return nil, nil
}

// AddDuration adds delta to the accumulated total.
func (r *WorkDayRepo) AddDuration(ctx context.Context, workDayID int64, delta time.Duration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.workDays {
		if r.db.workDays[i].ID == workDayID {
			r.db.workDays[i].Total += delta
			return nil
		}
	}
	return fmt.Errorf("work day %d: %w", workDayID, domain.ErrNotFound)
}

// SumOver returns accumulated totals keyed by day for [from, to].
func (r *WorkDayRepo) SumOver(ctx context.Context, employeeID int64, from, to string) (map[string]time.Duration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make(map[string]time.Duration)
	for _, wd := range r.db.workDays {
		if wd.EmployeeID == employeeID && wd.Day >= from && wd.Day <= to {
			out[wd.Day] = wd.Total
		}
	}
	return out, nil
}

func (db *DB) findWorkDay(employeeID int64, day string) *domain.WorkDay {
	for i := range db.workDays {
		if db.workDays[i].EmployeeID == employeeID && db.workDays[i].Day == day {
			return &db.workDays[i]
		}
	}
	return nil
}

// --- WorkSessionRepository ---

// WorkSessionRepo implements work session persistence.
type WorkSessionRepo struct {
	db *DB
}

// NewWorkSessionRepo creates a new work session repository.
func (db *DB) NewWorkSessionRepo() *WorkSessionRepo {
	return &WorkSessionRepo{db: db}
}

// CreateOpen inserts a new open session; a second open session on the
// same work day fails with ErrConflict, racing callers included, since
// the check and insert run under one lock.
func (r *WorkSessionRepo) CreateOpen(ctx context.Context, workDayID int64, startedAt time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sessions {
		if s.WorkDayID == workDayID && s.EndedAt == nil {
			return 0, fmt.Errorf("idx_work_sessions_open: %w", domain.ErrConflict)
		}
	}

	r.db.sessionIDCounter++
	s := domain.WorkSession{ID: r.db.sessionIDCounter, WorkDayID: workDayID, StartedAt: startedAt.UTC()}
	r.db.sessions = append(r.db.sessions, s)
	return s.ID, nil
}

// OpenForDay returns the open session for a work day, or nil if none.
func (r *WorkSessionRepo) OpenForDay(ctx context.Context, workDayID int64) (*domain.WorkSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sessions {
		if s.WorkDayID == workDayID && s.EndedAt == nil {
			ret := s
			return &ret, nil
		}
	}
	return nil, nil
}

// Close sets the end timestamp and credits delta to the owning work day.
// Both happen under one lock, so racing closes credit the day once.
func (r *WorkSessionRepo) Close(ctx context.Context, id int64, endedAt time.Time, delta time.Duration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.sessions {
		if r.db.sessions[i].ID == id && r.db.sessions[i].EndedAt == nil {
			t := endedAt.UTC()
			r.db.sessions[i].EndedAt = &t
			for j := range r.db.workDays {
				if r.db.workDays[j].ID == r.db.sessions[i].WorkDayID {
					r.db.workDays[j].Total += delta
					break
				}
			}
			return nil
		}
	}
	return fmt.Errorf("session %d: %w", id, domain.ErrInvalidState)
}

// OpenSessionCount reports how many open sessions exist for a work day.
// Test helper for the at-most-one-open invariant.
func (db *DB) OpenSessionCount(workDayID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, s := range db.sessions {
		if s.WorkDayID == workDayID && s.EndedAt == nil {
			n++
		}
	}
	return n
}
