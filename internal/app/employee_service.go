package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"timeclock/internal/domain"
)

// EmployeeInput carries the attributes for employee creation.
type EmployeeInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	WorkPlaceID int64
}

// EmployeeService handles employee and workplace lifecycle, including
// personal token minting.
type EmployeeService struct {
	employees  domain.EmployeeRepository
	workplaces domain.WorkPlaceRepository
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(employees domain.EmployeeRepository, workplaces domain.WorkPlaceRepository) *EmployeeService {
	return &EmployeeService{employees: employees, workplaces: workplaces}
}

// Create validates input, mints a personal token and stores the employee.
// The plaintext token is returned exactly once; only its digest is kept.
func (s *EmployeeService) Create(ctx context.Context, ownerID int64, in EmployeeInput) (*domain.Employee, string, error) {
	if err := domain.ValidateRequired("full_name", in.FullName); err != nil {
		return nil, "", err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, "", err
	}
	if err := domain.ValidatePhoneNumber(in.PhoneNumber); err != nil {
		return nil, "", err
	}
	wp, err := s.workplaces.GetByID(ctx, in.WorkPlaceID)
	if err != nil {
		return nil, "", err
	}
	if wp == nil {
		return nil, "", &domain.ValidationError{Field: "workplace_id", Reason: "workplace does not exist"}
	}

	token, err := generatePersonalToken()
	if err != nil {
		return nil, "", err
	}
	created, err := s.employees.Create(ctx, domain.Employee{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		IsActive:    true,
		TokenDigest: hashPersonalToken(token),
		UserID:      ownerID,
		WorkPlaceID: in.WorkPlaceID,
	})
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Get returns an employee owned by ownerID, or ErrNotFound.
func (s *EmployeeService) Get(ctx context.Context, ownerID, id int64) (*domain.Employee, error) {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.UserID != ownerID {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Delete removes an employee and, through ownership, all of its work days
// and sessions.
func (s *EmployeeService) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.employees.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RegenerateToken mints a replacement personal token, revoking the old
// one, and returns the new plaintext exactly once.
func (s *EmployeeService) RegenerateToken(ctx context.Context, ownerID, id int64) (string, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return "", err
	}
	token, err := generatePersonalToken()
	if err != nil {
		return "", err
	}
	if err := s.employees.UpdateTokenDigest(ctx, id, hashPersonalToken(token)); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveByToken maps a personal token to an active employee. The token is
// looked up by digest, never compared as plaintext.
func (s *EmployeeService) ResolveByToken(ctx context.Context, token string) (*domain.Employee, error) {
	e, err := s.employees.GetByTokenDigest(ctx, hashPersonalToken(token))
	if err != nil {
		return nil, err
	}
	if e == nil || !e.IsActive {
		return nil, fmt.Errorf("personal token: %w", domain.ErrNotFound)
	}
	return e, nil
}

// CreateWorkplace stores a new workplace with a unique title and address.
func (s *EmployeeService) CreateWorkplace(ctx context.Context, title, address string) (*domain.WorkPlace, error) {
	if err := domain.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := domain.ValidateRequired("address", address); err != nil {
		return nil, err
	}
	return s.workplaces.Create(ctx, title, address)
}

// ListWorkplaces returns all workplaces.
func (s *EmployeeService) ListWorkplaces(ctx context.Context) ([]domain.WorkPlace, error) {
	return s.workplaces.List(ctx)
}

// DeleteWorkplace removes a workplace; it fails with ErrConflict while
// employees are still assigned to it.
func (s *EmployeeService) DeleteWorkplace(ctx context.Context, id int64) error {
	wp, err := s.workplaces.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wp == nil {
		return fmt.Errorf("workplace %d: %w", id, domain.ErrNotFound)
	}
	return s.workplaces.Delete(ctx, id)
}

func generatePersonalToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashPersonalToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
