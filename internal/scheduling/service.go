// Package scheduling implements appointment booking and listing.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medbook/medbook/internal/domain"
	"github.com/medbook/medbook/internal/identity"
)

// UserDirectory resolves users so role checks always see the current role
// from the store, never a role baked into a token.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Service implements the scheduling business logic.
type Service struct {
	repo  Repository
	users UserDirectory
}

// NewService creates a new scheduling service.
func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// CreateInput contains the booking request. The patient id is the verified
// caller identity, never client-supplied. DoctorID is stored as given; it
// is not checked against the doctor directory.
type CreateInput struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Reason    string
}

// Create books an appointment. Only callers whose current role is patient
// may book; everyone else gets ErrNotPatient. Double-booking is not
// detected.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Appointment, error) {
	caller, err := s.users.GetUserByID(ctx, input.PatientID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, ErrNotPatient
		}
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if caller.Role != domain.RolePatient {
		return nil, ErrNotPatient
	}

	appt := &domain.Appointment{
		ID:        uuid.NewString(),
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		Date:      input.Date,
		Time:      input.Time,
		Reason:    input.Reason,
		Status:    domain.AppointmentScheduled,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return appt, nil
}

// ListForCaller returns the caller's appointments. Doctors see bookings
// where they are the doctor, everyone else sees bookings where they are
// the patient. The role is read fresh on every call.
func (s *Service) ListForCaller(ctx context.Context, callerID string) ([]domain.Appointment, error) {
	role := domain.RolePatient
	caller, err := s.users.GetUserByID(ctx, callerID)
	switch {
	case err == nil:
		role = caller.Role
	case errors.Is(err, identity.ErrUserNotFound):
		// Stale subject: fall through to the patient filter, which matches
		// nothing for an unknown id.
	default:
		return nil, fmt.Errorf("resolve caller: %w", err)
	}

	var appts []domain.Appointment
	if role == domain.RoleDoctor {
		appts, err = s.repo.ListByDoctor(ctx, callerID)
	} else {
		appts, err = s.repo.ListByPatient(ctx, callerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}
