package scheduling

import (
	"context"

	"github.com/medbook/medbook/internal/domain"
)

// Repository defines the interface for appointment persistence.
// Appointments are write-once: there are no update or cancel operations.
type Repository interface {
	CreateAppointment(ctx context.Context, appt *domain.Appointment) error
	// ListByPatient returns appointments where the user is the patient.
	ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error)
	// ListByDoctor returns appointments where the user is the doctor.
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)
}
