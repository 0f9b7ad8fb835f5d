// Package postgres provides the PostgreSQL implementation of the
// scheduling repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medbook/medbook/internal/domain"
)

// Repository implements scheduling.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateAppointment inserts a new appointment.
func (r *Repository) CreateAppointment(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.DoctorID,
		appt.Date,
		appt.Time,
		appt.Reason,
		appt.Status,
		appt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// ListByPatient returns appointments where the user is the patient.
func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	return r.list(ctx, "patient_id", patientID)
}

// ListByDoctor returns appointments where the user is the doctor.
func (r *Repository) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return r.list(ctx, "doctor_id", doctorID)
}

// list filters on one of the two user id columns. The column name comes
// from the two callers above, never from input.
func (r *Repository) list(ctx context.Context, column, userID string) ([]domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT id, patient_id, doctor_id, appointment_date, appointment_time, reason, status, created_at
		FROM appointments
		WHERE %s = $1
		ORDER BY created_at
	`, column)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by %s: %w", column, err)
	}
	defer rows.Close()

	return scanAppointments(rows, column)
}

func scanAppointments(rows pgx.Rows, column string) ([]domain.Appointment, error) {
	appts := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.DoctorID,
			&a.Date,
			&a.Time,
			&a.Reason,
			&a.Status,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments by %s: %w", column, err)
	}
	return appts, nil
}
