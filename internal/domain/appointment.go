package domain

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
)

// Appointment is a booking made by a patient with a doctor.
// Date and time are kept as the opaque strings the client supplied;
// the service performs no calendar arithmetic on them.
type Appointment struct {
	ID        string            `json:"appointment_id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	Date      string            `json:"appointment_date"`
	Time      string            `json:"appointment_time"`
	Reason    string            `json:"reason"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}
