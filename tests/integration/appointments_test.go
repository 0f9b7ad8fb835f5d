//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/medbook/medbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentList struct {
	Appointments []struct {
		ID        string `json:"appointment_id"`
		PatientID string `json:"patient_id"`
		DoctorID  string `json:"doctor_id"`
		Date      string `json:"appointment_date"`
		Time      string `json:"appointment_time"`
		Reason    string `json:"reason"`
		Status    string `json:"status"`
	} `json:"appointments"`
}

// registerUser registers a fresh user through the API and returns its id.
// The client keeps the user's token.
func registerUser(t *testing.T, client *testutil.Client, name, role string) string {
	t.Helper()

	resp, err := client.POST("/api/auth/register", map[string]string{
		"email":    testutil.RandomEmail(),
		"password": "pw123",
		"name":     name,
		"role":     role,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result authResult
	testutil.DecodeJSON(t, resp, &result)
	client.Token = result.AccessToken
	return result.User.ID
}

func TestAppointments_BookAndListAsPatient(t *testing.T) {
	doctorClient := newTestClient(t)
	doctorID := registerUser(t, doctorClient, "Dr. Bob", "doctor")

	patientClient := newTestClient(t)
	patientID := registerUser(t, patientClient, "Alice", "patient")

	resp, err := patientClient.POST("/api/appointments", map[string]string{
		"doctor_id":        doctorID,
		"appointment_date": "2024-01-01",
		"appointment_time": "10:00",
		"reason":           "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		AppointmentID string `json:"appointment_id"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.NotEmpty(t, created.AppointmentID)

	resp, err = patientClient.GET("/api/appointments")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list appointmentList
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list.Appointments, 1)
	appt := list.Appointments[0]
	assert.Equal(t, created.AppointmentID, appt.ID)
	assert.Equal(t, patientID, appt.PatientID)
	assert.Equal(t, doctorID, appt.DoctorID)
	assert.Equal(t, "2024-01-01", appt.Date)
	assert.Equal(t, "10:00", appt.Time)
	assert.Equal(t, "scheduled", appt.Status)
}

func TestAppointments_DoctorCannotBook(t *testing.T) {
	doctorClient := newTestClient(t)
	doctorID := registerUser(t, doctorClient, "Dr. Bob", "doctor")

	resp, err := doctorClient.POST("/api/appointments", map[string]string{
		"doctor_id":        doctorID,
		"appointment_date": "2024-01-01",
		"appointment_time": "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAppointments_MissingFields(t *testing.T) {
	patientClient := newTestClient(t)
	registerUser(t, patientClient, "Alice", "patient")

	resp, err := patientClient.POST("/api/appointments", map[string]string{
		"doctor_id": "some-doctor",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAppointments_DoctorSeesOnlyOwnBookings(t *testing.T) {
	doctor1 := newTestClient(t)
	doctor1ID := registerUser(t, doctor1, "Dr. One", "doctor")

	doctor2 := newTestClient(t)
	doctor2ID := registerUser(t, doctor2, "Dr. Two", "doctor")

	patient := newTestClient(t)
	registerUser(t, patient, "Alice", "patient")

	for _, doctorID := range []string{doctor1ID, doctor1ID, doctor2ID} {
		resp, err := patient.POST("/api/appointments", map[string]string{
			"doctor_id":        doctorID,
			"appointment_date": "2024-01-01",
			"appointment_time": "10:00",
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := doctor1.GET("/api/appointments")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list appointmentList
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list.Appointments, 2)
	for _, appt := range list.Appointments {
		assert.Equal(t, doctor1ID, appt.DoctorID)
	}
}

func TestAppointments_PatientsAreIsolated(t *testing.T) {
	doctor := newTestClient(t)
	doctorID := registerUser(t, doctor, "Dr. Bob", "doctor")

	alice := newTestClient(t)
	registerUser(t, alice, "Alice", "patient")

	mallory := newTestClient(t)
	registerUser(t, mallory, "Mallory", "patient")

	resp, err := alice.POST("/api/appointments", map[string]string{
		"doctor_id":        doctorID,
		"appointment_date": "2024-01-01",
		"appointment_time": "10:00",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = mallory.GET("/api/appointments")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list appointmentList
	testutil.DecodeJSON(t, resp, &list)
	assert.Empty(t, list.Appointments)
}
