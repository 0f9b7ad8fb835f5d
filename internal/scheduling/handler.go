package scheduling

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/medbook/medbook/internal/domain"
	"github.com/medbook/medbook/internal/pkg/httputil"
)

// Handler handles HTTP requests for the scheduling module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new scheduling handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers the appointment routes. All of them
// require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
	})
}

// CreateRequest represents the booking request body.
type CreateRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
	Date     string `json:"appointment_date" validate:"required"`
	Time     string `json:"appointment_time" validate:"required"`
	Reason   string `json:"reason"`
}

// CreateResponse confirms a booking.
type CreateResponse struct {
	Message       string `json:"message"`
	AppointmentID string `json:"appointment_id"`
}

// Create handles POST /api/appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := httputil.GetUserID(r.Context())
	if callerID == "" {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	appt, err := h.service.Create(r.Context(), CreateInput{
		PatientID: callerID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, CreateResponse{
		Message:       "Appointment created successfully",
		AppointmentID: appt.ID,
	})
}

// ListResponse wraps the caller's appointments.
type ListResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
}

// List handles GET /api/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID := httputil.GetUserID(r.Context())
	if callerID == "" {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	appts, err := h.service.ListForCaller(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, ListResponse{Appointments: appts})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrNotPatient, Status: http.StatusForbidden},
	})
}
