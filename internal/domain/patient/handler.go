package patient

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the staff API routes and the public self-service
// registration route.
func (h *Handler) RegisterRoutes(api *echo.Group, public *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.PATCH("/patients/:id/status", h.UpdatePatientStatus)

	public.POST("/register", h.CreatePatient)
}

type createRequest struct {
	FullName         string `json:"full_name"`
	Age              *int   `json:"age"`
	Gender           string `json:"gender"`
	PhoneNumber      string `json:"phone_number"`
	AppointmentDate  string `json:"appointment_date"`
	IllnessDiagnosis string `json:"illness_diagnosis"`
	Symptoms         string `json:"symptoms"`
	Notes            string `json:"notes"`
}

type editRequest struct {
	createRequest
	Status string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (req *createRequest) toPatient() (*Patient, error) {
	if req.Age == nil {
		return nil, validationErr("age", "is required")
	}

	p := &Patient{
		FullName:         req.FullName,
		Age:              *req.Age,
		Gender:           req.Gender,
		PhoneNumber:      req.PhoneNumber,
		IllnessDiagnosis: req.IllnessDiagnosis,
	}
	if req.Symptoms != "" {
		p.Symptoms = &req.Symptoms
	}
	if req.Notes != "" {
		p.Notes = &req.Notes
	}
	if req.AppointmentDate != "" {
		date, err := time.Parse(DateLayout, req.AppointmentDate)
		if err != nil {
			return nil, validationErr("appointment_date", "must be formatted as YYYY-MM-DD")
		}
		p.AppointmentDate = date
	}
	return p, nil
}

// ListPatients handles the list/search/filter flow. Absent parameters relax
// constraints; the response carries both view modes plus the total count.
func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Gender: c.QueryParam("gender"),
	}

	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(Present(items), total, pg.Limit, pg.Offset))
}

// CreatePatient serves both the staff route and public self-service
// registration; for the latter the actor is empty.
func (h *Handler) CreatePatient(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := req.toPatient()
	if err != nil {
		return httpError(err)
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Register(c.Request().Context(), p, actor); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req editRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := req.toPatient()
	if err != nil {
		return httpError(err)
	}
	p.ID = id
	p.Status = Status(req.Status)

	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), p, actor); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePatientStatus applies a status transition. The status may arrive in
// the body or, matching the quick-action links, as a query parameter. On
// success the list the caller holds is stale and must be refetched.
func (h *Handler) UpdatePatientStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		req.Status = c.QueryParam("status")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.SetStatus(c.Request().Context(), id, Status(req.Status), actor); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      id,
		"status":  req.Status,
	})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// httpError maps domain errors onto HTTP responses. Persistence failures
// surface as a generic message; no retry is attempted.
func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "status must be Pending, Done, Archived, or Rescheduled")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong, please try again")
	}
}
