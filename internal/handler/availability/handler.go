package availability

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/service/availability"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	avail := r.Group("/availability")
	{
		avail.GET("/slots", h.GetSlots)
		avail.GET("/grid", h.GetGrid)
		avail.GET("/bounds", h.GetBounds)
	}
}

// GetSlots returns the slot list for a single doctor on a single date.
func (h *Handler) GetSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	specialtyID, ok := h.parseSpecialty(c)
	if !ok {
		return
	}

	slots, err := h.service.SlotsForDoctor(c.Request.Context(), doctorID, specialtyID, date)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  date,
		"slots": slots,
	}))
}

// GetGrid returns the doctor-by-time grid for a date. With view=week it
// returns one grid per day of the Monday-anchored week containing the date.
func (h *Handler) GetGrid(c *gin.Context) {
	doctorIDs, ok := h.parseDoctorIDs(c)
	if !ok {
		return
	}

	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	specialtyID, ok := h.parseSpecialty(c)
	if !ok {
		return
	}

	switch view := c.DefaultQuery("view", "day"); view {
	case "day":
		grid, err := h.service.DayGrid(c.Request.Context(), doctorIDs, specialtyID, date)
		if err != nil {
			handler.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(grid))
	case "week":
		grids, err := h.service.WeekGrid(c.Request.Context(), doctorIDs, specialtyID, date)
		if err != nil {
			handler.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(grids))
	default:
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("view must be day or week"))
	}
}

// GetBounds returns the display window for a doctor's day, for callers
// that render a timeline and need the first and last visible times.
func (h *Handler) GetBounds(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	date, ok := h.parseDate(c)
	if !ok {
		return
	}

	specialtyID, ok := h.parseSpecialty(c)
	if !ok {
		return
	}

	bounds, err := h.service.DisplayBounds(c.Request.Context(), doctorID, specialtyID, date)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bounds))
}

func (h *Handler) parseDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if _, err := timeutil.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
		return "", false
	}
	return date, true
}

func (h *Handler) parseSpecialty(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("specialty_id")
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid specialty ID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) parseDoctorIDs(c *gin.Context) ([]uuid.UUID, bool) {
	raw := c.Query("doctor_ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("doctor_ids is required"))
		return nil, false
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID: "+p))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
