package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/handler"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/service/settings"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

type Handler struct {
	service *settings.Service
}

func NewHandler(service *settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/settings")
	{
		group.GET("", h.GetSettings)
		group.PUT("", h.UpdateSettings)
	}
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateClinicSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Field-level hhmm validation can't see across fields, so the
	// window orderings are checked here.
	open, _ := timeutil.ToMinutes(req.OpenTime)
	closeAt, _ := timeutil.ToMinutes(req.CloseTime)
	breakStart, _ := timeutil.ToMinutes(req.BreakStartTime)
	breakEnd, _ := timeutil.ToMinutes(req.BreakEndTime)
	if open >= closeAt {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("open_time must be before close_time"))
		return
	}
	if breakStart >= breakEnd {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("break_start_time must be before break_end_time"))
		return
	}

	s, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}
