package schedule

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	"github.com/clinicdesk/scheduler-api/internal/service/schedule"
	"github.com/clinicdesk/scheduler-api/pkg/errors"
	"github.com/clinicdesk/scheduler-api/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

// GetGrid returns the rooms-by-slots view for one day.
func (h *Handler) GetGrid(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httputil.RespondWithError(c, errors.BadRequest("date is required", nil))
		return
	}

	view, err := h.service.Grid(c.Request.Context(), date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, view)
}

// GetSlots returns the configured slot boundaries of a working day.
func (h *Handler) GetSlots(c *gin.Context) {
	slots, err := h.service.Slots()
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

// GetConflicts is a read-only dry run of the conflict detector, used by
// the calendar to paint warnings before the user drops a card.
func (h *Handler) GetConflicts(c *gin.Context) {
	roomID, err := uuid.Parse(c.Query("room_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid room ID", err))
		return
	}

	q := scheduling.ConflictQuery{
		RoomID: roomID,
		Date:   c.Query("date"),
		Start:  c.Query("start"),
	}
	if q.Date == "" || q.Start == "" {
		httputil.RespondWithError(c, errors.BadRequest("date and start are required", nil))
		return
	}
	if end := c.Query("end"); end != "" {
		q.End = &end
	}
	if exclude := c.Query("exclude"); exclude != "" {
		id, err := uuid.Parse(exclude)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid exclude ID", err))
			return
		}
		q.Exclude = id
	}

	conflicts, err := h.service.Conflicts(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, conflicts)
}

// MoveAppointment runs one drag-and-drop gesture. A rejected move
// answers with the outcome in the error details so the client can show
// the right dialog and retry with the confirm flags set.
func (h *Handler) MoveAppointment(c *gin.Context) {
	var req model.MoveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	outcome, err := h.service.Move(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithErrorDetails(c, err, outcome)
		return
	}

	httputil.RespondWithSuccess(c, outcome)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sched := r.Group("/schedule")
	{
		sched.GET("/grid", h.GetGrid)
		sched.GET("/slots", h.GetSlots)
		sched.GET("/conflicts", h.GetConflicts)
		sched.POST("/move", h.MoveAppointment)
	}
}
