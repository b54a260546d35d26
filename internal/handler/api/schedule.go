package api

import (
	"net/http"

	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	cmds commands.ScheduleCommands
}

func NewScheduleHandler(cmds commands.ScheduleCommands) *ScheduleHandler {
	return &ScheduleHandler{cmds: cmds}
}

// @Summary Complete schedule
// @Description Admin only. Closes a finished departure and completes its paid bookings.
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} resdto.ScheduleCompletionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /schedules/{id}/complete [patch]
func (h *ScheduleHandler) Complete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	result, err := h.cmds.Complete(c.Request.Context(), cl, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKWithMessage(resdto.ScheduleCompletionResponse{
		ScheduleID:        result.ScheduleID,
		CompletedBookings: result.CompletedBookings,
	}, "Schedule completed"))
}
