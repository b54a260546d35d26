package api

import (
	"net/http"

	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Availability for a date
// @Description Open schedules of a tour on one day
// @Tags availability
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DateAvailabilityResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /tours/{tourId}/availability [get]
func (h *AvailabilityHandler) ByDate(c *gin.Context) {
	tourID, err := uuidParam(c, "tourId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.ByDate(c.Request.Context(), tourID, date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.DateAvailabilityResponse](c, view)
}

// @Summary Availability for a date range
// @Description One entry per day, at most 90 days apart
// @Tags availability
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} resdto.RangeAvailabilityResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /tours/{tourId}/availability/range [get]
func (h *AvailabilityHandler) ByRange(c *gin.Context) {
	tourID, err := uuidParam(c, "tourId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	from, err := dateQuery(c, "from")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.ByRange(c.Request.Context(), tourID, from, to)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.RangeAvailabilityResponse](c, view)
}

// @Summary Availability of several tours
// @Tags availability
// @Produce json
// @Param ids query string true "Comma separated tour IDs"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.MultiTourAvailabilityResponse
// @Failure 422 {object} httperr.Response
// @Router /availability/tours [get]
func (h *AvailabilityHandler) ByMultipleTours(c *gin.Context) {
	ids, err := uuidListQuery(c, "ids")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.ByMultipleTours(c.Request.Context(), ids, date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.MultiTourAvailabilityResponse](c, view)
}

// @Summary Next available dates
// @Tags availability
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param limit query int false "Number of dates (default 10, max 50)"
// @Success 200 {object} resdto.NextAvailabilityResponse
// @Failure 404 {object} httperr.Response
// @Router /tours/{tourId}/availability/next [get]
func (h *AvailabilityHandler) NextAvailable(c *gin.Context) {
	tourID, err := uuidParam(c, "tourId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	limit, err := intQuery(c, "limit", queries.DefaultNextLimit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.NextAvailable(c.Request.Context(), tourID, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.NextAvailabilityResponse](c, view)
}

// @Summary Check spots on a schedule
// @Tags availability
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param scheduleId path string true "Schedule ID"
// @Param spots query int true "Spots needed"
// @Success 200 {object} resdto.SpotsCheckResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /tours/{tourId}/schedules/{scheduleId}/spots-check [get]
func (h *AvailabilityHandler) SpotsCheck(c *gin.Context) {
	tourID, err := uuidParam(c, "tourId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	scheduleID, err := uuidParam(c, "scheduleId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	spots, err := intQuery(c, "spots", 0)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.SpotsCheck(c.Request.Context(), tourID, scheduleID, spots)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.SpotsCheckResponse](c, view)
}

// @Summary Month calendar
// @Tags availability
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /tours/{tourId}/availability/calendar [get]
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	tourID, err := uuidParam(c, "tourId")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	year, err := intQuery(c, "year", 0)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	month, err := intQuery(c, "month", 0)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.Calendar(c.Request.Context(), tourID, year, month)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respond[resdto.CalendarResponse](c, view)
}

func respond[T any](c *gin.Context, view any) {
	resp, err := resdto.FromAvailability[T](view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK(resp))
}
