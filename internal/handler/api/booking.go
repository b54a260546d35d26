package api

import (
	"net/http"

	"tour-booking/internal/domain/booking"
	reqdto "tour-booking/internal/handler/dto/request"
	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	cmds     commands.BookingCommands
	payments commands.PaymentCommands
	q        queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, payments commands.PaymentCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, payments: payments, q: q}
}

// @Summary Create booking
// @Description Create a pending booking. Repeating a request with the same Idempotency-Key returns the first result.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingCreatedResponse
// @Success 200 {object} resdto.BookingCreatedResponse "Replayed request"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	key, err := idempotencyKey(c)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	var req reqdto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ScheduleID == uuid.Nil {
		httperr.Abort(c, errs.Validation("tour_schedule_id", "Schedule is required"))
		return
	}

	in, err := req.ToInput(key)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.Create(c.Request.Context(), cl, in)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.OKWithMessage(resdto.FromBookingResult(result), "Booking created"))
}

// @Summary List bookings
// @Description Customers see their own bookings, admins see all. Newest first with keyset pagination.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status"
// @Param limit query int false "Max items (default 20, max 100)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	limit, err := intQuery(c, "limit", queries.DefaultListLimit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var filter queries.BookingFilter
	if s := c.Query("status"); s != "" {
		st := booking.Status(s)
		filter.Status = &st
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.List(c.Request.Context(), cl, filter, cursor, queries.ValidateLimit(limit))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromBookingList(items, next)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK(resp))
}

// @Summary Booking summary
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingSummaryResponse
// @Failure 401 {object} httperr.Response
// @Router /bookings/summary [get]
func (h *BookingHandler) Summary(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	summary, err := h.q.Summary(c.Request.Context(), cl)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK(resdto.FromBookingSummary(summary)))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), cl, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK(resp))
}

// @Summary Update booking
// @Description Change participants or contact details of a pending or confirmed booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Changes"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req reqdto.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	if err := h.cmds.Update(c.Request.Context(), cl, id, in); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.reply(c, cl, id, "Booking updated")
}

// @Summary Confirm booking
// @Description Reserve the spots of a pending booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/confirm [patch]
func (h *BookingHandler) Confirm(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	if err := h.cmds.Confirm(c.Request.Context(), cl, id); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.reply(c, cl, id, "Booking confirmed")
}

// @Summary Cancel booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/cancel [patch]
func (h *BookingHandler) Cancel(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	if err := h.cmds.Cancel(c.Request.Context(), cl, id, req.Reason); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.reply(c, cl, id, "Booking cancelled")
}

// @Summary Complete booking
// @Description Admin only. Marks a paid booking as completed after its tour ended.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/complete [patch]
func (h *BookingHandler) Complete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	if err := h.cmds.MarkCompleted(c.Request.Context(), cl, id); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.reply(c, cl, id, "Booking completed")
}

// @Summary Pay booking
// @Description Charge a confirmed booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ProcessPaymentRequest true "Payment method and data"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/pay [patch]
func (h *BookingHandler) Pay(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req reqdto.ProcessPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.payments.Process(c.Request.Context(), cl, id, req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKWithMessage(resdto.FromPaymentResult(result), "Payment processed"))
}

// reply returns the booking as stored after a successful command.
func (h *BookingHandler) reply(c *gin.Context, cl shared.Caller, id uuid.UUID, message string) {
	view, err := h.q.GetByID(c.Request.Context(), cl, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKWithMessage(resp, message))
}

func idempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, errs.Validation(idempotencyHeader, "Idempotency-Key must be a UUID")
	}
	return &key, nil
}
