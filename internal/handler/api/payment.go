package api

import (
	"net/http"

	reqdto "tour-booking/internal/handler/dto/request"
	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Get payment status
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.GetStatus(c.Request.Context(), cl, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromPaymentView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK(resp))
}

// @Summary Refund payment
// @Description Admin only. Refunds a completed payment and cancels its booking.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.RefundPaymentRequest true "Refund reason"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/refund [patch]
func (h *PaymentHandler) Refund(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req reqdto.RefundPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.Refund(c.Request.Context(), cl, id, req.Reason)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKWithMessage(resdto.FromPaymentResult(result), "Payment refunded"))
}
