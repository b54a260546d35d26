//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/handler/api"
	reqdto "tour-booking/internal/handler/dto/request"
	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/httptest"
	commandsmock "tour-booking/tests/mock/commands"
	queriesmock "tour-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	admin        shared.Caller
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	h := api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.admin = shared.Caller{UserID: uuid.New(), Role: shared.RoleAdmin}

	g := s.router.Group("/payments", fakeAuth(s.admin))
	g.GET("/:id", h.Get)
	g.PATCH("/:id/refund", h.Refund)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestGet() {
	processed := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	view := &queries.PaymentView{
		ID:               uuid.New(),
		BookingID:        uuid.New(),
		BookingReference: "TB-TEST000001",
		Method:           payment.MethodCreditCard,
		Amount:           money.FromCents(30000),
		Currency:         "PEN",
		Status:           payment.StatusCompleted,
		TransactionID:    "TX-1",
		ProcessedAt:      &processed,
		CreatedAt:        processed,
	}

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.admin, view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/"+view.ID.String(), nil, "bearer-token")

		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("completed", body.Status)
		s.Equal("300.00", body.Amount.String())
	})

	s.Run("not found", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.admin, view.ID).Return(nil, errs.NotFoundf("payment %s not found", view.ID))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/"+view.ID.String(), nil, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *PaymentHandlerTestSuite) TestRefund() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/refund"

	s.Run("success", func() {
		s.mockCommands.EXPECT().Refund(gomock.Any(), s.admin, paymentID, "Weather").
			Return(&commands.PaymentResult{PaymentID: paymentID, BookingID: uuid.New(), Status: payment.StatusRefunded}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqdto.RefundPaymentRequest{Reason: "Weather"}, "bearer-token")

		var body resdto.PaymentResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("refunded", body.Status)
	})

	s.Run("payment not completed", func() {
		s.mockCommands.EXPECT().Refund(gomock.Any(), s.admin, paymentID, "Weather").
			Return(nil, errs.Statef("only completed payments can be refunded"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqdto.RefundPaymentRequest{Reason: "Weather"}, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "only completed payments")
	})
}
