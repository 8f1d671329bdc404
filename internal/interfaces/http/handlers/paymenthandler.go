package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/interfaces/dto"
	"github.com/orris-inc/paygate/internal/shared/id"
	"github.com/orris-inc/paygate/internal/shared/logger"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

type PaymentHandler struct {
	service *appPayment.Service
	logger  logger.Interface
}

func NewPaymentHandler(service *appPayment.Service, logger logger.Interface) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// ListMethods handles GET /methods?amount=&country=&currency=
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	var filter appPayment.MethodFilter

	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "amount must be an integer in minor units")
			return
		}
		filter.Amount = &amount
	}
	if raw := c.Query("country"); raw != "" {
		country := strings.ToUpper(raw)
		filter.Country = &country
	}
	if raw := c.Query("currency"); raw != "" {
		currency := strings.ToUpper(raw)
		filter.Currency = &currency
	}

	methods, err := h.service.EligibleMethods(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToPaymentMethodResponses(methods))
}

// CreatePayment handles POST /payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind payment request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.OrderID == "" {
		orderID, err := id.NewOrderID()
		if err != nil {
			h.logger.Errorw("failed to generate order id", "error", err)
			utils.ErrorResponseWithError(c, err)
			return
		}
		req.OrderID = orderID
	}

	ctx := c.Request.Context()
	currency := strings.ToUpper(req.Currency)
	paymentReq, err := h.service.NewPaymentRequest(ctx, &req.Amount, req.CountryFilter(), &currency)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := req.Apply(paymentReq); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := paymentReq.Validate(ctx); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.NewSubmitter().Execute(ctx, paymentReq)
	if err != nil {
		h.logger.Errorw("failed to submit payment", "order_id", req.OrderID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.ToCreatePaymentResponse(req.OrderID, result), "payment created")
}

// HandleReturn handles the payer's redirect: GET /payments/return
func (h *PaymentHandler) HandleReturn(c *gin.Context) {
	h.handleResponse(c, domainPayment.ChannelQuery, c.Request.URL.Query())
}

// HandlePostback handles the gateway's form-encoded notification: POST /payments/postback
func (h *PaymentHandler) HandlePostback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid form body")
		return
	}
	h.handleResponse(c, domainPayment.ChannelCallback, c.Request.PostForm)
}

func (h *PaymentHandler) handleResponse(c *gin.Context, channel domainPayment.Channel, values map[string][]string) {
	resp, err := h.service.NewResponseHandler().Execute(c.Request.Context(), channel, values)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToGatewayResponseDTO(resp))
}
