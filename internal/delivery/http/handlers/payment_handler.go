package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
	"github.com/agroparts/payment-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentUsecase payment.PaymentUsecase
	logger         *zap.Logger
}

func NewPaymentHandler(paymentUsecase payment.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		logger:         logger,
	}
}

type createSessionRequest struct {
	OrderID        string   `json:"orderId" binding:"required"`
	Purpose        string   `json:"purpose"`
	PaymentMethods []string `json:"paymentMethods"`
}

func (h *PaymentHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request format"})
		return
	}

	out, err := h.paymentUsecase.CreateSession(c.Request.Context(), &payment.CreateSessionInput{
		OrderID:        req.OrderID,
		Purpose:        domain.SessionPurpose(req.Purpose),
		PaymentMethods: req.PaymentMethods,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
		case errors.Is(err, domain.ErrOrderNotPayable),
			errors.Is(err, domain.ErrUnsupportedCurrency):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, domain.ErrSessionFailed):
			// Processor-side failure; order stays payable for a retry.
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment session failed"})
		default:
			h.logger.Error("create session failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("order_id", req.OrderID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sessionId":   out.SessionID,
		"redirectUrl": out.RedirectURL,
	})
}

// Webhook receives the processor's asynchronous status callbacks. The body
// is read raw because the signature covers the exact bytes sent. Any
// reconciliation outcome short of an internal failure is acknowledged with
// 200 so the processor does not retry events we have already dealt with.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}

	signature := c.GetHeader(tjpay.SignatureHeader)

	result, err := h.paymentUsecase.HandleWebhook(c.Request.Context(), rawBody, signature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadSignature):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "signature mismatch"})
		case errors.Is(err, domain.ErrInvalidPayload):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		default:
			h.logger.Error("webhook processing failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"outcome": result.Outcome,
	})
}

type orderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int32   `json:"quantity"`
}

type orderResponse struct {
	Success       bool        `json:"success"`
	OrderID       string      `json:"orderId"`
	OrderNumber   string      `json:"orderNumber"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Shipping      float64     `json:"shipping"`
	Total         float64     `json:"total"`
	Currency      string      `json:"currency"`
	Items         []orderItem `json:"items"`
}

func (h *PaymentHandler) GetOrder(c *gin.Context) {
	order, err := h.paymentUsecase.GetOrderByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		h.logger.Error("order lookup failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("order_id", c.Param("id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, orderResponse{
		Success:       true,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		Currency:      order.Currency,
		Items:         toOrderItems(order.Items),
	})
}

func toOrderItems(items []domain.OrderItem) []orderItem {
	out := make([]orderItem, len(items))
	for i, item := range items {
		out[i] = orderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return out
}
