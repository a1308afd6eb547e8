package handlers

import (
	"errors"
	"net/http"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/usecase/checkout"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkoutUsecase checkout.CheckoutUsecase
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutUsecase checkout.CheckoutUsecase, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUsecase: checkoutUsecase,
		logger:          logger,
	}
}

type validateCheckoutRequest struct {
	UserID      string  `json:"userId"`
	GuestCartID string  `json:"guestCartId"`
	CartID      string  `json:"cartId" binding:"required"`
	ClientEmail string  `json:"clientEmail"`
	Currency    string  `json:"currency" binding:"required"`
	ClientTotal float64 `json:"clientTotal"`
}

type validateCheckoutResponse struct {
	Success     bool        `json:"success"`
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Subtotal    float64     `json:"subtotal"`
	Tax         float64     `json:"tax"`
	Shipping    float64     `json:"shipping"`
	Total       float64     `json:"total"`
	Currency    string      `json:"currency"`
	Items       []orderItem `json:"items"`
}

// ValidateCheckout recomputes the cart totals server-side and creates the
// order awaiting payment. The client's displayed total is checked, never
// trusted.
func (h *CheckoutHandler) ValidateCheckout(c *gin.Context) {
	var req validateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request format"})
		return
	}

	order, err := h.checkoutUsecase.ValidateCheckout(&checkout.ValidateCheckoutInput{
		UserID:      req.UserID,
		GuestCartID: req.GuestCartID,
		CartID:      req.CartID,
		ClientEmail: req.ClientEmail,
		Currency:    req.Currency,
		ClientTotal: req.ClientTotal,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart),
			errors.Is(err, domain.ErrProductUnavailable),
			errors.Is(err, domain.ErrUnsupportedCurrency),
			errors.Is(err, domain.ErrTotalMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			h.logger.Error("checkout validation failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("cart_id", req.CartID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, validateCheckoutResponse{
		Success:     true,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Subtotal:    order.Subtotal,
		Tax:         order.Tax,
		Shipping:    order.Shipping,
		Total:       order.Total,
		Currency:    order.Currency,
		Items:       toOrderItems(order.Items),
	})
}
