package checkout

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type CheckoutUsecase interface {
	ValidateCheckout(input *ValidateCheckoutInput) (*domain.Order, error)
}

type ValidateCheckoutInput struct {
	UserID      string
	GuestCartID string
	CartID      string
	ClientEmail string
	Currency    string
	// ClientTotal is informational only; a mismatch against the
	// server-computed total rejects the checkout, it never overrides it.
	ClientTotal float64
}

type DefaultCheckoutUsecase struct {
	OrderRepo   domain.OrderRepository
	CartRepo    domain.CartRepository
	ProductRepo domain.ProductRepository
	AuditRepo   domain.AuditRepository
	Cfg         config.Checkout

	numberSuffix func() string
}

func NewDefaultCheckoutUsecase(
	orderRepo domain.OrderRepository,
	cartRepo domain.CartRepository,
	productRepo domain.ProductRepository,
	auditRepo domain.AuditRepository,
	cfg config.Checkout) *DefaultCheckoutUsecase {

	suffixGen, err := nanoid.CustomASCII("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ", 6)
	if err != nil {
		panic(err)
	}

	return &DefaultCheckoutUsecase{
		OrderRepo:    orderRepo,
		CartRepo:     cartRepo,
		ProductRepo:  productRepo,
		AuditRepo:    auditRepo,
		Cfg:          cfg,
		numberSuffix: suffixGen,
	}
}

// ValidateCheckout recomputes the order totals from the catalog price
// source and creates the order in AWAITING_PAYMENT/PENDING. Nothing is
// persisted when validation fails, so aborting is always safe.
func (uc *DefaultCheckoutUsecase) ValidateCheckout(input *ValidateCheckoutInput) (*domain.Order, error) {
	if !uc.currencySupported(input.Currency) {
		return nil, domain.ErrUnsupportedCurrency
	}

	cartItems, err := uc.CartRepo.GetCartItems(input.CartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, domain.ErrEmptyCart
	}

	productIDs := make([]string, len(cartItems))
	for i, item := range cartItems {
		productIDs[i] = item.ProductID
	}
	products, err := uc.ProductRepo.GetProductsByIDs(productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	priceByID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		priceByID[p.ID] = p
	}

	var subtotal float64
	orderItems := make([]domain.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		product, ok := priceByID[item.ProductID]
		if !ok || !product.Active {
			return nil, domain.ErrProductUnavailable
		}
		subtotal += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
	}

	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * uc.Cfg.TaxRate)
	shipping := uc.Cfg.ShippingFlat
	if uc.Cfg.FreeShippingOver > 0 && subtotal >= uc.Cfg.FreeShippingOver {
		shipping = 0
	}
	total := roundCents(subtotal + tax + shipping)

	if input.ClientTotal > 0 && math.Abs(input.ClientTotal-total) >= 0.005 {
		slog.Warn("checkout total mismatch",
			"client_total", input.ClientTotal,
			"server_total", total,
			"cart_id", input.CartID)
		return nil, domain.ErrTotalMismatch
	}

	now := time.Now()
	order := &domain.Order{
		ID:            uuid.New().String(),
		OrderNumber:   fmt.Sprintf("ORD-%d-%s", now.Unix(), uc.numberSuffix()),
		UserID:        input.UserID,
		GuestCartID:   input.GuestCartID,
		ClientEmail:   input.ClientEmail,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		Total:         total,
		Currency:      input.Currency,
		Status:        domain.OrderStatusAwaitingPayment,
		PaymentStatus: domain.PaymentStatusPending,
		Items:         orderItems,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := uc.OrderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.logOrderCreated(order)

	return order, nil
}

func (uc *DefaultCheckoutUsecase) logOrderCreated(order *domain.Order) {
	metadata, _ := json.Marshal(map[string]interface{}{
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"currency":     order.Currency,
	})
	if err := uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:   domain.AuditOrderCreated,
		Actor:    order.UserID,
		EntityID: order.ID,
		Metadata: string(metadata),
	}); err != nil {
		slog.Error("failed to write ORDER_CREATED audit entry", "order_id", order.ID, "error", err.Error())
	}
}

func (uc *DefaultCheckoutUsecase) currencySupported(currency string) bool {
	for _, c := range uc.Cfg.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

func roundCents(amount float64) float64 {
	return domain.FromMinorUnits(domain.ToMinorUnits(amount))
}
