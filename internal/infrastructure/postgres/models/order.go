package models

import (
	"time"

	"github.com/agroparts/payment-service/internal/domain"
)

type OrderModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	OrderNumber string `gorm:"uniqueIndex:idx_order_number"`
	UserID      string `gorm:"index:idx_user"`
	GuestCartID string
	ClientEmail string

	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
	Currency string

	Status        domain.OrderStatus   `gorm:"index:idx_status"`
	PaymentStatus domain.PaymentStatus `gorm:"index:idx_payment_status"`

	SessionID        string `gorm:"index:idx_session"`
	MerchantRef      string
	TransactionID    string `gorm:"index:idx_transaction"`
	SessionPurpose   string
	SessionCreatedAt time.Time
	RawPayload       string `gorm:"type:jsonb"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	CreatedAt time.Time `gorm:"index:idx_created_at"`
	UpdatedAt time.Time
}

type OrderItemModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	OrderID   string `gorm:"type:uuid;index"`
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int32
}
