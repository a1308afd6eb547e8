package publisher

// OrderStatusEvent is published after a payment transition commits so
// downstream consumers (storefront, fulfilment) observe the change.
type OrderStatusEvent struct {
	OrderID       string  `json:"order_id"`
	OrderNumber   string  `json:"order_number"`
	OrderStatus   string  `json:"order_status"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id"`
	AmountFiat    float64 `json:"amount_fiat"`
	Currency      string  `json:"currency"`
}
