package domain

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	GetOrderByNumber(orderNumber string) (*Order, error)
	GetOrderBySessionID(sessionID string) (*Order, error)
	GetOrderByTransactionID(transactionID string) (*Order, error)
	SavePaymentSession(orderID string, session PaymentSession) error

	// ApplyPaymentTransition conditionally writes the new statuses and the
	// raw processor payload onto the order. The write is guarded by
	// CanTransition against the currently stored payment status; a stale
	// event yields ErrStaleTransition and leaves the row untouched.
	ApplyPaymentTransition(orderID string, payment PaymentStatus, order OrderStatus, transactionID, rawPayload string) error

	// ApplyClaimedTransition inserts the idempotency claim for the
	// transaction ID and applies the conditional transition in a single
	// database transaction. A duplicate claim returns ErrDuplicateEvent;
	// a stale or failed apply rolls the claim back so a redelivery can
	// try again. This is the only write path a recognized webhook status
	// takes.
	ApplyClaimedTransition(transactionID, orderID string, payment PaymentStatus, order OrderStatus, rawPayload string) error
}

type PaymentEventRepository interface {
	// RecordEvent appends a delivery to the transaction log. Every inbound
	// call is recorded, duplicates included.
	RecordEvent(event *PaymentEvent) error
}

type CartRepository interface {
	GetCartItems(cartID string) ([]*CartItem, error)
	ClearCart(cartID string) error
	ClearUserCart(userID string) error
}

type ProductRepository interface {
	GetProductsByIDs(ids []string) ([]*Product, error)
}

type NotificationRepository interface {
	CreateNotification(n *Notification) error
}

type AuditRepository interface {
	CreateEntry(entry *AuditEntry) error
}
