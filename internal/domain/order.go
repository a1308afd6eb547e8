package domain

import "time"

type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusFulfilled       OrderStatus = "FULFILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusFailed          OrderStatus = "FAILED"
	OrderStatusRefunded        OrderStatus = "REFUNDED"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusPaid       PaymentStatus = "PAID"
	PaymentStatusAuthorised PaymentStatus = "AUTHORISED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusUnknown    PaymentStatus = "UNKNOWN"
)

// IsTerminal reports whether no further transition is expected for this
// payment status without a distinct new business event.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransition guards against a stale or duplicate webhook reverting a
// settled payment. A refund over a paid payment is the only legal way out
// of a terminal status.
func CanTransition(from, to PaymentStatus) bool {
	if from == to {
		return false
	}
	if from == PaymentStatusPaid && to == PaymentStatusRefunded {
		return true
	}
	return !from.IsTerminal()
}

type SessionPurpose string

const (
	PurposeCharge   SessionPurpose = "CHARGE"
	PurposeTokenize SessionPurpose = "TOKENIZE"
)

type Order struct {
	ID          string
	OrderNumber string
	UserID      string
	GuestCartID string
	ClientEmail string

	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
	Currency string

	Status        OrderStatus
	PaymentStatus PaymentStatus

	// External processor linkage, persisted at session creation and used
	// by the reconciler to match asynchronous callbacks.
	SessionID        string
	MerchantRef      string
	TransactionID    string
	SessionPurpose   SessionPurpose
	SessionCreatedAt time.Time
	RawPayload       string

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payable reports whether a hosted-payment session may be opened for the
// order in its current state.
func (o *Order) Payable() bool {
	if o.Status != OrderStatusAwaitingPayment {
		return false
	}
	switch o.PaymentStatus {
	case PaymentStatusPending, PaymentStatusFailed, PaymentStatusUnknown:
		return true
	}
	return false
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int32
}

// PaymentSession is what the initiator persists on the order after the
// processor issued a hosted session.
type PaymentSession struct {
	SessionID   string
	MerchantRef string
	AmountMinor int64
	Currency    string
	Purpose     SessionPurpose
	CreatedAt   time.Time
}
