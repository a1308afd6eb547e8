package payment

import (
	"testing"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		raw     string
		payment domain.PaymentStatus
		order   domain.OrderStatus
	}{
		{"PAYMENT_SETTLED", domain.PaymentStatusPaid, domain.OrderStatusConfirmed},
		{"SETTLED", domain.PaymentStatusPaid, domain.OrderStatusConfirmed},
		{"success", domain.PaymentStatusPaid, domain.OrderStatusConfirmed},
		{"completed", domain.PaymentStatusPaid, domain.OrderStatusConfirmed},
		{"  paid  ", domain.PaymentStatusPaid, domain.OrderStatusConfirmed},
		{"AUTHORISED", domain.PaymentStatusAuthorised, domain.OrderStatusConfirmed},
		{"authorized", domain.PaymentStatusAuthorised, domain.OrderStatusConfirmed},
		{"PAYMENT_DECLINED", domain.PaymentStatusFailed, domain.OrderStatusFailed},
		{"failed", domain.PaymentStatusFailed, domain.OrderStatusFailed},
		{"rejected", domain.PaymentStatusFailed, domain.OrderStatusFailed},
		{"CANCELLED", domain.PaymentStatusCancelled, domain.OrderStatusCancelled},
		{"expired", domain.PaymentStatusCancelled, domain.OrderStatusCancelled},
		{"REFUNDED", domain.PaymentStatusRefunded, domain.OrderStatusRefunded},
		{"reversed", domain.PaymentStatusRefunded, domain.OrderStatusRefunded},
	}

	for _, c := range cases {
		mapped := MapTransactionStatus(c.raw)
		assert.True(t, mapped.Recognized, c.raw)
		assert.Equal(t, c.payment, mapped.Payment, c.raw)
		assert.Equal(t, c.order, mapped.Order, c.raw)
	}
}

func TestMapTransactionStatusUnknown(t *testing.T) {
	for _, raw := range []string{"", "SOMETHING_NEW", "PAYMENT_WEIRD", "42"} {
		mapped := MapTransactionStatus(raw)
		assert.False(t, mapped.Recognized, raw)
		assert.Equal(t, domain.PaymentStatusUnknown, mapped.Payment, raw)
		assert.Empty(t, string(mapped.Order), raw)
	}
}
