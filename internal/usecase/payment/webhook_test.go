package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            "550e8400-e29b-41d4-a716-446655440000",
		OrderNumber:   "ORD-1000-ABCDEF",
		UserID:        "user-1",
		ClientEmail:   "farmer@example.com",
		Subtotal:      100.00,
		Tax:           12.00,
		Shipping:      8.00,
		Total:         120.00,
		Currency:      "USD",
		Status:        domain.OrderStatusAwaitingPayment,
		PaymentStatus: domain.PaymentStatusPending,
		SessionID:     "sess-1",
		MerchantRef:   "agroparts:order:ORD-1000-ABCDEF",
	}
}

func settledBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx1",
		SessionID:         "sess-1",
		MerchantRef:       "agroparts:order:ORD-1000-ABCDEF",
		TransactionStatus: "PAYMENT_SETTLED",
		Amount:            12000,
		Currency:          "USD",
	})
	require.NoError(t, err)
	return body
}

func TestWebhookHappyPath(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)

	result, err := f.uc.HandleWebhook(context.Background(), settledBody(t), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, order.ID, result.OrderID)

	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "tx1", order.TransactionID)
	assert.NotEmpty(t, order.RawPayload)

	// one transaction-log entry, one audit entry, cart cleared
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "PAYMENT_SETTLED", f.events.events[0].RawStatus)
	require.Len(t, f.audit.byAction(domain.AuditPaymentSuccess), 1)
	assert.Equal(t, []string{"user-1"}, f.carts.clearedUsers)

	// customer confirmation and admin alert enqueued
	assert.Len(t, f.mailer.to("farmer@example.com"), 1)
	assert.Len(t, f.mailer.to("alerts@agroparts.example"), 1)

	// downstream event published
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "PAID", f.publisher.published[0].PaymentStatus)
	assert.Equal(t, 120.00, f.publisher.published[0].AmountFiat)
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)
	body := settledBody(t)

	_, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)

	// no second transition, no second set of side effects
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	assert.Len(t, f.audit.byAction(domain.AuditPaymentSuccess), 1)
	assert.Len(t, f.carts.clearedUsers, 1)
	assert.Len(t, f.mailer.to("farmer@example.com"), 1)
	assert.Len(t, f.publisher.published, 1)

	// but both deliveries are in the transaction log
	assert.Len(t, f.events.events, 2)
}

func TestWebhookFallbackLookupByReference(t *testing.T) {
	order := testOrder()
	// order was never linked to a session, so only the merchant
	// reference can locate it
	order.SessionID = ""
	f := newFixture("", order)

	body, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx2",
		SessionID:         "sess-unknown",
		MerchantRef:       "agroparts:order:ORD-1000-ABCDEF",
		TransactionStatus: "SETTLED",
		Amount:            12000,
		Currency:          "USD",
	})

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
}

func TestWebhookFallbackLookupByRawOrderID(t *testing.T) {
	order := testOrder()
	order.SessionID = ""
	f := newFixture("", order)

	// reference is the bare order UUID, no prefix
	body, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx3",
		MerchantRef:       order.ID,
		TransactionStatus: "SETTLED",
	})

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
}

func TestWebhookUnmatchable(t *testing.T) {
	f := newFixture("", testOrder())

	body, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx-nowhere",
		MerchantRef:       "unknown:ref:xyz",
		TransactionStatus: "SETTLED",
	})

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnmatched, result.Outcome)

	// order untouched, delivery logged, unmatched audit entry written
	order, _ := f.orders.GetOrderByID("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, f.events.events, 1)
	assert.Len(t, f.audit.byAction(domain.AuditWebhookUnmatched), 1)
	assert.Empty(t, f.publisher.published)
}

func TestWebhookDeclined(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)

	body, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx4",
		SessionID:         "sess-1",
		TransactionStatus: "PAYMENT_DECLINED",
		Amount:            12000,
		Currency:          "USD",
	})

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	assert.Equal(t, domain.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusFailed, order.Status)

	// admin alerted, no cart clearing on a declined payment
	assert.Len(t, f.mailer.to("alerts@agroparts.example"), 1)
	assert.Empty(t, f.mailer.to("farmer@example.com"))
	assert.Empty(t, f.carts.clearedUsers)
	assert.Len(t, f.audit.byAction(domain.AuditPaymentFailed), 1)
}

func TestWebhookUnknownStatus(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)

	body, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx5",
		SessionID:         "sess-1",
		TransactionStatus: "SOMETHING_NEW",
	})

	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnknownStatus, result.Outcome)

	assert.Equal(t, domain.PaymentStatusUnknown, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusAwaitingPayment, order.Status)

	// no idempotency claim: a later recognizable event for the same
	// transaction must still apply
	settled, _ := json.Marshal(domain.WebhookNotification{
		TransactionID:     "tx5",
		SessionID:         "sess-1",
		TransactionStatus: "SETTLED",
	})
	result, err = f.uc.HandleWebhook(context.Background(), settled, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
}

func TestWebhookStatusMonotonicity(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)

	// settle, then refund, then a stale duplicate "paid" with a fresh
	// transaction ID; the refund must survive
	for _, n := range []domain.WebhookNotification{
		{TransactionID: "tx6", SessionID: "sess-1", TransactionStatus: "SETTLED"},
		{TransactionID: "tx7", SessionID: "sess-1", TransactionStatus: "REFUNDED"},
	} {
		body, _ := json.Marshal(n)
		result, err := f.uc.HandleWebhook(context.Background(), body, "")
		require.NoError(t, err)
		require.Equal(t, OutcomeApplied, result.Outcome)
	}
	assert.Equal(t, domain.PaymentStatusRefunded, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusRefunded, order.Status)

	late, _ := json.Marshal(domain.WebhookNotification{
		TransactionID: "tx8", SessionID: "sess-1", TransactionStatus: "SETTLED",
	})
	result, err := f.uc.HandleWebhook(context.Background(), late, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, result.Outcome)
	assert.Equal(t, domain.PaymentStatusRefunded, order.PaymentStatus)
}

func TestWebhookRetryAfterFailedTransition(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)
	body := settledBody(t)

	// the transition write fails transiently after the delivery was
	// accepted; the claim must not survive the rollback
	f.orders.applyErr = assert.AnError
	_, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.Error(t, err)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)

	// the processor's redelivery must apply, not be acked as a duplicate
	result, err := f.uc.HandleWebhook(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	require.Len(t, f.publisher.published, 1)
}

func TestWebhookSignatureVerification(t *testing.T) {
	order := testOrder()
	f := newFixture("whsec-1", order)
	body := settledBody(t)

	// bad signature rejected, nothing processed
	_, err := f.uc.HandleWebhook(context.Background(), body, "deadbeef")
	require.ErrorIs(t, err, domain.ErrBadSignature)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Empty(t, f.events.events)
	assert.Len(t, f.audit.byAction(domain.AuditWebhookRejected), 1)

	// valid signature accepted
	result, err := f.uc.HandleWebhook(context.Background(), body, tjpay.Sign("whsec-1", body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
}

func TestWebhookSideEffectFailureDoesNotFailDelivery(t *testing.T) {
	order := testOrder()
	f := newFixture("", order)
	f.mailer.sendErr = assert.AnError

	result, err := f.uc.HandleWebhook(context.Background(), settledBody(t), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	// the transition committed even though email failed
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	assert.Len(t, f.carts.clearedUsers, 1)
	assert.Len(t, f.publisher.published, 1)
}

func TestWebhookMalformedBody(t *testing.T) {
	f := newFixture("")

	_, err := f.uc.HandleWebhook(context.Background(), []byte("{not json"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = f.uc.HandleWebhook(context.Background(), []byte(`{"sessionId":"x"}`), "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload, "missing transaction id must be rejected")
}

func TestWebhookGuestCartClearing(t *testing.T) {
	order := testOrder()
	order.UserID = ""
	order.GuestCartID = "guest-cart-9"
	f := newFixture("", order)

	_, err := f.uc.HandleWebhook(context.Background(), settledBody(t), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"guest-cart-9"}, f.carts.clearedCarts)
	assert.Empty(t, f.carts.clearedUsers)
}
