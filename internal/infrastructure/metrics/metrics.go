package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics covers the payment lifecycle from session creation to
// reconciled webhook.
type PaymentMetrics struct {
	SessionsCreatedTotal prometheus.CounterVec
	SessionFailuresTotal prometheus.CounterVec

	WebhooksReceivedTotal  prometheus.CounterVec
	WebhooksDuplicateTotal prometheus.Counter
	WebhooksUnmatchedTotal prometheus.Counter
	WebhooksRejectedTotal  prometheus.Counter
	WebhookUnknownStatus   prometheus.CounterVec
	WebhookProcessingTime  prometheus.HistogramVec

	TransitionsAppliedTotal prometheus.CounterVec
	StaleTransitionsTotal   prometheus.Counter
	SettledAmountTotal      prometheus.CounterVec

	SideEffectFailuresTotal prometheus.CounterVec
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		SessionsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_sessions_created_total",
				Help: "Hosted payment sessions successfully created",
			},
			[]string{"currency", "purpose"},
		),

		SessionFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_session_failures_total",
				Help: "Failed attempts to open a hosted payment session",
			},
			[]string{"stage"},
		),

		WebhooksReceivedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_received_total",
				Help: "Inbound processor webhooks by raw transaction status",
			},
			[]string{"raw_status"},
		),

		WebhooksDuplicateTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_webhooks_duplicate_total",
				Help: "Webhook deliveries suppressed by the idempotency claim",
			},
		),

		WebhooksUnmatchedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_webhooks_unmatched_total",
				Help: "Webhooks for which no order could be located",
			},
		),

		WebhooksRejectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_webhooks_rejected_total",
				Help: "Webhooks rejected for a bad signature",
			},
		),

		WebhookUnknownStatus: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_unknown_status_total",
				Help: "Webhooks carrying an unrecognized transaction status",
			},
			[]string{"raw_status"},
		),

		WebhookProcessingTime: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_webhook_processing_seconds",
				Help:    "Time spent reconciling one webhook delivery",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"outcome"},
		),

		TransitionsAppliedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_transitions_applied_total",
				Help: "Committed payment status transitions",
			},
			[]string{"payment_status", "order_status"},
		),

		StaleTransitionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_stale_transitions_total",
				Help: "Transitions skipped because the stored status was terminal",
			},
		),

		SettledAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_settled_amount_total",
				Help: "Total settled amount in major units",
			},
			[]string{"currency"},
		),

		SideEffectFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_side_effect_failures_total",
				Help: "Best-effort side effects that failed after a committed transition",
			},
			[]string{"effect"},
		),
	}
}

func (m *PaymentMetrics) RecordSessionCreated(currency, purpose string) {
	m.SessionsCreatedTotal.WithLabelValues(currency, purpose).Inc()
}

func (m *PaymentMetrics) RecordSessionFailure(stage string) {
	m.SessionFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *PaymentMetrics) RecordWebhookReceived(rawStatus string) {
	m.WebhooksReceivedTotal.WithLabelValues(rawStatus).Inc()
}

func (m *PaymentMetrics) RecordTransitionApplied(paymentStatus, orderStatus, currency string, amount float64) {
	m.TransitionsAppliedTotal.WithLabelValues(paymentStatus, orderStatus).Inc()
	if paymentStatus == "PAID" {
		m.SettledAmountTotal.WithLabelValues(currency).Add(amount)
	}
}

func (m *PaymentMetrics) RecordSideEffectFailure(effect string) {
	m.SideEffectFailuresTotal.WithLabelValues(effect).Inc()
}

func (m *PaymentMetrics) RecordProcessingDuration(outcome string, seconds float64) {
	m.WebhookProcessingTime.WithLabelValues(outcome).Observe(seconds)
}
