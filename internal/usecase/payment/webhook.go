package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
)

// Webhook outcomes. Everything except "applied" is an acknowledged no-op:
// the processor delivers at least once and must not be driven into a retry
// loop for events we cannot or need not act on.
const (
	OutcomeApplied       = "applied"
	OutcomeDuplicate     = "duplicate"
	OutcomeUnmatched     = "unmatched"
	OutcomeStale         = "stale"
	OutcomeUnknownStatus = "unknown_status"
)

type WebhookResult struct {
	Outcome string
	OrderID string
}

// HandleWebhook reconciles one asynchronous status callback from the
// processor: verify, log, map, locate, transition, dispatch side effects.
// The status transition is the only step that must succeed; side effects
// are best effort and never fail the delivery.
func (uc *DefaultPaymentUsecase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error) {
	start := time.Now()
	result, err := uc.handleWebhook(ctx, rawBody, signature)
	if uc.Metrics != nil {
		outcome := "error"
		if err == nil && result != nil {
			outcome = result.Outcome
		}
		uc.Metrics.RecordProcessingDuration(outcome, time.Since(start).Seconds())
	}
	return result, err
}

func (uc *DefaultPaymentUsecase) handleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error) {
	if err := uc.verifySignature(rawBody, signature); err != nil {
		return nil, err
	}

	var notification domain.WebhookNotification
	if err := json.Unmarshal(rawBody, &notification); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if notification.TransactionID == "" {
		return nil, fmt.Errorf("%w: no transaction id", domain.ErrInvalidPayload)
	}

	// Every delivery goes into the transaction log, duplicates included.
	if err := uc.EventRepo.RecordEvent(&domain.PaymentEvent{
		TransactionID: notification.TransactionID,
		SessionID:     notification.SessionID,
		MerchantRef:   notification.MerchantRef,
		RawStatus:     notification.TransactionStatus,
		RawPayload:    string(rawBody),
		AmountMinor:   notification.Amount,
		Currency:      notification.Currency,
		SignatureOK:   uc.ProcessorCfg.WebhookSecret != "",
	}); err != nil {
		return nil, fmt.Errorf("record payment event: %w", err)
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordWebhookReceived(notification.TransactionStatus)
	}

	mapped := MapTransactionStatus(notification.TransactionStatus)

	order, err := uc.locateOrder(&notification)
	if err != nil {
		return nil, err
	}
	if order == nil {
		slog.Warn("webhook matched no order, keeping for manual reconciliation",
			"transaction_id", notification.TransactionID,
			"session_id", notification.SessionID,
			"merchant_ref", notification.MerchantRef,
			"payload", string(rawBody))
		uc.auditUnmatched(&notification)
		if uc.Metrics != nil {
			uc.Metrics.WebhooksUnmatchedTotal.Inc()
		}
		return &WebhookResult{Outcome: OutcomeUnmatched}, nil
	}

	if !mapped.Recognized {
		slog.Warn("unrecognized transaction status",
			"raw_status", notification.TransactionStatus,
			"transaction_id", notification.TransactionID,
			"order_id", order.ID)
		if uc.Metrics != nil {
			uc.Metrics.WebhookUnknownStatus.WithLabelValues(notification.TransactionStatus).Inc()
		}
		// Mark the payment unknown but leave the order lifecycle alone.
		// No idempotency claim either: a later recognizable event for the
		// same transaction must still be able to apply.
		if err := uc.OrderRepo.ApplyPaymentTransition(order.ID, domain.PaymentStatusUnknown, "", notification.TransactionID, string(rawBody)); err != nil && !errors.Is(err, domain.ErrStaleTransition) {
			slog.Error("failed to mark payment status unknown", "order_id", order.ID, "error", err.Error())
		}
		return &WebhookResult{Outcome: OutcomeUnknownStatus, OrderID: order.ID}, nil
	}

	// Idempotency gate: the claim insert and the guarded status UPDATE
	// commit together, so exactly one of two racing deliveries applies the
	// transition, and a transient apply failure releases the claim for the
	// processor's retry.
	if err := uc.OrderRepo.ApplyClaimedTransition(notification.TransactionID, order.ID, mapped.Payment, mapped.Order, string(rawBody)); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEvent):
			slog.Info("duplicate webhook delivery suppressed",
				"transaction_id", notification.TransactionID,
				"order_id", order.ID)
			if uc.Metrics != nil {
				uc.Metrics.WebhooksDuplicateTotal.Inc()
			}
			return &WebhookResult{Outcome: OutcomeDuplicate, OrderID: order.ID}, nil
		case errors.Is(err, domain.ErrStaleTransition):
			slog.Warn("stale transition skipped",
				"order_id", order.ID,
				"stored_status", string(order.PaymentStatus),
				"incoming_status", string(mapped.Payment))
			if uc.Metrics != nil {
				uc.Metrics.StaleTransitionsTotal.Inc()
			}
			return &WebhookResult{Outcome: OutcomeStale, OrderID: order.ID}, nil
		default:
			return nil, fmt.Errorf("apply transition: %w", err)
		}
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordTransitionApplied(string(mapped.Payment), string(mapped.Order), order.Currency, domain.FromMinorUnits(notification.Amount))
	}

	uc.dispatchSideEffects(order, mapped, &notification)

	return &WebhookResult{Outcome: OutcomeApplied, OrderID: order.ID}, nil
}

func (uc *DefaultPaymentUsecase) verifySignature(rawBody []byte, signature string) error {
	secret := uc.ProcessorCfg.WebhookSecret
	if secret == "" {
		// Known lower-trust mode: without a shared secret there is
		// nothing to verify. Logged on every delivery on purpose.
		slog.Warn("webhook signature verification disabled: no webhook secret configured")
		return nil
	}

	if tjpay.VerifySignature(secret, rawBody, signature) {
		return nil
	}

	slog.Error("webhook signature mismatch, rejecting delivery")
	if uc.Metrics != nil {
		uc.Metrics.WebhooksRejectedTotal.Inc()
	}
	if err := uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:    domain.AuditWebhookRejected,
		Actor:     "payment-service",
		RiskScore: 90,
	}); err != nil {
		slog.Error("failed to write signature-reject audit entry", "error", err.Error())
	}
	return domain.ErrBadSignature
}

// locateOrder walks the fallback chain: stored session/transaction ID
// first, then the decoded merchant reference by order number, then the
// decoded value as a raw order ID. A nil order with nil error means no
// match anywhere.
func (uc *DefaultPaymentUsecase) locateOrder(n *domain.WebhookNotification) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderBySessionID(n.SessionID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	order, err = uc.OrderRepo.GetOrderByTransactionID(n.TransactionID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	decoded, ok := uc.Codec.Decode(n.MerchantRef)
	if !ok {
		return nil, nil
	}

	order, err = uc.OrderRepo.GetOrderByNumber(decoded)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	order, err = uc.OrderRepo.GetOrderByID(decoded)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	return nil, nil
}

func (uc *DefaultPaymentUsecase) auditUnmatched(n *domain.WebhookNotification) {
	metadata, _ := json.Marshal(n)
	if err := uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:    domain.AuditWebhookUnmatched,
		Actor:     "payment-service",
		RiskScore: 40,
		Metadata:  string(metadata),
	}); err != nil {
		slog.Error("failed to write unmatched-webhook audit entry", "error", err.Error())
	}
}
