package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
)

type CreateSessionInput struct {
	OrderID        string
	Purpose        domain.SessionPurpose
	PaymentMethods []string
}

type CreateSessionOutput struct {
	SessionID   string
	RedirectURL string
}

// CreateSession opens a hosted-payment session for the order. The charged
// amount is always the order's server-computed total; the caller only
// chooses the purpose and payment methods. On any processor failure the
// order stays AWAITING_PAYMENT so the customer can retry.
func (uc *DefaultPaymentUsecase) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return nil, err
	}

	purpose := input.Purpose
	if purpose == "" {
		purpose = domain.PurposeCharge
	}

	if purpose == domain.PurposeCharge && !order.Payable() {
		return nil, domain.ErrOrderNotPayable
	}
	if !uc.currencySupported(order.Currency) {
		return nil, domain.ErrUnsupportedCurrency
	}

	amountMinor := domain.ToMinorUnits(order.Total)
	if purpose == domain.PurposeTokenize {
		// Tokenize-only sessions store a payment method, they charge
		// nothing.
		amountMinor = 0
	}

	merchantRef := uc.Codec.Encode(order.OrderNumber)

	token, err := uc.Processor.FetchToken(ctx)
	if err != nil {
		uc.recordSessionFailure(order, "token_exchange", err)
		return nil, domain.ErrSessionFailed
	}

	session, err := uc.Processor.CreateSession(ctx, token, tjpay.SessionRequest{
		Amount:         amountMinor,
		Currency:       order.Currency,
		MerchantRef:    merchantRef,
		ReturnURL:      uc.ProcessorCfg.ReturnURL,
		CancelURL:      uc.ProcessorCfg.CancelURL,
		WebhookURL:     uc.ProcessorCfg.WebhookURL,
		PaymentMethods: input.PaymentMethods,
		ExpirySeconds:  uc.ProcessorCfg.SessionTTL,
		Purpose:        string(purpose),
		Metadata:       map[string]string{"orderNumber": order.OrderNumber},
	})
	if err != nil {
		uc.recordSessionFailure(order, "session_create", err)
		return nil, domain.ErrSessionFailed
	}

	if err := uc.OrderRepo.SavePaymentSession(order.ID, domain.PaymentSession{
		SessionID:   session.SessionID,
		MerchantRef: merchantRef,
		AmountMinor: amountMinor,
		Currency:    order.Currency,
		Purpose:     purpose,
		CreatedAt:   time.Now(),
	}); err != nil {
		// Session exists processor-side but we lost the linkage; the
		// reconciler can still match by merchant reference.
		slog.Error("failed to persist payment session", "order_id", order.ID, "session_id", session.SessionID, "error", err.Error())
	}

	uc.auditSessionCreated(order, session.SessionID, merchantRef)
	if uc.Metrics != nil {
		uc.Metrics.RecordSessionCreated(order.Currency, string(purpose))
	}

	return &CreateSessionOutput{
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (uc *DefaultPaymentUsecase) recordSessionFailure(order *domain.Order, stage string, cause error) {
	slog.Error("payment session failed", "order_id", order.ID, "stage", stage, "error", cause.Error())

	metadata, _ := json.Marshal(map[string]string{"stage": stage, "error": cause.Error()})
	if err := uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:    domain.AuditSessionFailed,
		Actor:     "payment-service",
		EntityID:  order.ID,
		RiskScore: 70,
		Metadata:  string(metadata),
	}); err != nil {
		slog.Error("failed to write session-failure audit entry", "order_id", order.ID, "error", err.Error())
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordSessionFailure(stage)
	}
}

func (uc *DefaultPaymentUsecase) auditSessionCreated(order *domain.Order, sessionID, merchantRef string) {
	metadata, _ := json.Marshal(map[string]string{"session_id": sessionID, "merchant_ref": merchantRef})
	if err := uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:   domain.AuditSessionCreated,
		Actor:    "payment-service",
		EntityID: order.ID,
		Metadata: string(metadata),
	}); err != nil {
		slog.Error("failed to write session-created audit entry", "order_id", order.ID, "error", err.Error())
	}
}

func (uc *DefaultPaymentUsecase) currencySupported(currency string) bool {
	for _, c := range uc.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}
