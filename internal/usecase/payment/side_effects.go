package payment

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agroparts/payment-service/internal/domain"
	publisher "github.com/agroparts/payment-service/internal/infrastructure/kafka"
)

// dispatchSideEffects runs after the transition has committed. Each action
// is independent: a failed email must not undo a cleared cart, and no
// failure here ever propagates back to the webhook response. Single
// attempt, no retry; failures surface through logs and metrics only.
func (uc *DefaultPaymentUsecase) dispatchSideEffects(order *domain.Order, mapped domain.MappedStatus, n *domain.WebhookNotification) {
	switch mapped.Payment {
	case domain.PaymentStatusPaid, domain.PaymentStatusAuthorised:
		uc.effect("clear_cart", order, func() error { return uc.clearCart(order) })
		uc.effect("notification", order, func() error { return uc.notifySuccess(order, n) })
		uc.effect("audit", order, func() error { return uc.auditTransition(domain.AuditPaymentSuccess, order, n) })
		uc.effect("customer_email", order, func() error { return uc.sendCustomerEmail(order, n) })
		uc.effect("admin_email", order, func() error { return uc.sendAdminAlert("Payment settled", order, n) })

	case domain.PaymentStatusFailed, domain.PaymentStatusCancelled:
		uc.effect("notification", order, func() error { return uc.notifyFailure(order, n) })
		uc.effect("audit", order, func() error { return uc.auditTransition(domain.AuditPaymentFailed, order, n) })
		uc.effect("admin_email", order, func() error { return uc.sendAdminAlert("Payment failed", order, n) })

	case domain.PaymentStatusRefunded:
		uc.effect("notification", order, func() error { return uc.notifyRefund(order, n) })
		uc.effect("audit", order, func() error { return uc.auditTransition(domain.AuditPaymentRefunded, order, n) })
		uc.effect("admin_email", order, func() error { return uc.sendAdminAlert("Payment refunded", order, n) })
	}

	uc.effect("publish_event", order, func() error { return uc.publishStatusEvent(order, mapped, n) })
}

func (uc *DefaultPaymentUsecase) effect(name string, order *domain.Order, fn func() error) {
	if err := fn(); err != nil {
		slog.Error("side effect failed",
			"effect", name,
			"order_id", order.ID,
			"error", err.Error())
		if uc.Metrics != nil {
			uc.Metrics.RecordSideEffectFailure(name)
		}
	}
}

func (uc *DefaultPaymentUsecase) clearCart(order *domain.Order) error {
	if order.GuestCartID != "" {
		return uc.CartRepo.ClearCart(order.GuestCartID)
	}
	if order.UserID != "" {
		return uc.CartRepo.ClearUserCart(order.UserID)
	}
	return nil
}

func (uc *DefaultPaymentUsecase) notifySuccess(order *domain.Order, n *domain.WebhookNotification) error {
	return uc.NotificationRepo.CreateNotification(&domain.Notification{
		UserID: order.UserID,
		Type:   domain.NotificationPaymentSuccess,
		Title:  "Payment received",
		Body:   fmt.Sprintf("Payment for order %s has been received.", order.OrderNumber),
	})
}

func (uc *DefaultPaymentUsecase) notifyFailure(order *domain.Order, n *domain.WebhookNotification) error {
	return uc.NotificationRepo.CreateNotification(&domain.Notification{
		UserID: order.UserID,
		Type:   domain.NotificationPaymentFailed,
		Title:  "Payment failed",
		Body:   fmt.Sprintf("Payment for order %s did not complete. You can retry from your orders page.", order.OrderNumber),
	})
}

func (uc *DefaultPaymentUsecase) notifyRefund(order *domain.Order, n *domain.WebhookNotification) error {
	return uc.NotificationRepo.CreateNotification(&domain.Notification{
		UserID: order.UserID,
		Type:   domain.NotificationPaymentSuccess,
		Title:  "Payment refunded",
		Body:   fmt.Sprintf("Payment for order %s has been refunded.", order.OrderNumber),
	})
}

func (uc *DefaultPaymentUsecase) auditTransition(action domain.AuditAction, order *domain.Order, n *domain.WebhookNotification) error {
	metadata, _ := json.Marshal(map[string]interface{}{
		"transaction_id": n.TransactionID,
		"session_id":     n.SessionID,
		"raw_status":     n.TransactionStatus,
		"amount_minor":   n.Amount,
		"currency":       n.Currency,
	})
	return uc.AuditRepo.CreateEntry(&domain.AuditEntry{
		Action:   action,
		Actor:    "payment-processor",
		EntityID: order.ID,
		Metadata: string(metadata),
	})
}

func (uc *DefaultPaymentUsecase) sendCustomerEmail(order *domain.Order, n *domain.WebhookNotification) error {
	if order.ClientEmail == "" {
		return nil
	}
	return uc.Mailer.Send(domain.EmailMessage{
		To:      order.ClientEmail,
		Subject: fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		Type:    "order_confirmation",
		Data: map[string]interface{}{
			"orderNumber": order.OrderNumber,
			"total":       order.Total,
			"currency":    order.Currency,
		},
	})
}

func (uc *DefaultPaymentUsecase) sendAdminAlert(subject string, order *domain.Order, n *domain.WebhookNotification) error {
	if uc.AdminAlertAddress == "" {
		return nil
	}
	return uc.Mailer.Send(domain.EmailMessage{
		To:      uc.AdminAlertAddress,
		Subject: fmt.Sprintf("%s: %s", subject, order.OrderNumber),
		Type:    "admin_alert",
		Data: map[string]interface{}{
			"orderNumber":   order.OrderNumber,
			"transactionId": n.TransactionID,
			"rawStatus":     n.TransactionStatus,
			"amountMinor":   n.Amount,
		},
	})
}

func (uc *DefaultPaymentUsecase) publishStatusEvent(order *domain.Order, mapped domain.MappedStatus, n *domain.WebhookNotification) error {
	orderStatus := mapped.Order
	if orderStatus == "" {
		orderStatus = order.Status
	}
	return uc.Publisher.PublishOrderStatus(uc.EventTopic, publisher.OrderStatusEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		OrderStatus:   string(orderStatus),
		PaymentStatus: string(mapped.Payment),
		TransactionID: n.TransactionID,
		AmountFiat:    domain.FromMinorUnits(n.Amount),
		Currency:      order.Currency,
	})
}
