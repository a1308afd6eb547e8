package payment

import (
	"strings"

	"github.com/agroparts/payment-service/internal/domain"
)

// statusTable translates the processor's status vocabulary into the two
// internal enumerations. Keys are normalized: upper case, optional
// "PAYMENT_" prefix stripped.
var statusTable = map[string]domain.MappedStatus{
	"SETTLED":   {Payment: domain.PaymentStatusPaid, Order: domain.OrderStatusConfirmed, Recognized: true},
	"SUCCESS":   {Payment: domain.PaymentStatusPaid, Order: domain.OrderStatusConfirmed, Recognized: true},
	"COMPLETED": {Payment: domain.PaymentStatusPaid, Order: domain.OrderStatusConfirmed, Recognized: true},
	"PAID":      {Payment: domain.PaymentStatusPaid, Order: domain.OrderStatusConfirmed, Recognized: true},
	"CAPTURED":  {Payment: domain.PaymentStatusPaid, Order: domain.OrderStatusConfirmed, Recognized: true},

	"AUTHORISED": {Payment: domain.PaymentStatusAuthorised, Order: domain.OrderStatusConfirmed, Recognized: true},
	"AUTHORIZED": {Payment: domain.PaymentStatusAuthorised, Order: domain.OrderStatusConfirmed, Recognized: true},

	"FAILED":   {Payment: domain.PaymentStatusFailed, Order: domain.OrderStatusFailed, Recognized: true},
	"DECLINED": {Payment: domain.PaymentStatusFailed, Order: domain.OrderStatusFailed, Recognized: true},
	"REJECTED": {Payment: domain.PaymentStatusFailed, Order: domain.OrderStatusFailed, Recognized: true},

	"CANCELLED": {Payment: domain.PaymentStatusCancelled, Order: domain.OrderStatusCancelled, Recognized: true},
	"CANCELED":  {Payment: domain.PaymentStatusCancelled, Order: domain.OrderStatusCancelled, Recognized: true},
	"EXPIRED":   {Payment: domain.PaymentStatusCancelled, Order: domain.OrderStatusCancelled, Recognized: true},
	"ABORTED":   {Payment: domain.PaymentStatusCancelled, Order: domain.OrderStatusCancelled, Recognized: true},

	"REFUNDED": {Payment: domain.PaymentStatusRefunded, Order: domain.OrderStatusRefunded, Recognized: true},
	"REVERSED": {Payment: domain.PaymentStatusRefunded, Order: domain.OrderStatusRefunded, Recognized: true},
}

// MapTransactionStatus never fails: an unrecognized status maps to
// PaymentStatusUnknown with the order lifecycle left untouched.
func MapTransactionStatus(raw string) domain.MappedStatus {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.TrimPrefix(key, "PAYMENT_")

	if mapped, ok := statusTable[key]; ok {
		return mapped
	}
	return domain.MappedStatus{Payment: domain.PaymentStatusUnknown}
}
