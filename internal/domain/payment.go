package domain

import "time"

// PaymentEvent is the append-only record of a single inbound webhook
// delivery. Every callback gets a row, duplicates included; deduplication
// happens at the apply layer, not here.
type PaymentEvent struct {
	ID            string
	TransactionID string
	SessionID     string
	MerchantRef   string
	RawStatus     string
	RawPayload    string
	AmountMinor   int64
	Currency      string
	SignatureOK   bool
	ReceivedAt    time.Time
}

// WebhookNotification is the decoded body of a processor callback.
type WebhookNotification struct {
	TransactionID      string `json:"transactionId"`
	SessionID          string `json:"sessionId"`
	MerchantRef        string `json:"merchantRef"`
	TransactionStatus  string `json:"transactionStatus"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	PaymentType        string `json:"paymentType"`
	PaymentMethodToken string `json:"paymentMethodToken,omitempty"`
	CustomerEmail      string `json:"customerEmail,omitempty"`
}

// MappedStatus is the internal translation of a processor status string.
// Recognized reports whether the vocabulary table knew the raw value; an
// unrecognized status must never advance the order lifecycle.
type MappedStatus struct {
	Payment    PaymentStatus
	Order      OrderStatus
	Recognized bool
}
