package models

import "time"

// PaymentEventModel is the append-only transaction log: one row per
// received webhook call, duplicates included.
type PaymentEventModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"not null;index"`
	SessionID     string `gorm:"index"`
	MerchantRef   string
	RawStatus     string
	RawPayload    string `gorm:"type:jsonb"`
	AmountMinor   int64
	Currency      string
	SignatureOK   bool
	ReceivedAt    time.Time `gorm:"not null;index"`
}

// AppliedTransactionModel is the idempotency ledger. The unique index on
// TransactionID is what makes the duplicate check safe when two deliveries
// of the same event race: the second insert fails instead of both passing
// a read-then-write check.
type AppliedTransactionModel struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	TransactionID string    `gorm:"not null;uniqueIndex:ux_applied_transaction"`
	OrderID       string    `gorm:"type:uuid;not null;index"`
	PaymentStatus string    `gorm:"not null"`
	AppliedAt     time.Time `gorm:"not null"`
}
