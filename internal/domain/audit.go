package domain

import "time"

type AuditAction string

const (
	AuditOrderCreated     AuditAction = "ORDER_CREATED"
	AuditPaymentSuccess   AuditAction = "PAYMENT_SUCCESS"
	AuditPaymentFailed    AuditAction = "PAYMENT_FAILED"
	AuditPaymentRefunded  AuditAction = "PAYMENT_REFUNDED"
	AuditSessionCreated   AuditAction = "PAYMENT_SESSION_CREATED"
	AuditSessionFailed    AuditAction = "PAYMENT_SESSION_FAILED"
	AuditWebhookRejected  AuditAction = "WEBHOOK_SIGNATURE_REJECTED"
	AuditWebhookUnmatched AuditAction = "WEBHOOK_UNMATCHED"
)

type AuditEntry struct {
	ID        string
	Action    AuditAction
	Actor     string
	EntityID  string
	RiskScore int32
	Metadata  string
	CreatedAt time.Time
}

type NotificationType string

const (
	NotificationPaymentSuccess NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed  NotificationType = "PAYMENT_FAILED"
	NotificationEmailPending   NotificationType = "EMAIL_PENDING"
)

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Body      string
	Metadata  string
	Read      bool
	CreatedAt time.Time
}

// EmailMessage is the outbound mail contract. When no email provider is
// configured the mailer records the message as an EMAIL_PENDING
// notification instead of sending.
type EmailMessage struct {
	To      string                 `json:"to"`
	Subject string                 `json:"subject"`
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
