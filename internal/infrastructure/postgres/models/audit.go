package models

import "time"

type AuditEntryModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Action    string `gorm:"not null;index"`
	Actor     string
	EntityID  string `gorm:"index"`
	RiskScore int32
	Metadata  string    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"not null;index"`
}

type NotificationModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"index"`
	Type      string `gorm:"not null"`
	Title     string
	Body      string
	Metadata  string `gorm:"type:jsonb"`
	Read      bool
	CreatedAt time.Time `gorm:"not null"`
}
