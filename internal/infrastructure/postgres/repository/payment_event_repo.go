package repository

import (
	"time"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/mappers"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultPaymentEventRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentEventRepository(db *gorm.DB) *DefaultPaymentEventRepository {
	return &DefaultPaymentEventRepository{DB: db}
}

func (r *DefaultPaymentEventRepository) RecordEvent(event *domain.PaymentEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	return r.DB.Create(mappers.ToGORMPaymentEvent(event)).Error
}
