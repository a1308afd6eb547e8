package mappers

import (
	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/models"
)

func ToGORMPaymentEvent(event *domain.PaymentEvent) *models.PaymentEventModel {
	return &models.PaymentEventModel{
		ID:            event.ID,
		TransactionID: event.TransactionID,
		SessionID:     event.SessionID,
		MerchantRef:   event.MerchantRef,
		RawStatus:     event.RawStatus,
		RawPayload:    event.RawPayload,
		AmountMinor:   event.AmountMinor,
		Currency:      event.Currency,
		SignatureOK:   event.SignatureOK,
		ReceivedAt:    event.ReceivedAt,
	}
}

func ToDomainCartItem(model *models.CartItemModel) *domain.CartItem {
	return &domain.CartItem{
		ID:        model.ID,
		CartID:    model.CartID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		CreatedAt: model.CreatedAt,
	}
}

func ToDomainProduct(model *models.ProductModel) *domain.Product {
	return &domain.Product{
		ID:     model.ID,
		Name:   model.Name,
		Price:  model.Price,
		Active: model.Active,
	}
}
