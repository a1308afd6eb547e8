package mappers

import (
	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return &domain.Order{
		ID:               model.ID,
		OrderNumber:      model.OrderNumber,
		UserID:           model.UserID,
		GuestCartID:      model.GuestCartID,
		ClientEmail:      model.ClientEmail,
		Subtotal:         model.Subtotal,
		Tax:              model.Tax,
		Shipping:         model.Shipping,
		Total:            model.Total,
		Currency:         model.Currency,
		Status:           model.Status,
		PaymentStatus:    model.PaymentStatus,
		SessionID:        model.SessionID,
		MerchantRef:      model.MerchantRef,
		TransactionID:    model.TransactionID,
		SessionPurpose:   domain.SessionPurpose(model.SessionPurpose),
		SessionCreatedAt: model.SessionCreatedAt,
		RawPayload:       model.RawPayload,
		Items:            items,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	items := make([]models.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = models.OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return &models.OrderModel{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		GuestCartID:      order.GuestCartID,
		ClientEmail:      order.ClientEmail,
		Subtotal:         order.Subtotal,
		Tax:              order.Tax,
		Shipping:         order.Shipping,
		Total:            order.Total,
		Currency:         order.Currency,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		SessionID:        order.SessionID,
		MerchantRef:      order.MerchantRef,
		TransactionID:    order.TransactionID,
		SessionPurpose:   string(order.SessionPurpose),
		SessionCreatedAt: order.SessionCreatedAt,
		RawPayload:       order.RawPayload,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}
