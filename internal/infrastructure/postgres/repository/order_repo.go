package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/mappers"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	return r.getOrder("id = ?", orderID)
}

func (r *DefaultOrderRepository) GetOrderByNumber(orderNumber string) (*domain.Order, error) {
	return r.getOrder("order_number = ?", orderNumber)
}

func (r *DefaultOrderRepository) GetOrderBySessionID(sessionID string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, domain.ErrOrderNotFound
	}
	return r.getOrder("session_id = ?", sessionID)
}

func (r *DefaultOrderRepository) GetOrderByTransactionID(transactionID string) (*domain.Order, error) {
	if transactionID == "" {
		return nil, domain.ErrOrderNotFound
	}
	return r.getOrder("transaction_id = ?", transactionID)
}

func (r *DefaultOrderRepository) getOrder(query string, arg string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.Preload("Items").First(&order, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) SavePaymentSession(orderID string, session domain.PaymentSession) error {
	result := r.DB.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"session_id":         session.SessionID,
			"merchant_ref":       session.MerchantRef,
			"session_purpose":    string(session.Purpose),
			"session_created_at": session.CreatedAt,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ApplyPaymentTransition is the single write path for post-creation status
// changes. The WHERE clause re-checks the stored payment status so that a
// stale or duplicate webhook racing a newer one cannot revert it.
func (r *DefaultOrderRepository) ApplyPaymentTransition(
	orderID string,
	payment domain.PaymentStatus,
	orderStatus domain.OrderStatus,
	transactionID, rawPayload string,
) error {
	allowedFrom := allowedPreviousStatuses(payment)
	if len(allowedFrom) == 0 {
		return fmt.Errorf("no allowed transition into %s", payment)
	}

	updates := map[string]interface{}{
		"payment_status": payment,
		"updated_at":     time.Now(),
	}
	if orderStatus != "" {
		updates["status"] = orderStatus
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if rawPayload != "" {
		updates["raw_payload"] = rawPayload
	}

	result := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND payment_status IN (?)", orderID, allowedFrom).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the order vanished or the stored status is terminal.
		if _, err := r.GetOrderByID(orderID); err != nil {
			return err
		}
		return domain.ErrStaleTransition
	}
	return nil
}

// ApplyClaimedTransition runs the idempotency claim insert and the guarded
// status UPDATE as one database transaction. Returning an error from the
// closure rolls both back, so a claim only survives when the transition it
// gates actually committed; a redelivery after a transient apply failure
// gets a fresh attempt instead of a duplicate ack.
func (r *DefaultOrderRepository) ApplyClaimedTransition(
	transactionID, orderID string,
	payment domain.PaymentStatus,
	orderStatus domain.OrderStatus,
	rawPayload string,
) error {
	allowedFrom := allowedPreviousStatuses(payment)
	if len(allowedFrom) == 0 {
		return fmt.Errorf("no allowed transition into %s", payment)
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		claim := models.AppliedTransactionModel{
			ID:            uuid.New().String(),
			TransactionID: transactionID,
			OrderID:       orderID,
			PaymentStatus: string(payment),
			AppliedAt:     time.Now(),
		}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEvent
			}
			return err
		}

		updates := map[string]interface{}{
			"payment_status": payment,
			"updated_at":     time.Now(),
		}
		if orderStatus != "" {
			updates["status"] = orderStatus
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}
		if rawPayload != "" {
			updates["raw_payload"] = rawPayload
		}

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND payment_status IN (?)", orderID, allowedFrom).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.OrderModel{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrOrderNotFound
			}
			return domain.ErrStaleTransition
		}
		return nil
	})
}

func allowedPreviousStatuses(to domain.PaymentStatus) []string {
	all := []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusPaid,
		domain.PaymentStatusAuthorised,
		domain.PaymentStatusFailed,
		domain.PaymentStatusCancelled,
		domain.PaymentStatusRefunded,
		domain.PaymentStatusUnknown,
	}
	var allowed []string
	for _, from := range all {
		if domain.CanTransition(from, to) {
			allowed = append(allowed, string(from))
		}
	}
	return allowed
}
