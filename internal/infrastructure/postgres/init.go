package postgres

import (
	"log"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.PaymentConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	// TranslateError maps the unique violation on applied_transaction_models
	// to gorm.ErrDuplicatedKey, which the idempotency claim relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.PaymentEventModel{},
		&models.AppliedTransactionModel{},
		&models.CartItemModel{},
		&models.ProductModel{},
		&models.AuditEntryModel{},
		&models.NotificationModel{},
	)

	return db
}
