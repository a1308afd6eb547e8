package repository

import (
	"github.com/agroparts/payment-service/internal/domain"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/mappers"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCartRepository struct {
	DB *gorm.DB
}

func NewDefaultCartRepository(db *gorm.DB) *DefaultCartRepository {
	return &DefaultCartRepository{DB: db}
}

func (r *DefaultCartRepository) GetCartItems(cartID string) ([]*domain.CartItem, error) {
	var itemModels []models.CartItemModel
	if err := r.DB.Where("cart_id = ?", cartID).Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*domain.CartItem, len(itemModels))
	for i, itemModel := range itemModels {
		items[i] = mappers.ToDomainCartItem(&itemModel)
	}

	return items, nil
}

func (r *DefaultCartRepository) ClearCart(cartID string) error {
	return r.DB.Where("cart_id = ?", cartID).Delete(&models.CartItemModel{}).Error
}

func (r *DefaultCartRepository) ClearUserCart(userID string) error {
	return r.DB.Where("user_id = ?", userID).Delete(&models.CartItemModel{}).Error
}

type DefaultProductRepository struct {
	DB *gorm.DB
}

func NewDefaultProductRepository(db *gorm.DB) *DefaultProductRepository {
	return &DefaultProductRepository{DB: db}
}

func (r *DefaultProductRepository) GetProductsByIDs(ids []string) ([]*domain.Product, error) {
	var productModels []models.ProductModel
	if err := r.DB.Where("id IN (?)", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]*domain.Product, len(productModels))
	for i, productModel := range productModels {
		products[i] = mappers.ToDomainProduct(&productModel)
	}

	return products, nil
}
