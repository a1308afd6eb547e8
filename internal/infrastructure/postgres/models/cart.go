package models

import "time"

type CartItemModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	CartID    string `gorm:"index:idx_cart"`
	UserID    string `gorm:"index:idx_cart_user"`
	ProductID string `gorm:"not null"`
	Quantity  int32
	CreatedAt time.Time
}

type ProductModel struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	Name   string
	Price  float64
	Active bool `gorm:"index"`
}
