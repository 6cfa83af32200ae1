package models

import "time"

// Order groups products for a user. A user referenced by orders cannot be
// deleted; an order may hold zero products.
type Order struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement"`
	DeliveryAddress string    `gorm:"column:delivery_address;not null;default:''"`
	Promocode       string    `gorm:"column:promocode;size:20;not null;default:''"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UserID          *uint     `gorm:"column:user_id"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Products        []Product `gorm:"many2many:order_products;joinForeignKey:OrderID;joinReferences:ProductID"`
	Receipt         *string   `gorm:"column:receipt"`
}

// OrderProduct is the explicit join row between orders and products. Adding a
// membership twice is a no-op. The reference fields keep the auto-migrated
// schema carrying the same foreign keys as the SQL migrations.
type OrderProduct struct {
	OrderID   uint     `gorm:"column:order_id;primaryKey"`
	ProductID uint     `gorm:"column:product_id;primaryKey"`
	Order     *Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}
