package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Archived products stay in the table and remain
// retrievable by pk; they are only hidden from the storefront listing.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;size:100;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(8,2);not null;default:0"`
	Discount    int16           `gorm:"column:discount;not null;default:0"`
	Archived    bool            `gorm:"column:archived;not null;default:false"`
	CreatedByID *uint           `gorm:"column:created_by_id"`
	CreatedBy   *User           `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	Preview     *string         `gorm:"column:preview"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (p *Product) String() string {
	return fmt.Sprintf("Product(pk=%d, name='%s')", p.ID, p.Name)
}

// ProductImage is a gallery image attached to exactly one product and removed
// together with it.
type ProductImage struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   uint   `gorm:"column:product_id;not null"`
	Image       string `gorm:"column:image;not null"`
	Description string `gorm:"column:description;size:200;not null;default:''"`
}
