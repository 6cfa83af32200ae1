package orders

import (
	"context"
	"time"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order without associations.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Products").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateWithProducts creates the order and its product memberships as one
// unit of work. A missing user or product reference fails the whole row.
func (r *Repository) CreateWithProducts(ctx context.Context, order *models.Order, productIDs []uint) (*models.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Create(order).Error; err != nil {
			return err
		}
		return addProducts(tx, order.ID, productIDs)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddProducts associates the products with the order. Memberships that
// already exist are left untouched.
func (r *Repository) AddProducts(ctx context.Context, orderID uint, productIDs []uint) error {
	return addProducts(r.db.WithContext(ctx), orderID, productIDs)
}

func addProducts(tx *gorm.DB, orderID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]models.OrderProduct, len(productIDs))
	for i, productID := range productIDs {
		rows[i] = models.OrderProduct{OrderID: orderID, ProductID: productID}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ReplaceProducts swaps the order's product set for the provided one.
func (r *Repository) ReplaceProducts(ctx context.Context, orderID uint, productIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return addProducts(tx, orderID, productIDs)
	})
}

// Save persists mutated order fields.
func (r *Repository) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Products", "User").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order with its user and products.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Products").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListAll returns orders matching the collection filters ordered by primary
// key, with user and products eager-loaded.
func (r *Repository) ListAll(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filters.DeliveryAddress != nil {
		query = query.Where("delivery_address = ?", *filters.DeliveryAddress)
	}
	if filters.Promocode != nil {
		query = query.Where("promocode = ?", *filters.Promocode)
	}
	if filters.User != nil {
		query = query.Where("user_id = ?", *filters.User)
	}
	if filters.CreatedAt != nil {
		query = query.Where("created_at = ?", *filters.CreatedAt)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("delivery_address LIKE ? OR promocode LIKE ?", like, like)
	}

	var orders []models.Order
	err := query.
		Preload("User").
		Preload("Products").
		Order("id").
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrdered returns every order by primary key ascending with
// associations loaded, for the full-table exports.
func (r *Repository) ListAllOrdered(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Products").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByUser returns the user's orders by primary key ascending.
func (r *Repository) FindByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("user_id = ?", userID).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Latest returns the most recently created orders, newest first.
func (r *Repository) Latest(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Products").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes the order and its product memberships.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateReceipt stores the receipt path on the order.
func (r *Repository) UpdateReceipt(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("receipt", path).Error
}

// ListFilters describe the supported filter knobs for the collection
// endpoint. Field filters are exact matches; Search spans delivery address
// and promocode.
type ListFilters struct {
	DeliveryAddress *string
	Promocode       *string
	User            *uint
	CreatedAt       *time.Time
	Search          string
}
