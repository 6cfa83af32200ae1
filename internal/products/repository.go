package products

import (
	"context"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists the mutated product record.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product with its gallery images.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns non-archived products in the storefront order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("name, price").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// List returns products matching the collection filters, newest page rules
// applied, ordered by primary key.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.Name != nil {
		query = query.Where("name = ?", *filters.Name)
	}
	if filters.Description != nil {
		query = query.Where("description = ?", *filters.Description)
	}
	if filters.Price != nil {
		query = query.Where("price = ?", *filters.Price)
	}
	if filters.Discount != nil {
		query = query.Where("discount = ?", *filters.Discount)
	}
	if filters.Archived != nil {
		query = query.Where("archived = ?", *filters.Archived)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var products []models.Product
	err := query.
		Order("id").
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListAllOrdered returns every product ordered by primary key ascending.
func (r *Repository) ListAllOrdered(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SetArchived flips the soft-delete flag on the given products.
func (r *Repository) SetArchived(ctx context.Context, ids []uint, archived bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Update("archived", archived).Error
}

// Delete removes the product row; gallery images cascade.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddImage attaches a gallery image to the product.
func (r *Repository) AddImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// UpdatePreview stores the preview path on the product.
func (r *Repository) UpdatePreview(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("preview", path).Error
}
