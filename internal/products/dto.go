package products

import (
	"time"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
)

// ProductDTO is the full product payload served by the collection endpoints.
type ProductDTO struct {
	PK          uint              `json:"pk"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Discount    int16             `json:"discount"`
	CreatedAt   time.Time         `json:"created_at"`
	Archived    bool              `json:"archived"`
	CreatedBy   *uint             `json:"created_by"`
	Preview     *string           `json:"preview"`
	Images      []ProductImageDTO `json:"images,omitempty"`
}

// ProductImageDTO carries gallery image metadata.
type ProductImageDTO struct {
	PK          uint   `json:"pk"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// ExportProductDTO is the reduced shape used by the plain product export. The
// field set is fixed at {pk, name, price, archived} for compatibility with
// existing consumers.
type ExportProductDTO struct {
	PK       uint   `json:"pk"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Archived bool   `json:"archived"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		PK:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Discount:    product.Discount,
		CreatedAt:   product.CreatedAt,
		Archived:    product.Archived,
		CreatedBy:   product.CreatedByID,
		Preview:     product.Preview,
	}
	if len(product.Images) > 0 {
		dto.Images = make([]ProductImageDTO, len(product.Images))
		for i, img := range product.Images {
			dto.Images[i] = ProductImageDTO{
				PK:          img.ID,
				Image:       img.Image,
				Description: img.Description,
			}
		}
	}
	return dto
}

// NewExportProductDTO maps a product onto the plain export row.
func NewExportProductDTO(product *models.Product) ExportProductDTO {
	return ExportProductDTO{
		PK:       product.ID,
		Name:     product.Name,
		Price:    product.Price.StringFixed(2),
		Archived: product.Archived,
	}
}
