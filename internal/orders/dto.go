package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
)

// OrderDTO is the structured order payload served by the collection endpoint
// and the cached per-user export.
type OrderDTO struct {
	PK              uint      `json:"pk"`
	DeliveryAddress string    `json:"delivery_address"`
	Promocode       string    `json:"promocode"`
	CreatedAt       time.Time `json:"created_at"`
	User            *uint     `json:"user"`
	Products        []uint    `json:"products"`
	Receipt         *string   `json:"receipt"`
}

// ExportOrderDTO is the plain export row. The shape intentionally differs
// from OrderDTO: user and products are rendered as display strings, and the
// address key is shortened. Existing consumers depend on this asymmetry.
type ExportOrderDTO struct {
	PK        uint   `json:"pk"`
	Address   string `json:"address"`
	Promocode string `json:"promocode"`
	UserIs    string `json:"user_is"`
	Products  string `json:"products"`
}

// LatestOrderDTO feeds the syndication endpoint.
type LatestOrderDTO struct {
	PK        uint
	CreatedAt time.Time
	Products  string
}

// NewOrderDTO builds the structured payload from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	products := make([]uint, len(order.Products))
	for i, p := range order.Products {
		products[i] = p.ID
	}
	return &OrderDTO{
		PK:              order.ID,
		DeliveryAddress: order.DeliveryAddress,
		Promocode:       order.Promocode,
		CreatedAt:       order.CreatedAt,
		User:            order.UserID,
		Products:        products,
		Receipt:         order.Receipt,
	}
}

// NewExportOrderDTO maps an order onto the plain export row.
func NewExportOrderDTO(order *models.Order) ExportOrderDTO {
	return ExportOrderDTO{
		PK:        order.ID,
		Address:   order.DeliveryAddress,
		Promocode: order.Promocode,
		UserIs:    order.User.String(),
		Products:  productSetRepr(order.Products),
	}
}

// productSetRepr renders the order's product set as a queryset display
// string, each element wrapped in its model repr. Export consumers parse
// this exact format.
func productSetRepr(products []models.Product) string {
	parts := make([]string, len(products))
	for i := range products {
		parts[i] = fmt.Sprintf("<Product: %s>", products[i].String())
	}
	return fmt.Sprintf("<QuerySet [%s]>", strings.Join(parts, ", "))
}
