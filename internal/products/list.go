package products

import "github.com/shopspring/decimal"

// ListFilters describe the supported filter knobs for the collection endpoint.
// Field filters are exact matches; Search spans name and description.
type ListFilters struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Discount    *int
	Archived    *bool
	Search      string
}
