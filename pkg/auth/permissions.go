package auth

// Permission names checked by route guards and ownership predicates.
const (
	PermProductAdd    = "products.add"
	PermProductChange = "products.change"
	PermProductDelete = "products.delete"
	PermOrderView     = "orders.view"
)
