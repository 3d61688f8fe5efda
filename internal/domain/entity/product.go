package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product artículo del catálogo de una tienda.
// Stock es el inventario autoritativo; los pedidos lo reservan al colocarse.
type Product struct {
	ID          string
	ShopID      string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Barcode     *string
	ImageURL    *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
