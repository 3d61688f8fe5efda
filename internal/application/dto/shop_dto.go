package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateShopRequest entrada para registrar la tienda del tendero.
type CreateShopRequest struct {
	Name      string           `json:"name" validate:"required,max=200"`
	Address   string           `json:"address" validate:"required"`
	Phone     string           `json:"phone"`
	Latitude  *decimal.Decimal `json:"latitude,omitempty"`
	Longitude *decimal.Decimal `json:"longitude,omitempty"`
}

// ShopResponse salida de una tienda.
type ShopResponse struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"owner_id"`
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	Phone      string           `json:"phone"`
	Latitude   *decimal.Decimal `json:"latitude,omitempty"`
	Longitude  *decimal.Decimal `json:"longitude,omitempty"`
	Status     string           `json:"status"`
	OwnerName  string           `json:"owner_name,omitempty"`
	OwnerEmail string           `json:"owner_email,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NearbyShopsQuery filtros de GET /api/shops/nearby (el radio aún no se aplica).
type NearbyShopsQuery struct {
	Lat    *float64 `query:"lat"`
	Lng    *float64 `query:"lng"`
	Radius *float64 `query:"radius"`
}
