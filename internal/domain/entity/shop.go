package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de tienda.
const (
	ShopPending   = "pending"
	ShopApproved  = "approved"
	ShopRejected  = "rejected"
	ShopSuspended = "suspended"
)

// DefaultShopPhone se usa cuando el tendero no indica teléfono.
const DefaultShopPhone = "9999999999"

// Shop tienda de un tendero (una por dueño).
type Shop struct {
	ID        string
	OwnerID   string
	Name      string
	Address   string
	Phone     string
	Latitude  *decimal.Decimal
	Longitude *decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShopWithOwner fila del listado de administración.
type ShopWithOwner struct {
	Shop
	OwnerName  string
	OwnerEmail string
}
