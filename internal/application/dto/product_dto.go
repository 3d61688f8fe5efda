package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto en la tienda del tendero.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock       int             `json:"stock" validate:"min=0"`
	Category    string          `json:"category" validate:"required"`
	Barcode     *string         `json:"barcode,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// UpdateProductRequest actualización parcial; los campos nil no se tocan.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
}

// SetProductStatusRequest active | inactive.
type SetProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	ShopID      string          `json:"shop_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Barcode     *string         `json:"barcode,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
