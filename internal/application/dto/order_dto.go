package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea del carrito. Price es opcional; si viene debe coincidir con el catálogo.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// PlaceOrderRequest entrada del checkout.
type PlaceOrderRequest struct {
	ShopID          string             `json:"shop_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	Notes           *string            `json:"notes,omitempty"`
}

// SetOrderStatusRequest entrada del PATCH genérico.
type SetOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	ShopID          string              `json:"shop_id"`
	CourierID       *string             `json:"courier_id"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	ServiceFee      decimal.Decimal     `json:"service_fee"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DeliveryAddress string              `json:"delivery_address"`
	Notes           *string             `json:"notes,omitempty"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	ShopName        string              `json:"shop_name,omitempty"`
	ShopAddress     string              `json:"shop_address,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
