package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido de un cliente a una tienda. TotalAmount es una foto fija tomada al crear.
type Order struct {
	ID              string
	CustomerID      string
	ShopID          string
	CourierID       *string
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	ServiceFee      decimal.Decimal
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	Notes           *string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem línea inmutable con el precio unitario al momento del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}

// LineTotal precio × cantidad.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasCourier indica si ya hay repartidor asignado.
func (o *Order) HasCourier() bool { return o.CourierID != nil && *o.CourierID != "" }

// AvailableOrder pedido listo sin repartidor, con datos de recogida.
type AvailableOrder struct {
	Order
	ShopName    string
	ShopAddress string
}
