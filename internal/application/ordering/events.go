package ordering

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Eventos publicados en el relay.
const (
	EventOrderCreated  = "order-created"
	EventNewOrder      = "new-order"
	EventStatusUpdated = "order-status-updated"
	EventNewOrderReady = "new-order-ready"
	EventOrderAssigned = "order-assigned"
)

// RoomCouriers sala común de repartidores.
const RoomCouriers = "couriers"

const (
	roomOrderPrefix = "order-"
	roomShopPrefix  = "shop-"
	roomUserPrefix  = "user-"
)

func RoomOrder(orderID string) string { return roomOrderPrefix + orderID }
func RoomShop(shopID string) string   { return roomShopPrefix + shopID }
func RoomUser(userID string) string   { return roomUserPrefix + userID }

// ParseRoom separa una sala en su tipo ("order", "shop", "user", "couriers") e id.
func ParseRoom(room string) (kind, id string, ok bool) {
	switch {
	case room == RoomCouriers:
		return RoomCouriers, "", true
	case strings.HasPrefix(room, roomOrderPrefix):
		id = strings.TrimPrefix(room, roomOrderPrefix)
		return "order", id, id != ""
	case strings.HasPrefix(room, roomShopPrefix):
		id = strings.TrimPrefix(room, roomShopPrefix)
		return "shop", id, id != ""
	case strings.HasPrefix(room, roomUserPrefix):
		id = strings.TrimPrefix(room, roomUserPrefix)
		return "user", id, id != ""
	}
	return "", "", false
}

// StatusUpdated payload de order-status-updated.
type StatusUpdated struct {
	OrderID   string  `json:"orderId"`
	Status    string  `json:"status"`
	CourierID *string `json:"courierId,omitempty"`
}

// Assigned payload de order-assigned.
type Assigned struct {
	OrderID   string `json:"orderId"`
	CourierID string `json:"courierId"`
}

// OrderSummary payload de order-created, new-order y new-order-ready.
type OrderSummary struct {
	OrderID         string          `json:"orderId"`
	ShopID          string          `json:"shopId"`
	CustomerID      string          `json:"customerId"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress"`
	ShopName        string          `json:"shopName,omitempty"`
	ShopAddress     string          `json:"shopAddress,omitempty"`
}
