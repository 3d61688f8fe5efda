package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
	"github.com/jhoicas/localmart-api/internal/domain/pricing"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// Fees cargos fijos por pedido.
type Fees struct {
	Delivery decimal.Decimal
	Service  decimal.Decimal
}

// Deps dependencias del motor de pedidos. Notifier, Metrics y Receipts son opcionales.
type Deps struct {
	Orders   repository.OrderRepository
	Products repository.ProductRepository
	Shops    repository.ShopRepository
	Users    repository.UserRepository
	Tx       TxRunner
	Notifier Notifier
	Metrics  Recorder
	Receipts ReceiptGenerator
	Fees     Fees
	Logger   zerolog.Logger
}

// OrderingUseCase motor del ciclo de vida del pedido.
// Toda transición (endpoints explícitos y PATCH genérico) pasa por transition.
type OrderingUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	shops    repository.ShopRepository
	users    repository.UserRepository
	tx       TxRunner
	notifier Notifier
	metrics  Recorder
	receipts ReceiptGenerator
	fees     Fees
	log      zerolog.Logger
}

// NewOrderingUseCase construye el motor.
func NewOrderingUseCase(d Deps) *OrderingUseCase {
	uc := &OrderingUseCase{
		orders:   d.Orders,
		products: d.Products,
		shops:    d.Shops,
		users:    d.Users,
		tx:       d.Tx,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		receipts: d.Receipts,
		fees:     d.Fees,
		log:      d.Logger.With().Str("component", "ordering").Logger(),
	}
	if uc.notifier == nil {
		uc.notifier = noopNotifier{}
	}
	if uc.metrics == nil {
		uc.metrics = noopRecorder{}
	}
	return uc
}

// errLostRace la escritura condicional no encontró la fila en el estado esperado.
var errLostRace = errors.New("escritura condicional sin efecto")

// MaxItemQuantity tope de unidades por producto en un pedido, ya fusionadas las líneas repetidas.
const MaxItemQuantity = 10000

type cartLine struct {
	index     int
	productID string
	quantity  int
	price     *decimal.Decimal
}

// PlaceOrder crea el pedido en pending. En una sola transacción bloquea cada producto,
// verifica tienda, estado y precio, reserva stock y guarda pedido y líneas.
func (uc *OrderingUseCase) PlaceOrder(ctx context.Context, customerID string, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	lines, err := validatePlaceOrder(&in)
	if err != nil {
		return nil, err
	}
	shop, err := uc.shops.GetByID(ctx, in.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	if shop.Status != entity.ShopApproved {
		return nil, domain.ErrShopNotAvailable
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		ShopID:          shop.ID,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
		Status:          lifecycle.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// orden de bloqueo estable para evitar deadlocks entre pedidos concurrentes
	locked := make([]cartLine, len(lines))
	copy(locked, lines)
	sort.Slice(locked, func(i, j int) bool { return locked[i].productID < locked[j].productID })

	err = uc.tx.RunOrdering(ctx, func(orders repository.OrderRepository, products repository.ProductRepository) error {
		priced := make(map[string]decimal.Decimal, len(locked))
		for _, l := range locked {
			field := fmt.Sprintf("items[%d].product_id", l.index)
			p, err := products.GetForUpdate(ctx, l.productID)
			if err != nil {
				return err
			}
			if p == nil || p.ShopID != shop.ID {
				return domain.NewValidationError(field, "el producto no pertenece a la tienda")
			}
			if p.Status != entity.ProductActive {
				return domain.NewValidationError(field, "el producto no está activo")
			}
			if l.price != nil && !l.price.Equal(p.Price) {
				return domain.ErrPriceMismatch
			}
			if err := products.DecrementStock(ctx, p.ID, l.quantity); err != nil {
				return err
			}
			priced[p.ID] = p.Price
		}

		pl := make([]pricing.Line, 0, len(lines))
		for _, l := range lines {
			price := priced[l.productID]
			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: l.productID,
				Quantity:  l.quantity,
				Price:     price,
				CreatedAt: now,
			})
			pl = append(pl, pricing.Line{Quantity: l.quantity, UnitPrice: price})
		}
		totals := pricing.OrderTotals(pl, uc.fees.Delivery, uc.fees.Service)
		order.Subtotal = totals.Subtotal
		order.DeliveryFee = totals.DeliveryFee
		order.ServiceFee = totals.ServiceFee
		order.TotalAmount = totals.Total
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderPlaced()
	uc.log.Info().Str("order_id", order.ID).Str("shop_id", shop.ID).Str("customer_id", customerID).
		Str("total", order.TotalAmount.StringFixed(2)).Msg("pedido creado")
	summary := summarize(order, shop)
	uc.notifier.Notify(ctx, EventOrderCreated, summary, RoomOrder(order.ID), RoomUser(customerID))
	uc.notifier.Notify(ctx, EventNewOrder, summary, RoomShop(shop.ID))

	out := dto.NewOrderResponse(order)
	return &out, nil
}

// AcceptOrder pending → accepted (tendero dueño).
func (uc *OrderingUseCase) AcceptOrder(ctx context.Context, actor lifecycle.Actor, orderID string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.StatusAccepted)
}

// Advance accepted → preparing o preparing → ready (tendero dueño).
func (uc *OrderingUseCase) Advance(ctx context.Context, actor lifecycle.Actor, orderID, target string) (*dto.OrderResponse, error) {
	if target != lifecycle.StatusPreparing && target != lifecycle.StatusReady {
		o, err := uc.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.TransitionError{From: o.Status, To: target}
	}
	return uc.transition(ctx, actor, orderID, target)
}

// ClaimDelivery ready → picked_up asignando al repartidor. Con dos repartidores
// simultáneos gana exactamente uno; el otro recibe ErrOrderAlreadyClaimed.
func (uc *OrderingUseCase) ClaimDelivery(ctx context.Context, actor lifecycle.Actor, orderID string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.StatusPickedUp)
}

// MarkDelivered picked_up → delivered (solo el repartidor asignado).
func (uc *OrderingUseCase) MarkDelivered(ctx context.Context, actor lifecycle.Actor, orderID string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.StatusDelivered)
}

// CancelOrder cancela mientras esté en pending, accepted o preparing y devuelve el stock reservado.
func (uc *OrderingUseCase) CancelOrder(ctx context.Context, actor lifecycle.Actor, orderID string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.StatusCancelled)
}

// SetStatus entrada genérica: aplica exactamente las mismas reglas que los endpoints explícitos.
func (uc *OrderingUseCase) SetStatus(ctx context.Context, actor lifecycle.Actor, orderID, status string) (*dto.OrderResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, domain.NewValidationError("status", "es requerido")
	}
	return uc.transition(ctx, actor, orderID, status)
}

func (uc *OrderingUseCase) transition(ctx context.Context, actor lifecycle.Actor, orderID, target string) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	shop, err := uc.shops.GetByID(ctx, order.ShopID)
	if err != nil {
		return nil, err
	}
	ownerID := ""
	if shop != nil {
		ownerID = shop.OwnerID
	}
	if err := lifecycle.Authorize(actor, order, ownerID, target); err != nil {
		return nil, uc.rejected(order, actor, target, err)
	}

	from := order.Status
	switch target {
	case lifecycle.StatusPickedUp:
		ok, err := uc.orders.ClaimIfReady(ctx, order.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, uc.rejected(order, actor, target, uc.reauthorize(ctx, actor, order.ID, ownerID, target))
		}
		courierID := actor.UserID
		order.CourierID = &courierID
		uc.metrics.Claim(true)

	case lifecycle.StatusCancelled:
		err := uc.tx.RunOrdering(ctx, func(orders repository.OrderRepository, products repository.ProductRepository) error {
			ok, err := orders.UpdateStatusIf(ctx, order.ID, from, target)
			if err != nil {
				return err
			}
			if !ok {
				return errLostRace
			}
			for _, it := range order.Items {
				if err := products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
		if errors.Is(err, errLostRace) {
			return nil, uc.rejected(order, actor, target, uc.reauthorize(ctx, actor, order.ID, ownerID, target))
		}
		if err != nil {
			return nil, err
		}

	default:
		ok, err := uc.orders.UpdateStatusIf(ctx, order.ID, from, target)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, uc.rejected(order, actor, target, uc.reauthorize(ctx, actor, order.ID, ownerID, target))
		}
	}

	order.Status = target
	order.UpdatedAt = time.Now().UTC()
	uc.metrics.Transition(from, target)
	uc.log.Info().Str("order_id", order.ID).Str("from", from).Str("to", target).
		Str("actor_id", actor.UserID).Str("actor_role", actor.Role).Msg("transición aplicada")
	uc.publishTransition(ctx, order, shop)

	out := dto.NewOrderResponse(order)
	return &out, nil
}

// reauthorize vuelve a leer el pedido tras perder una escritura condicional y explica el motivo.
func (uc *OrderingUseCase) reauthorize(ctx context.Context, actor lifecycle.Actor, orderID, ownerID, target string) error {
	current, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if err := lifecycle.Authorize(actor, current, ownerID, target); err != nil {
		return err
	}
	return &domain.TransitionError{From: current.Status, To: target}
}

// rejected registra el rechazo y devuelve err sin cambios.
func (uc *OrderingUseCase) rejected(order *entity.Order, actor lifecycle.Actor, target string, err error) error {
	if errors.Is(err, domain.ErrOrderAlreadyClaimed) {
		uc.metrics.Claim(false)
		uc.log.Warn().Str("order_id", order.ID).Str("courier_id", actor.UserID).Msg("pedido ya tomado por otro repartidor")
		return err
	}
	uc.log.Debug().Err(err).Str("order_id", order.ID).Str("from", order.Status).Str("to", target).
		Str("actor_id", actor.UserID).Msg("transición rechazada")
	return err
}

func (uc *OrderingUseCase) publishTransition(ctx context.Context, o *entity.Order, shop *entity.Shop) {
	uc.notifier.Notify(ctx, EventStatusUpdated,
		StatusUpdated{OrderID: o.ID, Status: o.Status, CourierID: o.CourierID},
		RoomOrder(o.ID), RoomUser(o.CustomerID), RoomShop(o.ShopID))

	switch o.Status {
	case lifecycle.StatusReady:
		uc.notifier.Notify(ctx, EventNewOrderReady, summarize(o, shop), RoomCouriers)
	case lifecycle.StatusPickedUp:
		uc.notifier.Notify(ctx, EventOrderAssigned,
			Assigned{OrderID: o.ID, CourierID: *o.CourierID},
			RoomOrder(o.ID), RoomCouriers, RoomUser(o.CustomerID))
	}
}

// ListForActor lista según el rol: cliente sus pedidos, tendero los de su tienda, repartidor los asignados.
func (uc *OrderingUseCase) ListForActor(ctx context.Context, actor lifecycle.Actor) ([]dto.OrderResponse, error) {
	switch actor.Role {
	case entity.RoleCustomer:
		return uc.ListForCustomer(ctx, actor.UserID)
	case entity.RoleShopkeeper:
		shop, err := uc.shops.GetByOwner(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if shop == nil {
			return []dto.OrderResponse{}, nil
		}
		return uc.ListForShop(ctx, shop.ID)
	case entity.RoleCourier:
		return uc.ListForCourier(ctx, actor.UserID)
	}
	return nil, domain.ErrForbidden
}

func (uc *OrderingUseCase) ListForCustomer(ctx context.Context, customerID string) ([]dto.OrderResponse, error) {
	return toResponses(uc.orders.ListByCustomer(ctx, customerID))
}

func (uc *OrderingUseCase) ListForShop(ctx context.Context, shopID string) ([]dto.OrderResponse, error) {
	return toResponses(uc.orders.ListByShop(ctx, shopID))
}

// ListForCourier pedidos asignados al repartidor.
func (uc *OrderingUseCase) ListForCourier(ctx context.Context, courierID string) ([]dto.OrderResponse, error) {
	return toResponses(uc.orders.ListByCourier(ctx, courierID))
}

// ListAvailable pedidos ready sin repartidor: el conjunto candidato de ClaimDelivery.
func (uc *OrderingUseCase) ListAvailable(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.orders.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, a := range list {
		r := dto.NewOrderResponse(&a.Order)
		r.ShopName = a.ShopName
		r.ShopAddress = a.ShopAddress
		out = append(out, r)
	}
	return out, nil
}

// GetOrder detalle con líneas; visible para las partes del pedido, un admin o
// cualquier repartidor mientras esté disponible.
func (uc *OrderingUseCase) GetOrder(ctx context.Context, actor lifecycle.Actor, orderID string) (*dto.OrderResponse, error) {
	o, shop, err := uc.loadVisible(ctx, actor, orderID, true)
	if err != nil {
		return nil, err
	}
	out := dto.NewOrderResponse(o)
	if shop != nil {
		out.ShopName = shop.Name
		out.ShopAddress = shop.Address
	}
	return &out, nil
}

// CanJoinRoom decide si el usuario puede suscribirse a una sala del relay.
func (uc *OrderingUseCase) CanJoinRoom(ctx context.Context, actor lifecycle.Actor, room string) error {
	kind, id, ok := ParseRoom(room)
	if !ok {
		return domain.NewValidationError("room", "sala desconocida")
	}
	switch kind {
	case RoomCouriers:
		if actor.Role != entity.RoleCourier {
			return domain.ErrForbidden
		}
	case "user":
		if id != actor.UserID {
			return domain.ErrForbidden
		}
	case "shop":
		shop, err := uc.shops.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if shop == nil || shop.OwnerID != actor.UserID {
			return domain.ErrForbidden
		}
	case "order":
		if _, _, err := uc.loadVisible(ctx, actor, id, true); err != nil {
			return err
		}
	}
	return nil
}

// Receipt comprobante PDF; cliente del pedido, tendero dueño o admin.
func (uc *OrderingUseCase) Receipt(ctx context.Context, actor lifecycle.Actor, orderID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de comprobantes no configurado")
	}
	o, shop, err := uc.loadVisible(ctx, actor, orderID, false)
	if err != nil {
		return nil, err
	}
	data := ReceiptData{Order: o}
	if shop != nil {
		data.ShopName, data.ShopAddress = shop.Name, shop.Address
	}
	if c, err := uc.users.GetByID(ctx, o.CustomerID); err == nil && c != nil {
		data.CustomerName = c.Name
	}
	if o.HasCourier() {
		if c, err := uc.users.GetByID(ctx, *o.CourierID); err == nil && c != nil {
			data.CourierName = c.Name
		}
	}
	for _, it := range o.Items {
		name := it.ProductID
		if p, err := uc.products.GetByID(ctx, it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Total:     it.LineTotal(),
		})
	}
	return uc.receipts.GenerateReceipt(ctx, data)
}

func (uc *OrderingUseCase) load(ctx context.Context, orderID string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// loadVisible carga el pedido y verifica que actor sea parte de él.
// includeCouriers permite además al repartidor asignado y a cualquier repartidor si el pedido está disponible.
func (uc *OrderingUseCase) loadVisible(ctx context.Context, actor lifecycle.Actor, orderID string, includeCouriers bool) (*entity.Order, *entity.Shop, error) {
	o, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	shop, err := uc.shops.GetByID(ctx, o.ShopID)
	if err != nil {
		return nil, nil, err
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return o, shop, nil
	case entity.RoleCustomer:
		if o.CustomerID == actor.UserID {
			return o, shop, nil
		}
	case entity.RoleShopkeeper:
		if shop != nil && shop.OwnerID == actor.UserID {
			return o, shop, nil
		}
	case entity.RoleCourier:
		if !includeCouriers {
			break
		}
		if o.HasCourier() && *o.CourierID == actor.UserID {
			return o, shop, nil
		}
		if !o.HasCourier() && o.Status == lifecycle.StatusReady {
			return o, shop, nil
		}
	}
	return nil, nil, domain.ErrForbidden
}

func summarize(o *entity.Order, shop *entity.Shop) OrderSummary {
	s := OrderSummary{
		OrderID:         o.ID,
		ShopID:          o.ShopID,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
	}
	if shop != nil {
		s.ShopName, s.ShopAddress = shop.Name, shop.Address
	}
	return s
}

func toResponses(list []*entity.Order, err error) ([]dto.OrderResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.NewOrderResponse(o))
	}
	return out, nil
}

// validatePlaceOrder valida el carrito y fusiona líneas repetidas del mismo producto.
func validatePlaceOrder(in *dto.PlaceOrderRequest) ([]cartLine, error) {
	in.ShopID = strings.TrimSpace(in.ShopID)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	if in.ShopID == "" {
		return nil, domain.NewValidationError("shop_id", "es requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "el pedido debe tener al menos un producto")
	}
	var lines []cartLine
	seen := make(map[string]int, len(in.Items))
	for i, it := range in.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "es requerido")
		}
		field := fmt.Sprintf("items[%d].quantity", i)
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(field, "debe ser mayor que 0")
		}
		if it.Quantity > MaxItemQuantity {
			return nil, domain.NewValidationError(field, fmt.Sprintf("no puede superar %d", MaxItemQuantity))
		}
		if j, dup := seen[pid]; dup {
			if it.Price != nil && lines[j].price != nil && !it.Price.Equal(*lines[j].price) {
				return nil, domain.ErrPriceMismatch
			}
			// ambos sumandos están acotados, la suma no desborda
			if lines[j].quantity+it.Quantity > MaxItemQuantity {
				return nil, domain.NewValidationError(field, fmt.Sprintf("el total del producto no puede superar %d", MaxItemQuantity))
			}
			lines[j].quantity += it.Quantity
			if lines[j].price == nil {
				lines[j].price = it.Price
			}
			continue
		}
		seen[pid] = len(lines)
		lines = append(lines, cartLine{index: i, productID: pid, quantity: it.Quantity, price: it.Price})
	}
	if in.DeliveryAddress == "" {
		return nil, domain.NewValidationError("delivery_address", "es requerido")
	}
	return lines, nil
}
