package ordering

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos de pedidos y catálogo atados a ella.
// Garantiza que la reserva/devolución de stock y el cambio del pedido se apliquen juntos.
type TxRunner interface {
	RunOrdering(ctx context.Context, fn func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
	) error) error
}

// Notifier publica eventos del ciclo de vida. Es de mejor esfuerzo: no devuelve error
// y nunca debe bloquear ni condicionar una transición.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any, rooms ...string)
}

// Recorder métricas del motor de pedidos.
type Recorder interface {
	OrderPlaced()
	Transition(from, to string)
	Claim(won bool)
}

// ReceiptLine línea del comprobante con el nombre del producto resuelto.
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// ReceiptData todo lo que necesita el generador del comprobante.
type ReceiptData struct {
	Order        *entity.Order
	ShopName     string
	ShopAddress  string
	CustomerName string
	CourierName  string
	Lines        []ReceiptLine
}

// ReceiptGenerator genera el comprobante de entrega en PDF.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, any, ...string) {}

type noopRecorder struct{}

func (noopRecorder) OrderPlaced()              {}
func (noopRecorder) Transition(string, string) {}
func (noopRecorder) Claim(bool)                {}
