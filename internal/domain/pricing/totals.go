package pricing

import "github.com/shopspring/decimal"

// Line cantidad y precio unitario de una línea.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals desglose del cobro de un pedido.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	ServiceFee  decimal.Decimal
	Total       decimal.Decimal
}

// OrderTotals calcula (servicio de dominio):
// Total = Σ(UnitPrice × Quantity) + DeliveryFee + ServiceFee, redondeado a 2 decimales.
func OrderTotals(lines []Line, deliveryFee, serviceFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		ServiceFee:  serviceFee,
		Total:       subtotal.Add(deliveryFee).Add(serviceFee).Round(2),
	}
}
