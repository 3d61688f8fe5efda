package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
)

// idParam parámetro de ruta con formato UUID; cualquier otro valor no identifica ningún recurso.
func idParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if uuid.Validate(id) != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// validateOrderIDs los ids del carrito deben ser UUID. Los vacíos los reporta el caso de uso.
func validateOrderIDs(in dto.PlaceOrderRequest) error {
	if id := strings.TrimSpace(in.ShopID); id != "" && uuid.Validate(id) != nil {
		return domain.NewValidationError("shop_id", "id inválido")
	}
	for i, it := range in.Items {
		if id := strings.TrimSpace(it.ProductID); id != "" && uuid.Validate(id) != nil {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "id inválido")
		}
	}
	return nil
}
