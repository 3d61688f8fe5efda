package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/application/usecase"
)

// ShopHandler tienda del tendero y búsqueda pública.
type ShopHandler struct {
	uc *usecase.ShopUseCase
}

func NewShopHandler(uc *usecase.ShopUseCase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar tienda (queda pendiente de aprobación)
// @Tags         shops
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShopRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.ShopResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shop [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShopRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MyShop godoc
// @Summary      Tienda del tendero autenticado
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShopResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shop/my-shop [get]
func (h *ShopHandler) MyShop(c *fiber.Ctx) error {
	out, err := h.uc.MyShop(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Nearby godoc
// @Summary      Tiendas cercanas (por ahora todas las aprobadas)
// @Tags         shops
// @Produce      json
// @Param        lat     query  number  false  "Latitud"
// @Param        lng     query  number  false  "Longitud"
// @Param        radius  query  number  false  "Radio en km"
// @Success      200     {array}  dto.ShopResponse
// @Router       /api/shops/nearby [get]
func (h *ShopHandler) Nearby(c *fiber.Ctx) error {
	var q dto.NearbyShopsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lat, lng y radius deben ser numéricos"})
	}
	out, err := h.uc.Nearby(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
