package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/application/usecase"
)

// AdminHandler panel de administración (solo admin).
type AdminHandler struct {
	uc *usecase.AdminUseCase
}

func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Stats godoc
// @Summary      Conteos del panel
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdminStatsResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Users godoc
// @Summary      Usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.UserResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	out, err := h.uc.Users(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Shops godoc
// @Summary      Tiendas con su dueño
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ShopResponse
// @Router       /api/admin/shops [get]
func (h *AdminHandler) Shops(c *fiber.Ctx) error {
	out, err := h.uc.Shops(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PendingApprovals godoc
// @Summary      Cola de aprobaciones pendientes (más antiguas primero)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ApprovalResponse
// @Router       /api/admin/pending-approvals [get]
func (h *AdminHandler) PendingApprovals(c *fiber.Ctx) error {
	out, err := h.uc.PendingApprovals(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approvals godoc
// @Summary      Historial de aprobaciones
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ApprovalResponse
// @Router       /api/admin/approvals [get]
func (h *AdminHandler) Approvals(c *fiber.Ctx) error {
	out, err := h.uc.Approvals(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Aprobar o rechazar una solicitud
// @Description  Actualiza la solicitud y la cuenta o tienda en una sola transacción.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID de la aprobación"
// @Param        action  path  string  true  "approve | reject"
// @Param        body    body  dto.DecideApprovalRequest  false  "notas opcionales"
// @Success      200     {object}  dto.ApprovalResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/admin/approvals/{id}/{action} [post]
func (h *AdminHandler) Decide(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.DecideApprovalRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Decide(c.UserContext(), id, c.Params("action"), GetUserID(c), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
