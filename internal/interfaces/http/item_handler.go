package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/usecase"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP para artículos (protegido).
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos con filtros opcionales
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "raw | finished | packaging"
// @Param        status    query  string  false  "active | low | out"
// @Param        supplier  query  string  false  "ID del proveedor"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier"),
	}
	out, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo (id en el cuerpo)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido en el cuerpo"})
	}
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Description  Rechaza con 409 si el artículo conserva stock o asignaciones; force=true lo elimina igual. Los movimientos del libro se conservan.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id     query  string  true   "ID del artículo"
// @Param        force  query  bool   false  "Omitir las guardas de eliminación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	force := c.QueryBool("force", false)
	if err := h.uc.Delete(c.UserContext(), id, force); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
