package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/usecase"
)

// LocationHandler maneja las peticiones HTTP para ubicaciones y asignaciones
// artículo↔ubicación (protegido).
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateLocation(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.uc.ListLocations(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListItemLocations godoc
// @Summary      Listar las ubicaciones asignadas a un artículo
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        itemId  query  string  true  "ID del artículo"
// @Success      200  {array}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/locations [get]
func (h *LocationHandler) ListItemLocations(c *fiber.Ctx) error {
	itemID := c.Query("itemId")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "itemId es requerido"})
	}
	out, err := h.uc.ListItemLocations(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar un artículo a una ubicación
// @Description  La primera asignación de un artículo queda como primaria automáticamente. La suma de cantidades asignadas no puede superar la cantidad del artículo.
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignLocationRequest  true  "Datos de la asignación"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/locations [post]
func (h *LocationHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Assign(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAssignment godoc
// @Summary      Actualizar una asignación (cantidad o bandera primaria)
// @Description  is_primary=true transfiere la bandera primaria dentro de la misma transacción; is_primary=false sobre la asignación primaria se rechaza con 409.
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateAssignmentRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.AssignmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/locations [put]
func (h *LocationHandler) UpdateAssignment(c *fiber.Ctx) error {
	var in dto.UpdateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" || in.LocationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "item_id y location_id son requeridos"})
	}
	out, err := h.uc.UpdateAssignment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveAssignment godoc
// @Summary      Quitar la asignación de un artículo a una ubicación
// @Description  Si la asignación eliminada era primaria, la de mayor cantidad restante hereda la bandera.
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        itemId      query  string  true  "ID del artículo"
// @Param        locationId  query  string  true  "ID de la ubicación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/locations [delete]
func (h *LocationHandler) RemoveAssignment(c *fiber.Ctx) error {
	itemID := c.Query("itemId")
	locationID := c.Query("locationId")
	if itemID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "itemId y locationId son requeridos"})
	}
	if err := h.uc.RemoveAssignment(c.UserContext(), itemID, locationID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
