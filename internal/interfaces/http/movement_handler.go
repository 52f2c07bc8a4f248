package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/stock"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos
// (protegido). El registro toma la identidad del usuario del token.
type MovementHandler struct {
	record *stock.RecordMovementUseCase
	query  *stock.MovementQueryUseCase
	export *stock.ExportMovementsUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	record *stock.RecordMovementUseCase,
	query *stock.MovementQueryUseCase,
	export *stock.ExportMovementsUseCase,
) *MovementHandler {
	return &MovementHandler{record: record, query: query, export: export}
}

// Record godoc
// @Summary      Registrar un movimiento de stock
// @Description  Tipos válidos: in, out, adjustment_up, adjustment_down. Un "out" que dejaría cantidad negativa se rechaza con 409 sin tocar el libro.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Datos del movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/transactions [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.record.Record(c.UserContext(), stock.MovementInput{
		ItemID:                in.ItemID,
		Type:                  in.TransactionType,
		Quantity:              in.Quantity,
		Reference:             in.Reference,
		Notes:                 in.Notes,
		UserID:                GetUserID(c),
		UserName:              GetUserName(c),
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:                    mov.ID,
		ItemID:                mov.ItemID,
		Type:                  mov.Type,
		Quantity:              mov.Quantity,
		SignedQuantity:        mov.SignedQuantity(),
		Reference:             mov.Reference,
		Notes:                 mov.Notes,
		UserID:                mov.UserID,
		UserName:              mov.UserName,
		SourceLocationID:      mov.SourceLocationID,
		DestinationLocationID: mov.DestinationLocationID,
		CreatedAt:             mov.CreatedAt,
	})
}

// List godoc
// @Summary      Listar movimientos de un artículo
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        itemId  query  string  true   "ID del artículo"
// @Param        type    query  string  false  "initial | in | out | adjustment_up | adjustment_down"
// @Param        range   query  string  false  "today | 7d | 30d (vacío = todo)"
// @Param        sort    query  string  false  "date | quantity"  default(date)
// @Param        order   query  string  false  "asc | desc"       default(desc)
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/transactions [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.query.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar los movimientos de un artículo en CSV
// @Tags         transactions
// @Security     Bearer
// @Produce      text/csv
// @Param        itemId  query  string  true   "ID del artículo"
// @Param        type    query  string  false  "Filtro por tipo"
// @Param        range   query  string  false  "today | 7d | 30d"
// @Success      200  {string}  string  "CSV con cabecera date,type,reference,quantity,source_location,destination_location,notes"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/transactions/export [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	data, err := h.export.ExportCSV(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("movimientos_%s_%s.csv", in.ItemID, time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
