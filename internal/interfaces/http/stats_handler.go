package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/stock"
)

// StatsHandler maneja las peticiones HTTP de estadísticas y análisis
// (protegido).
type StatsHandler struct {
	stats     *stock.StatsUseCase
	analytics *stock.AnalyticsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(stats *stock.StatsUseCase, analytics *stock.AnalyticsUseCase) *StatsHandler {
	return &StatsHandler{stats: stats, analytics: analytics}
}

// Summary godoc
// @Summary      Resumen global del inventario
// @Description  Conteos por estado, valor total y tasa media de rotación mensual (null si ningún artículo tiene rotación calculable).
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreStatsResponse
// @Router       /api/items/statistics [get]
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.stats.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Analyze godoc
// @Summary      Análisis de consumo y reposición de un artículo
// @Description  Calcula consumo diario medio, desviación estándar, rotación, días hasta quiebre, punto de reorden y cantidad sugerida a partir del libro de movimientos.
// @Tags         statistics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeRequest  true  "Artículo a analizar"
// @Success      200   {object}  dto.ItemAnalysisResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/statistics/analyze [post]
func (h *StatsHandler) Analyze(c *fiber.Ctx) error {
	var in dto.AnalyzeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "itemId es requerido"})
	}
	out, err := h.analytics.Analyze(c.UserContext(), in.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
