package stock

import (
	"context"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
	domstock "github.com/invorya/stock-core/internal/domain/stock"
)

// AnalyticsUseCase ejecuta el motor de análisis sobre un artículo: carga el
// historial completo del libro y delega el cálculo en el servicio de dominio
// (función pura, sin estado).
type AnalyticsUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	params   domstock.AnalysisParams
}

// NewAnalyticsUseCase construye el caso de uso. params viene de configuración
// (lead time global y factor de seguridad), nunca hardcodeado.
func NewAnalyticsUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	params domstock.AnalysisParams,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{itemRepo: itemRepo, movRepo: movRepo, params: params}
}

// Analyze calcula consumo, rotación, proyección de agotamiento y reposición
// para el artículo indicado (POST /items/statistics/analyze).
func (uc *AnalyticsUseCase) Analyze(ctx context.Context, itemID string) (*dto.ItemAnalysisResponse, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.allMovements(itemID)
	if err != nil {
		return nil, err
	}
	a := domstock.Analyze(item, movements, uc.params)
	return &dto.ItemAnalysisResponse{
		ItemID:          item.ID,
		Reference:       item.Reference,
		CurrentQuantity: item.Quantity,
		CurrentAnalysis: dto.CurrentAnalysisDTO{
			ObservationDays:     a.ObservationDays,
			AvgDailyConsumption: a.AvgDailyConsumption,
			AvgDailyReceipts:    a.AvgDailyReceipts,
			StdDevConsumption:   a.StdDevConsumption,
			MonthlyTurnoverRate: a.MonthlyTurnoverRate,
		},
		Predictions: dto.PredictionsDTO{
			DaysUntilStockout:       a.DaysUntilStockout,
			RecommendedReorderPoint: a.ReorderPoint,
			RecommendedOrderQty:     a.OrderQuantity,
			ForecastDemand:          a.ForecastDemand,
			LeadTimeDays:            uc.params.LeadTimeDays,
		},
	}, nil
}

// allMovements pagina el libro completo del artículo en orden ascendente.
func (uc *AnalyticsUseCase) allMovements(itemID string) ([]*entity.Movement, error) {
	const pageSize = 500
	filter := repository.MovementFilter{
		SortBy: repository.MovementSortDate,
		Order:  repository.OrderAsc,
		Limit:  pageSize,
	}
	var all []*entity.Movement
	for {
		page, err := uc.movRepo.ListByItem(itemID, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		filter.Offset += pageSize
	}
}
