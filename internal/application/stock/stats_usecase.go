package stock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// StatsUseCase agrega las métricas globales del inventario para el dashboard
// (GET /items/statistics). Se recalcula en cada petición; no cachea.
type StatsUseCase struct {
	itemRepo  repository.ItemRepository
	analytics *AnalyticsUseCase
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(itemRepo repository.ItemRepository, analytics *AnalyticsUseCase) *StatsUseCase {
	return &StatsUseCase{itemRepo: itemRepo, analytics: analytics}
}

// Summary recorre todos los artículos y devuelve valor total, conteos por
// estado y la rotación mensual promedio. El análisis por artículo es
// independiente, así que se paraleliza con goroutines y se junta al final.
// Los artículos sin rotación calculable se excluyen del promedio.
func (uc *StatsUseCase) Summary(ctx context.Context) (*dto.StoreStatsResponse, error) {
	items, err := uc.itemRepo.List(repository.ItemFilter{})
	if err != nil {
		return nil, err
	}

	out := &dto.StoreStatsResponse{
		TotalItems: len(items),
		TotalValue: decimal.Zero,
	}
	for _, it := range items {
		out.TotalValue = out.TotalValue.Add(it.TotalValue())
		switch it.Status() {
		case entity.StatusActive:
			out.ActiveItemsCount++
		case entity.StatusLow:
			out.LowStockCount++
			out.ActiveItemsCount++
		case entity.StatusOut:
			out.OutOfStockCount++
		}
	}

	rates := make([]*float64, len(items))
	var wg sync.WaitGroup
	for i, it := range items {
		wg.Add(1)
		go func(i int, itemID string) {
			defer wg.Done()
			analysis, err := uc.analytics.Analyze(ctx, itemID)
			if err != nil {
				return
			}
			rates[i] = analysis.CurrentAnalysis.MonthlyTurnoverRate
		}(i, it.ID)
	}
	wg.Wait()

	var total float64
	var n int
	for _, r := range rates {
		if r != nil {
			total += *r
			n++
		}
	}
	if n > 0 {
		avg := total / float64(n)
		out.TurnoverRate = &avg
	}
	return out, nil
}
