package dto

import "github.com/shopspring/decimal"

// StoreStatsResponse resumen global del inventario (GET /items/statistics).
// TurnoverRate es nil cuando ningún artículo tiene rotación calculable.
type StoreStatsResponse struct {
	TotalItems       int             `json:"total_items"`
	ActiveItemsCount int             `json:"active_items_count"`
	LowStockCount    int             `json:"low_stock_count"`
	OutOfStockCount  int             `json:"out_of_stock_count"`
	TotalValue       decimal.Decimal `json:"total_value"`
	TurnoverRate     *float64        `json:"turnover_rate"`
}

// AnalyzeRequest body para POST /items/statistics/analyze.
type AnalyzeRequest struct {
	ItemID string `json:"itemId"`
}

// CurrentAnalysisDTO métricas observadas del consumo del artículo.
// Los punteros serializan como null cuando la métrica no es calculable.
type CurrentAnalysisDTO struct {
	ObservationDays     int      `json:"observation_days"`
	AvgDailyConsumption float64  `json:"avg_daily_consumption"`
	AvgDailyReceipts    float64  `json:"avg_daily_receipts"`
	StdDevConsumption   float64  `json:"stddev_consumption"`
	MonthlyTurnoverRate *float64 `json:"monthly_turnover_rate"`
}

// PredictionsDTO proyecciones de reposición del artículo.
type PredictionsDTO struct {
	DaysUntilStockout       *float64 `json:"days_until_stockout"`
	RecommendedReorderPoint float64  `json:"recommended_reorder_point"`
	RecommendedOrderQty     int64    `json:"recommended_order_quantity"`
	ForecastDemand          float64  `json:"forecast_demand"`
	LeadTimeDays            int      `json:"lead_time_days"`
}

// ItemAnalysisResponse respuesta de POST /items/statistics/analyze.
type ItemAnalysisResponse struct {
	ItemID          string             `json:"item_id"`
	Reference       string             `json:"reference"`
	CurrentQuantity int64              `json:"current_quantity"`
	CurrentAnalysis CurrentAnalysisDTO `json:"current_analysis"`
	Predictions     PredictionsDTO     `json:"predictions"`
}
