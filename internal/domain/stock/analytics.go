// Package stock contiene los servicios de dominio puros del motor de inventario:
// cálculo de consumo, proyección de agotamiento y punto de reorden.
// Todas las funciones operan sobre datos ya cargados; no tocan persistencia.
package stock

import (
	"math"
	"time"

	"github.com/invorya/stock-core/internal/domain/entity"
)

// AnalysisParams parámetros de reposición: lead time del proveedor y factor de
// seguridad aplicado a la desviación estándar del consumo diario.
type AnalysisParams struct {
	LeadTimeDays int
	SafetyFactor float64
}

// Analysis resultado del análisis de un artículo. Los punteros son nil cuando la
// métrica no es calculable (cantidad 0 o sin consumo observado); nunca se divide
// por cero ni se devuelve Inf/NaN.
type Analysis struct {
	ObservationDays     int      // días del primer al último movimiento, inclusive
	AvgDailyConsumption float64  // media diaria de out + adjustment_down
	AvgDailyReceipts    float64  // media diaria de in + adjustment_up + initial
	StdDevConsumption   float64  // desviación estándar muestral del consumo diario
	MonthlyTurnoverRate *float64 // (consumo diario × 30) / cantidad × 100
	DaysUntilStockout   *float64 // cantidad / consumo diario
	ReorderPoint        float64  // consumo×lead time + factor×stddev
	OrderQuantity       int64    // max(0, max_quantity − cantidad actual)
	ForecastDemand      float64  // demanda proyectada durante el lead time
}

// Analyze calcula todas las métricas del artículo a partir de su historial de
// movimientos. La ventana de observación va del día del primer movimiento al del
// último; los días sin movimientos cuentan como consumo cero, no como faltantes.
func Analyze(item *entity.Item, movements []*entity.Movement, p AnalysisParams) Analysis {
	a := Analysis{OrderQuantity: orderQuantity(item)}

	consumption, receipts, days := dailySeries(movements)
	a.ObservationDays = days
	if days > 0 {
		a.AvgDailyConsumption = sum(consumption) / float64(days)
		a.AvgDailyReceipts = sum(receipts) / float64(days)
		a.StdDevConsumption = sampleStdDev(consumption, a.AvgDailyConsumption)
	}

	if a.AvgDailyConsumption > 0 {
		if item.Quantity > 0 {
			rate := a.AvgDailyConsumption * 30 / float64(item.Quantity) * 100
			a.MonthlyTurnoverRate = &rate
			stockout := float64(item.Quantity) / a.AvgDailyConsumption
			a.DaysUntilStockout = &stockout
		}
		a.ForecastDemand = a.AvgDailyConsumption * float64(p.LeadTimeDays)
	}

	a.ReorderPoint = a.AvgDailyConsumption*float64(p.LeadTimeDays) + p.SafetyFactor*a.StdDevConsumption
	return a
}

// dailySeries agrupa las magnitudes por día calendario (UTC) y devuelve las dos
// series alineadas al rango [primer día, último día] más el número de días.
func dailySeries(movements []*entity.Movement) (consumption, receipts []float64, days int) {
	if len(movements) == 0 {
		return nil, nil, 0
	}
	var first, last time.Time
	outByDay := make(map[time.Time]float64)
	inByDay := make(map[time.Time]float64)
	for _, m := range movements {
		day := m.CreatedAt.UTC().Truncate(24 * time.Hour)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
		if entity.Inbound(m.Type) {
			inByDay[day] += float64(m.Quantity)
		} else {
			outByDay[day] += float64(m.Quantity)
		}
	}
	days = int(last.Sub(first).Hours()/24) + 1
	consumption = make([]float64, 0, days)
	receipts = make([]float64, 0, days)
	for d := first; !d.After(last); d = d.Add(24 * time.Hour) {
		consumption = append(consumption, outByDay[d])
		receipts = append(receipts, inByDay[d])
	}
	return consumption, receipts, days
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// sampleStdDev desviación estándar muestral (n-1). Con menos de dos observaciones
// devuelve 0.
func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func orderQuantity(item *entity.Item) int64 {
	if gap := item.MaxQuantity - item.Quantity; gap > 0 {
		return gap
	}
	return 0
}
