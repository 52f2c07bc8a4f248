package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de artículo.
const (
	CategoryRaw       = "raw"       // materia prima
	CategoryFinished  = "finished"  // producto terminado
	CategoryPackaging = "packaging" // empaque
)

// Estados derivados de la cantidad vs umbrales (no se persisten).
const (
	StatusActive = "active" // quantity > min_quantity
	StatusLow    = "low"    // 0 < quantity <= min_quantity
	StatusOut    = "out"    // quantity <= 0
)

// Item representa un artículo de inventario (SKU) con umbrales de reposición.
// Quantity es derivado del libro de movimientos y se materializa para consultas;
// nunca se edita directamente (solo vía movimientos).
type Item struct {
	ID          string
	Reference   string // código único legible (p.ej. "MAT-001")
	Name        string
	Description string
	Unit        string // "kg", "unit", "m3", ...
	Category    string // raw, finished, packaging
	UnitPrice   decimal.Decimal
	SupplierID  *string
	MinQuantity int64
	MaxQuantity int64
	Quantity    int64 // cache de la suma firmada de movimientos
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidCategory indica si la categoría es una de las soportadas.
func ValidCategory(c string) bool {
	return c == CategoryRaw || c == CategoryFinished || c == CategoryPackaging
}

// Status deriva el estado del artículo según cantidad y umbral mínimo.
func (i *Item) Status() string {
	switch {
	case i.Quantity <= 0:
		return StatusOut
	case i.Quantity <= i.MinQuantity:
		return StatusLow
	default:
		return StatusActive
	}
}

// TotalValue devuelve el valor del stock actual (cantidad × precio unitario).
func (i *Item) TotalValue() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.UnitPrice)
}
