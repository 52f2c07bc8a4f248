package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /items. InitialQuantity > 0 genera un
// movimiento "initial" en la misma transacción que crea el artículo.
type CreateItemRequest struct {
	Reference       string          `json:"reference"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Unit            string          `json:"unit"`
	Category        string          `json:"category"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SupplierID      *string         `json:"supplier_id,omitempty"`
	MinQuantity     int64           `json:"min_quantity"`
	MaxQuantity     int64           `json:"max_quantity"`
	InitialQuantity int64           `json:"initial_quantity,omitempty"`
}

// UpdateItemRequest body para PUT /items (id en el cuerpo, contrato del panel).
// Solo campos descriptivos, de umbral y de precio; la cantidad no es editable:
// se deriva del libro de movimientos.
type UpdateItemRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Category    *string          `json:"category,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	SupplierID  *string          `json:"supplier_id,omitempty"`
	MinQuantity *int64           `json:"min_quantity,omitempty"`
	MaxQuantity *int64           `json:"max_quantity,omitempty"`
}

// ItemResponse representación de un artículo con su estado derivado.
type ItemResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SupplierID  *string         `json:"supplier_id,omitempty"`
	MinQuantity int64           `json:"min_quantity"`
	MaxQuantity int64           `json:"max_quantity"`
	Quantity    int64           `json:"quantity"`
	Status      string          `json:"status"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse respuesta de GET /items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}
