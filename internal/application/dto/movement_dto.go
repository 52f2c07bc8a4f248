package dto

import "time"

// RecordMovementRequest body para POST /items/transactions. TransactionType es
// in, out, adjustment_up o adjustment_down; "initial" solo lo emite la creación
// de artículos, nunca este endpoint.
type RecordMovementRequest struct {
	ItemID                string  `json:"item_id"`
	TransactionType       string  `json:"transaction_type"`
	Quantity              int64   `json:"quantity"`
	Reference             string  `json:"reference,omitempty"`
	Notes                 string  `json:"notes,omitempty"`
	SourceLocationID      *string `json:"source_location_id,omitempty"`
	DestinationLocationID *string `json:"destination_location_id,omitempty"`
}

// MovementListRequest query params de GET /items/transactions.
// Range es una ventana relativa: today, 7d o 30d (vacío = todo el historial).
type MovementListRequest struct {
	ItemID string `query:"itemId"`
	Type   string `query:"type"`
	Range  string `query:"range"`
	Sort   string `query:"sort"`  // date | quantity
	Order  string `query:"order"` // asc | desc
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// MovementResponse representación de un movimiento del libro.
type MovementResponse struct {
	ID                    string    `json:"id"`
	ItemID                string    `json:"item_id"`
	Type                  string    `json:"transaction_type"`
	Quantity              int64     `json:"quantity"`
	SignedQuantity        int64     `json:"signed_quantity"`
	Reference             string    `json:"reference,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	UserID                string    `json:"user_id,omitempty"`
	UserName              string    `json:"user_name,omitempty"`
	SourceLocationID      *string   `json:"source_location_id,omitempty"`
	DestinationLocationID *string   `json:"destination_location_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// MovementListResponse respuesta de GET /items/transactions.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
