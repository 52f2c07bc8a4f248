package dto

import "time"

// CreateLocationRequest body para POST /locations.
type CreateLocationRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignLocationRequest body para POST /items/locations.
type AssignLocationRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	IsPrimary  bool   `json:"is_primary,omitempty"`
}

// UpdateAssignmentRequest body para PUT /items/locations. Punteros para
// distinguir "no enviado" de cero/false.
type UpdateAssignmentRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Quantity   *int64 `json:"quantity,omitempty"`
	IsPrimary  *bool  `json:"is_primary,omitempty"`
}

// AssignmentResponse representación de una asignación artículo↔ubicación.
type AssignmentResponse struct {
	ItemID       string    `json:"item_id"`
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name,omitempty"`
	Quantity     int64     `json:"quantity"`
	IsPrimary    bool      `json:"is_primary"`
	UpdatedAt    time.Time `json:"updated_at"`
}
