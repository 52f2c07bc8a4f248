package entity

import "time"

// Location representa una ubicación física de almacenamiento (bodega, estante, cuarto frío).
// Entidad independiente: ningún artículo es dueño de una ubicación.
type Location struct {
	ID        string
	Name      string
	Type      string // "Standard", "Cold storage", ... (libre)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemLocationAssignment reparte la cantidad de un artículo entre ubicaciones.
// Clave compuesta (ItemID, LocationID). Invariantes:
//   - exactamente una asignación primaria por artículo con ≥1 asignación
//   - la suma de Quantity de las asignaciones de un artículo no supera Item.Quantity
type ItemLocationAssignment struct {
	ItemID     string
	LocationID string
	Quantity   int64
	IsPrimary  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
