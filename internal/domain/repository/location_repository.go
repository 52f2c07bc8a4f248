package repository

import "github.com/invorya/stock-core/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(loc *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	List() ([]*entity.Location, error)
}

// AssignmentRepository define el puerto para las asignaciones artículo↔ubicación.
// Get devuelve nil, nil si la asignación no existe.
type AssignmentRepository interface {
	Get(itemID, locationID string) (*entity.ItemLocationAssignment, error)
	ListByItem(itemID string) ([]*entity.ItemLocationAssignment, error)
	Upsert(a *entity.ItemLocationAssignment) error
	Delete(itemID, locationID string) error
	// DeleteByItem elimina todas las asignaciones de un artículo (borrado forzado).
	DeleteByItem(itemID string) error
	// ClearPrimary desmarca la asignación primaria del artículo (invariante de
	// exactamente-una-primaria: siempre se llama antes de marcar otra).
	ClearPrimary(itemID string) error
	// SumByItem suma las cantidades asignadas del artículo (cota de ubicaciones).
	SumByItem(itemID string) (int64, error)
}
