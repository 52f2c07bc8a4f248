package repository

import "github.com/invorya/stock-core/internal/domain/entity"

// ItemFilter filtros para listados de artículos. Status se deriva de cantidad
// vs umbrales (active/low/out); cadenas vacías significan "sin filtro".
type ItemFilter struct {
	Category   string
	Status     string
	SupplierID string
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID y GetByReference devuelven nil, nil si no existe.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByReference(reference string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando su fila (SELECT FOR UPDATE)
	// para serializar los movimientos concurrentes sobre el mismo artículo.
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	// UpdateQuantity actualiza solo la cantidad materializada (la usa el motor
	// de movimientos; nunca los casos de uso de edición).
	UpdateQuantity(itemID string, quantity int64) error
	List(filter ItemFilter) ([]*entity.Item, error)
	Delete(id string) error
}
