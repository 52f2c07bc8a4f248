package repository

import (
	"time"

	"github.com/invorya/stock-core/internal/domain/entity"
)

// Criterios de ordenamiento para listados de movimientos.
const (
	MovementSortDate     = "date"
	MovementSortQuantity = "quantity"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// MovementFilter filtros y orden para listar movimientos de un artículo.
// From/To nil = sin cota. El orden por defecto es fecha descendente; el
// desempate es siempre por id para que el listado sea determinista y el
// paginado con offset sea reanudable.
type MovementFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	SortBy string // date | quantity
	Order  string // asc | desc
	Limit  int
	Offset int
}

// MovementRepository define el puerto del libro de movimientos. El libro es
// append-only: solo Create, nunca update ni delete.
type MovementRepository interface {
	Create(m *entity.Movement) error
	ListByItem(itemID string, f MovementFilter) ([]*entity.Movement, error)
	// SumByItem devuelve la suma firmada de todos los movimientos del artículo
	// (la fuente autoritativa de la cantidad actual).
	SumByItem(itemID string) (int64, error)
}
