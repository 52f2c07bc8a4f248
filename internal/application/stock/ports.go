package stock

import (
	"context"

	"github.com/invorya/stock-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// el append al libro y la actualización de la cantidad materializada ocurren
// juntos o no ocurren.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error) error
}
