package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	assignRepo repository.AssignmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx)
	movRepo := NewMovementRepository(tx)
	assignRepo := NewAssignmentRepository(tx)

	if err := fn(itemRepo, movRepo, assignRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
