package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id", "item_id", "type", "quantity", "reference", "notes", "user_id", "user_name",
	"source_location_id", "destination_location_id", "created_at",
}

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no existe Update ni Delete.
type MovementRepo struct {
	q  Querier
	sb sq.StatementBuilderType
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Create agrega un movimiento al libro.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, item_id, type, quantity, reference, notes, user_id, user_name, source_location_id, destination_location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ItemID, m.Type, m.Quantity, m.Reference, m.Notes, m.UserID, m.UserName,
		m.SourceLocationID, m.DestinationLocationID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByItem lista movimientos del artículo con filtros de tipo y rango de
// fechas, orden por fecha o cantidad y paginación. El desempate por id hace el
// orden determinista (listados idempotentes y offset reanudable).
func (r *MovementRepo) ListByItem(itemID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	b := r.sb.Select(movementColumns...).From("movements").Where(sq.Eq{"item_id": itemID})
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.To})
	}

	col := "created_at"
	if f.SortBy == repository.MovementSortQuantity {
		col = "quantity"
	}
	dir := "DESC"
	if f.Order == repository.OrderAsc {
		dir = "ASC"
	}
	b = b.OrderBy(fmt.Sprintf("%s %s", col, dir), fmt.Sprintf("id %s", dir))

	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var list []*entity.Movement
	if err := pgxscan.Select(context.Background(), r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

// SumByItem suma firmada de todos los movimientos del artículo: la fuente
// autoritativa contra la que se verifica la cantidad materializada.
func (r *MovementRepo) SumByItem(itemID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE
			WHEN type IN ('initial', 'in', 'adjustment_up') THEN quantity
			ELSE -quantity
		END), 0)
		FROM movements WHERE item_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}
