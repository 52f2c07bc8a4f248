package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)
var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación nueva.
func (r *LocationRepo) Create(loc *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		loc.ID, loc.Name, loc.Type, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID. Devuelve nil, nil si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT id, name, type, created_at, updated_at FROM locations WHERE id = $1`
	var loc entity.Location
	err := pgxscan.Get(context.Background(), r.q, &loc, query, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// List lista todas las ubicaciones por nombre.
func (r *LocationRepo) List() ([]*entity.Location, error) {
	query := `SELECT id, name, type, created_at, updated_at FROM locations ORDER BY name, id`
	var list []*entity.Location
	if err := pgxscan.Select(context.Background(), r.q, &list, query); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return list, nil
}

// AssignmentRepo implementación de AssignmentRepository sobre PostgreSQL.
// Clave compuesta (item_id, location_id).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Get obtiene la asignación del par (item, ubicación). nil, nil si no existe.
func (r *AssignmentRepo) Get(itemID, locationID string) (*entity.ItemLocationAssignment, error) {
	query := `
		SELECT item_id, location_id, quantity, is_primary, created_at, updated_at
		FROM item_locations WHERE item_id = $1 AND location_id = $2`
	var a entity.ItemLocationAssignment
	err := pgxscan.Get(context.Background(), r.q, &a, query, itemID, locationID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

// ListByItem lista las asignaciones del artículo, primaria primero.
func (r *AssignmentRepo) ListByItem(itemID string) ([]*entity.ItemLocationAssignment, error) {
	query := `
		SELECT item_id, location_id, quantity, is_primary, created_at, updated_at
		FROM item_locations WHERE item_id = $1
		ORDER BY is_primary DESC, created_at, location_id`
	var list []*entity.ItemLocationAssignment
	if err := pgxscan.Select(context.Background(), r.q, &list, query, itemID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

// Upsert inserta o actualiza la asignación del par (item, ubicación).
func (r *AssignmentRepo) Upsert(a *entity.ItemLocationAssignment) error {
	query := `
		INSERT INTO item_locations (item_id, location_id, quantity, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, is_primary = EXCLUDED.is_primary, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		a.ItemID, a.LocationID, a.Quantity, a.IsPrimary, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

// Delete elimina la asignación del par (item, ubicación).
func (r *AssignmentRepo) Delete(itemID, locationID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM item_locations WHERE item_id = $1 AND location_id = $2`,
		itemID, locationID,
	)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// DeleteByItem elimina todas las asignaciones del artículo (borrado forzado).
func (r *AssignmentRepo) DeleteByItem(itemID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM item_locations WHERE item_id = $1`, itemID,
	)
	if err != nil {
		return fmt.Errorf("delete assignments by item: %w", err)
	}
	return nil
}

// ClearPrimary desmarca la asignación primaria del artículo.
func (r *AssignmentRepo) ClearPrimary(itemID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE item_locations SET is_primary = false, updated_at = now() WHERE item_id = $1 AND is_primary`,
		itemID,
	)
	if err != nil {
		return fmt.Errorf("clear primary: %w", err)
	}
	return nil
}

// SumByItem suma las cantidades asignadas del artículo.
func (r *AssignmentRepo) SumByItem(itemID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM item_locations WHERE item_id = $1`,
		itemID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum assignments: %w", err)
	}
	return total, nil
}
