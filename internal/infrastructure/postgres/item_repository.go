package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

var itemColumns = []string{
	"id", "reference", "name", "description", "unit", "category", "unit_price",
	"supplier_id", "min_quantity", "max_quantity", "quantity", "created_at", "updated_at",
}

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q  Querier
	sb sq.StatementBuilderType
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Create persiste un artículo nuevo. Reference tiene constraint único.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, reference, name, description, unit, category, unit_price, supplier_id, min_quantity, max_quantity, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Reference, item.Name, item.Description, item.Unit, item.Category,
		item.UnitPrice, item.SupplierID, item.MinQuantity, item.MaxQuantity, item.Quantity,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID. Devuelve nil, nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne("id = $1", id, "")
}

// GetByReference obtiene un artículo por su código legible.
func (r *ItemRepo) GetByReference(reference string) (*entity.Item, error) {
	return r.getOne("reference = $1", reference, "")
}

// GetForUpdate obtiene el artículo bloqueando su fila (SELECT FOR UPDATE) para
// serializar movimientos concurrentes. Solo tiene sentido dentro de una tx.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.getOne("id = $1", id, " FOR UPDATE")
}

func (r *ItemRepo) getOne(where, arg, suffix string) (*entity.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE %s%s", joinColumns(itemColumns), where, suffix)
	var item entity.Item
	err := pgxscan.Get(context.Background(), r.q, &item, query, arg)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// Update actualiza campos descriptivos, umbrales y precio. La cantidad no se
// toca aquí: solo UpdateQuantity, y solo desde el motor de movimientos.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, unit = $4, category = $5, unit_price = $6,
			supplier_id = $7, min_quantity = $8, max_quantity = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Unit, item.Category, item.UnitPrice,
		item.SupplierID, item.MinQuantity, item.MaxQuantity, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateQuantity actualiza la cantidad materializada (la usa el motor de stock
// dentro de la misma tx que el append al libro).
func (r *ItemRepo) UpdateQuantity(itemID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET quantity = $2, updated_at = now() WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

// List lista artículos aplicando filtros opcionales de categoría, estado
// derivado y proveedor.
func (r *ItemRepo) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	b := r.sb.Select(itemColumns...).From("items").OrderBy("created_at DESC", "id DESC")
	if filter.Category != "" {
		b = b.Where(sq.Eq{"category": filter.Category})
	}
	if filter.SupplierID != "" {
		b = b.Where(sq.Eq{"supplier_id": filter.SupplierID})
	}
	switch filter.Status {
	case entity.StatusActive:
		b = b.Where("quantity > 0")
	case entity.StatusLow:
		b = b.Where("quantity > 0 AND quantity <= min_quantity")
	case entity.StatusOut:
		b = b.Where("quantity <= 0")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}
	var items []*entity.Item
	if err := pgxscan.Select(context.Background(), r.q, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Delete elimina el artículo. Los movimientos se conservan (auditoría): la FK
// de movements.item_id no cascadea.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
