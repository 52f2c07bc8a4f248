// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en los tests y en modo demo (sin PostgreSQL). Las
// "transacciones" se serializan con el lock global del store: más estricto que
// el bloqueo por fila de PostgreSQL, pero con las mismas garantías.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Store contenedor en memoria de todo el estado del inventario.
type Store struct {
	mu          sync.RWMutex
	items       map[string]*entity.Item
	itemsByRef  map[string]string
	locations   map[string]*entity.Location
	assignments map[string]map[string]*entity.ItemLocationAssignment // itemID → locationID
	movements   map[string][]*entity.Movement                        // itemID → append-only
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:       map[string]*entity.Item{},
		itemsByRef:  map[string]string{},
		locations:   map[string]*entity.Location{},
		assignments: map[string]map[string]*entity.ItemLocationAssignment{},
		movements:   map[string][]*entity.Movement{},
	}
}

// ItemRepository devuelve el adaptador de artículos con locking por operación.
func (s *Store) ItemRepository() repository.ItemRepository { return &itemRepo{s: s, lock: true} }

// LocationRepository devuelve el adaptador de ubicaciones.
func (s *Store) LocationRepository() repository.LocationRepository {
	return &locationRepo{s: s, lock: true}
}

// AssignmentRepository devuelve el adaptador de asignaciones.
func (s *Store) AssignmentRepository() repository.AssignmentRepository {
	return &assignmentRepo{s: s, lock: true}
}

// MovementRepository devuelve el adaptador del libro de movimientos.
func (s *Store) MovementRepository() repository.MovementRepository {
	return &movementRepo{s: s, lock: true}
}

// TxRunner devuelve un runner que ejecuta el callback bajo el lock de
// escritura del store, con repos sin locking propio (misma "transacción").
func (s *Store) TxRunner() stock.TxRunner { return &txRunner{s: s} }

type txRunner struct{ s *Store }

func (r *txRunner) Run(_ context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	assignRepo repository.AssignmentRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&itemRepo{s: r.s}, &movementRepo{s: r.s}, &assignmentRepo{s: r.s})
}

// ── Items ─────────────────────────────────────────────────────────────────────

type itemRepo struct {
	s    *Store
	lock bool
}

func (r *itemRepo) Create(item *entity.Item) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if _, ok := r.s.itemsByRef[item.Reference]; ok {
		return domain.ErrDuplicate
	}
	clone := *item
	r.s.items[item.ID] = &clone
	r.s.itemsByRef[item.Reference] = item.ID
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (r *itemRepo) GetByReference(reference string) (*entity.Item, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	id, ok := r.s.itemsByRef[reference]
	if !ok {
		return nil, nil
	}
	clone := *r.s.items[id]
	return &clone, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da el lock del
// TxRunner, no un bloqueo de fila.
func (r *itemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *itemRepo) Update(item *entity.Item) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	current, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := *item
	clone.Quantity = current.Quantity // la cantidad solo cambia vía UpdateQuantity
	r.s.items[item.ID] = &clone
	return nil
}

func (r *itemRepo) UpdateQuantity(itemID string, quantity int64) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *itemRepo) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var list []*entity.Item
	for _, item := range r.s.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.SupplierID != "" && (item.SupplierID == nil || *item.SupplierID != filter.SupplierID) {
			continue
		}
		switch filter.Status {
		case entity.StatusActive:
			if item.Quantity <= 0 {
				continue
			}
		case entity.StatusLow:
			if item.Quantity <= 0 || item.Quantity > item.MinQuantity {
				continue
			}
		case entity.StatusOut:
			if item.Quantity > 0 {
				continue
			}
		}
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *itemRepo) Delete(id string) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	item, ok := r.s.items[id]
	if !ok {
		return nil
	}
	delete(r.s.itemsByRef, item.Reference)
	delete(r.s.items, id)
	return nil
}

// ── Locations ─────────────────────────────────────────────────────────────────

type locationRepo struct {
	s    *Store
	lock bool
}

func (r *locationRepo) Create(loc *entity.Location) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	clone := *loc
	r.s.locations[loc.ID] = &clone
	return nil
}

func (r *locationRepo) GetByID(id string) (*entity.Location, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	clone := *loc
	return &clone, nil
}

func (r *locationRepo) List() ([]*entity.Location, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	list := make([]*entity.Location, 0, len(r.s.locations))
	for _, loc := range r.s.locations {
		clone := *loc
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ── Assignments ───────────────────────────────────────────────────────────────

type assignmentRepo struct {
	s    *Store
	lock bool
}

func (r *assignmentRepo) Get(itemID, locationID string) (*entity.ItemLocationAssignment, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	a, ok := r.s.assignments[itemID][locationID]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *assignmentRepo) ListByItem(itemID string) ([]*entity.ItemLocationAssignment, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var list []*entity.ItemLocationAssignment
	for _, a := range r.s.assignments[itemID] {
		clone := *a
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsPrimary != list[j].IsPrimary {
			return list[i].IsPrimary
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list, nil
}

func (r *assignmentRepo) Upsert(a *entity.ItemLocationAssignment) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if r.s.assignments[a.ItemID] == nil {
		r.s.assignments[a.ItemID] = map[string]*entity.ItemLocationAssignment{}
	}
	clone := *a
	r.s.assignments[a.ItemID][a.LocationID] = &clone
	return nil
}

func (r *assignmentRepo) Delete(itemID, locationID string) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	delete(r.s.assignments[itemID], locationID)
	return nil
}

func (r *assignmentRepo) DeleteByItem(itemID string) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	delete(r.s.assignments, itemID)
	return nil
}

func (r *assignmentRepo) ClearPrimary(itemID string) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	for _, a := range r.s.assignments[itemID] {
		a.IsPrimary = false
	}
	return nil
}

func (r *assignmentRepo) SumByItem(itemID string) (int64, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var total int64
	for _, a := range r.s.assignments[itemID] {
		total += a.Quantity
	}
	return total, nil
}

// ── Movements ─────────────────────────────────────────────────────────────────

type movementRepo struct {
	s    *Store
	lock bool
}

func (r *movementRepo) Create(m *entity.Movement) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	clone := *m
	r.s.movements[m.ItemID] = append(r.s.movements[m.ItemID], &clone)
	return nil
}

func (r *movementRepo) ListByItem(itemID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var list []*entity.Movement
	for _, m := range r.s.movements[itemID] {
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		clone := *m
		list = append(list, &clone)
	}
	asc := f.Order == repository.OrderAsc
	byQuantity := f.SortBy == repository.MovementSortQuantity
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !asc {
			a, b = b, a
		}
		if byQuantity {
			if a.Quantity != b.Quantity {
				return a.Quantity < b.Quantity
			}
		} else if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	return list, nil
}

func (r *movementRepo) SumByItem(itemID string) (int64, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var total int64
	for _, m := range r.s.movements[itemID] {
		total += m.SignedQuantity()
	}
	return total, nil
}
