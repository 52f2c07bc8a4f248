package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-core/internal/application/dto"
	appstock "github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// LocationUseCase casos de uso del registro de ubicaciones: CRUD de ubicaciones
// y reparto de cantidad de un artículo entre ellas. Invariantes que mantiene:
//   - exactamente una asignación primaria por artículo con ≥1 asignación
//   - Σ cantidades asignadas ≤ cantidad total del artículo
//
// Las asignaciones reparten cantidad física; nunca tocan el libro de
// movimientos ni la cantidad total.
type LocationUseCase struct {
	txRunner     appstock.TxRunner
	locationRepo repository.LocationRepository
	assignRepo   repository.AssignmentRepository
	itemRepo     repository.ItemRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	txRunner appstock.TxRunner,
	locationRepo repository.LocationRepository,
	assignRepo repository.AssignmentRepository,
	itemRepo repository.ItemRepository,
) *LocationUseCase {
	return &LocationUseCase{
		txRunner:     txRunner,
		locationRepo: locationRepo,
		assignRepo:   assignRepo,
		itemRepo:     itemRepo,
	}
}

// CreateLocation crea una ubicación con nombre y tipo opcional.
func (uc *LocationUseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name es requerido: %w", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ListLocations lista todas las ubicaciones.
func (uc *LocationUseCase) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locs, err := uc.locationRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Assign asigna cantidad de un artículo a una ubicación. Falla con
// ErrInvalidInput si la cantidad es ≤ 0 o si rompería la cota
// Σ asignado ≤ cantidad total. La primera asignación del artículo queda
// primaria automáticamente; is_primary=true desmarca las demás en la misma
// transacción.
func (uc *LocationUseCase) Assign(ctx context.Context, in dto.AssignLocationRequest) (*dto.AssignmentResponse, error) {
	if in.ItemID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("item_id y location_id son requeridos: %w", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity debe ser > 0: %w", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("artículo %s: %w", in.ItemID, domain.ErrNotFound)
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", in.LocationID, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	assignment := &entity.ItemLocationAssignment{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		IsPrimary:  in.IsPrimary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		existing, err := assignRepo.Get(in.ItemID, in.LocationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("el artículo ya está asignado a la ubicación %s: %w", in.LocationID, domain.ErrDuplicate)
		}
		assigned, err := assignRepo.SumByItem(in.ItemID)
		if err != nil {
			return err
		}
		if assigned+in.Quantity > item.Quantity {
			return fmt.Errorf("asignado %d + solicitado %d supera la cantidad total %d: %w",
				assigned, in.Quantity, item.Quantity, domain.ErrInvalidInput)
		}
		others, err := assignRepo.ListByItem(in.ItemID)
		if err != nil {
			return err
		}
		// Primera asignación del artículo: primaria obligatoria
		if len(others) == 0 {
			assignment.IsPrimary = true
		}
		if assignment.IsPrimary {
			if err := assignRepo.ClearPrimary(in.ItemID); err != nil {
				return err
			}
		}
		return assignRepo.Upsert(assignment)
	})
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(assignment, loc.Name), nil
}

// SetPrimary marca la asignación como primaria desmarcando las demás del
// artículo en la misma transacción (invariante de exactamente una primaria).
func (uc *LocationUseCase) SetPrimary(ctx context.Context, itemID, locationID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		assignment, err := assignRepo.Get(itemID, locationID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("asignación %s/%s: %w", itemID, locationID, domain.ErrNotFound)
		}
		if err := assignRepo.ClearPrimary(itemID); err != nil {
			return err
		}
		assignment.IsPrimary = true
		assignment.UpdatedAt = time.Now().UTC()
		return assignRepo.Upsert(assignment)
	})
}

// UpdateAssignment ajusta la cantidad asignada y/o la marca primaria.
// Desmarcar la primaria directamente se rechaza: la forma de cambiarla es
// marcar otra (el invariante nunca deja cero primarias con asignaciones vivas).
func (uc *LocationUseCase) UpdateAssignment(ctx context.Context, in dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if in.ItemID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("item_id y location_id son requeridos: %w", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("artículo %s: %w", in.ItemID, domain.ErrNotFound)
	}

	var updated *entity.ItemLocationAssignment
	err = uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		assignment, err := assignRepo.Get(in.ItemID, in.LocationID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("asignación %s/%s: %w", in.ItemID, in.LocationID, domain.ErrNotFound)
		}
		if in.Quantity != nil {
			if *in.Quantity < 0 {
				return fmt.Errorf("quantity negativa: %w", domain.ErrInvalidInput)
			}
			assigned, err := assignRepo.SumByItem(in.ItemID)
			if err != nil {
				return err
			}
			if assigned-assignment.Quantity+*in.Quantity > item.Quantity {
				return fmt.Errorf("la cantidad asignada superaría el total %d: %w",
					item.Quantity, domain.ErrInvalidInput)
			}
			assignment.Quantity = *in.Quantity
		}
		if in.IsPrimary != nil {
			if !*in.IsPrimary && assignment.IsPrimary {
				return fmt.Errorf("desmarcar la primaria directamente no está permitido; marque otra ubicación: %w",
					domain.ErrConflict)
			}
			if *in.IsPrimary {
				if err := assignRepo.ClearPrimary(in.ItemID); err != nil {
					return err
				}
				assignment.IsPrimary = true
			}
		}
		assignment.UpdatedAt = time.Now().UTC()
		if err := assignRepo.Upsert(assignment); err != nil {
			return err
		}
		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	name := in.LocationID
	if loc, err := uc.locationRepo.GetByID(in.LocationID); err == nil && loc != nil {
		name = loc.Name
	}
	return toAssignmentResponse(updated, name), nil
}

// RemoveAssignment elimina la asignación. Si era la primaria y quedan otras,
// promueve la de mayor cantidad para conservar el invariante.
func (uc *LocationUseCase) RemoveAssignment(ctx context.Context, itemID, locationID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		assignment, err := assignRepo.Get(itemID, locationID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("asignación %s/%s: %w", itemID, locationID, domain.ErrNotFound)
		}
		if err := assignRepo.Delete(itemID, locationID); err != nil {
			return err
		}
		if !assignment.IsPrimary {
			return nil
		}
		rest, err := assignRepo.ListByItem(itemID)
		if err != nil {
			return err
		}
		if len(rest) == 0 {
			return nil
		}
		next := rest[0]
		for _, a := range rest[1:] {
			if a.Quantity > next.Quantity {
				next = a
			}
		}
		next.IsPrimary = true
		next.UpdatedAt = time.Now().UTC()
		return assignRepo.Upsert(next)
	})
}

// ListItemLocations lista las asignaciones de un artículo con el nombre de cada
// ubicación resuelto.
func (uc *LocationUseCase) ListItemLocations(ctx context.Context, itemID string) ([]dto.AssignmentResponse, error) {
	if itemID == "" {
		return nil, fmt.Errorf("itemId es requerido: %w", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("artículo %s: %w", itemID, domain.ErrNotFound)
	}
	assignments, err := uc.assignRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		name := a.LocationID
		if loc, err := uc.locationRepo.GetByID(a.LocationID); err == nil && loc != nil {
			name = loc.Name
		}
		out = append(out, *toAssignmentResponse(a, name))
	}
	return out, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		CreatedAt: l.CreatedAt,
	}
}

func toAssignmentResponse(a *entity.ItemLocationAssignment, locationName string) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ItemID:       a.ItemID,
		LocationID:   a.LocationID,
		LocationName: locationName,
		Quantity:     a.Quantity,
		IsPrimary:    a.IsPrimary,
		UpdatedAt:    a.UpdatedAt,
	}
}
