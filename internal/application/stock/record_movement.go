package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos de stock de forma transaccional
// (in, out, adjustment_up, adjustment_down) con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback. Es el único camino que cambia la
// cantidad de un artículo: el libro queda como fuente autoritativa.
type RecordMovementUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// MovementInput entrada para registrar un movimiento. Quantity es la magnitud
// positiva; la dirección la define Type.
type MovementInput struct {
	ItemID                string
	Type                  string
	Quantity              int64
	Reference             string
	Notes                 string
	UserID                string
	UserName              string
	SourceLocationID      *string
	DestinationLocationID *string
}

// Record valida la entrada, abre una transacción, bloquea la fila del artículo
// y aplica el movimiento: append al libro + actualización de la cantidad
// materializada. Un "out" que dejaría la cantidad negativa se rechaza con
// ErrInsufficientStock sin tocar el libro (sin append parcial).
//
// El tipo "initial" se rechaza aquí: solo lo emite la creación de artículos.
func (uc *RecordMovementUseCase) Record(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if input.ItemID == "" {
		return nil, fmt.Errorf("item_id es requerido: %w", domain.ErrInvalidInput)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity debe ser un entero positivo, recibido %d: %w",
			input.Quantity, domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(input.Type) || input.Type == entity.MovementTypeInitial {
		return nil, fmt.Errorf("transaction_type %q: %w", input.Type, domain.ErrInvalidInput)
	}
	for _, locID := range []*string{input.SourceLocationID, input.DestinationLocationID} {
		if locID == nil {
			continue
		}
		loc, err := uc.locationRepo.GetByID(*locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, fmt.Errorf("ubicación %s: %w", *locID, domain.ErrNotFound)
		}
	}

	mov := &entity.Movement{
		ID:                    uuid.New().String(),
		ItemID:                input.ItemID,
		Type:                  input.Type,
		Quantity:              input.Quantity,
		Reference:             input.Reference,
		Notes:                 input.Notes,
		UserID:                input.UserID,
		UserName:              input.UserName,
		SourceLocationID:      input.SourceLocationID,
		DestinationLocationID: input.DestinationLocationID,
		CreatedAt:             time.Now().UTC(),
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		// Bloquea la fila del artículo para serializar movimientos concurrentes
		item, err := itemRepo.GetForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("artículo %s: %w", input.ItemID, domain.ErrNotFound)
		}
		newQty := item.Quantity + mov.SignedQuantity()
		if newQty < 0 {
			return fmt.Errorf("cantidad actual %d, salida solicitada %d: %w",
				item.Quantity, input.Quantity, domain.ErrInsufficientStock)
		}
		// Las salidas descuentan también de las asignaciones de ubicación,
		// en la misma tx, para que Σ asignado ≤ cantidad se conserve siempre.
		if !entity.Inbound(mov.Type) {
			if err := reconcileAssignments(assignRepo, mov, newQty); err != nil {
				return err
			}
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return itemRepo.UpdateQuantity(item.ID, newQty)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// reconcileAssignments descuenta una salida de las asignaciones de ubicación.
// Con ubicación origen explícita descuenta de esa asignación y falla si no
// tiene suficiente; sin origen (o sin asignación en el origen) descuenta el
// excedente empezando por la primaria, que es de donde sale el stock por
// defecto, y sigue por cantidad descendente.
func reconcileAssignments(assignRepo repository.AssignmentRepository, mov *entity.Movement, newQty int64) error {
	if mov.SourceLocationID != nil {
		a, err := assignRepo.Get(mov.ItemID, *mov.SourceLocationID)
		if err != nil {
			return err
		}
		if a != nil {
			if a.Quantity < mov.Quantity {
				return fmt.Errorf("la ubicación origen %s tiene %d asignadas, salida solicitada %d: %w",
					*mov.SourceLocationID, a.Quantity, mov.Quantity, domain.ErrInvalidInput)
			}
			a.Quantity -= mov.Quantity
			a.UpdatedAt = mov.CreatedAt
			return assignRepo.Upsert(a)
		}
	}

	sum, err := assignRepo.SumByItem(mov.ItemID)
	if err != nil {
		return err
	}
	excess := sum - newQty
	if excess <= 0 {
		return nil
	}
	assignments, err := assignRepo.ListByItem(mov.ItemID)
	if err != nil {
		return err
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].IsPrimary != assignments[j].IsPrimary {
			return assignments[i].IsPrimary
		}
		return assignments[i].Quantity > assignments[j].Quantity
	})
	for _, a := range assignments {
		if excess <= 0 {
			break
		}
		d := a.Quantity
		if d > excess {
			d = excess
		}
		if d == 0 {
			continue
		}
		a.Quantity -= d
		a.UpdatedAt = mov.CreatedAt
		if err := assignRepo.Upsert(a); err != nil {
			return err
		}
		excess -= d
	}
	return nil
}
