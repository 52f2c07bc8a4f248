package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/application/dto"
	appstock "github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos. La cantidad nunca se edita
// directamente: se deriva del libro de movimientos (el saldo inicial se
// registra como movimiento "initial" en la misma transacción de creación).
type ItemUseCase struct {
	txRunner   appstock.TxRunner
	itemRepo   repository.ItemRepository
	assignRepo repository.AssignmentRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner appstock.TxRunner,
	itemRepo repository.ItemRepository,
	assignRepo repository.AssignmentRepository,
) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, assignRepo: assignRepo}
}

// Create valida y crea un artículo. Si InitialQuantity > 0 registra el
// movimiento "initial" atómicamente con la fila del artículo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := validateItemFields(in); err != nil {
		return nil, err
	}
	existing, err := uc.itemRepo.GetByReference(in.Reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("reference %q: %w", in.Reference, domain.ErrDuplicate)
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Reference:   in.Reference,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		Category:    in.Category,
		UnitPrice:   in.UnitPrice,
		SupplierID:  in.SupplierID,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		Quantity:    in.InitialQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		_ repository.AssignmentRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if in.InitialQuantity > 0 {
			return movRepo.Create(&entity.Movement{
				ID:        uuid.New().String(),
				ItemID:    item.ID,
				Type:      entity.MovementTypeInitial,
				Quantity:  in.InitialQuantity,
				Reference: "saldo inicial",
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza campos descriptivos, de umbral y de precio. Cualquier
// intento de fijar la cantidad queda fuera del DTO: la cantidad solo cambia
// vía movimientos.
func (uc *ItemUseCase) Update(ctx context.Context, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("id requerido: %w", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetByID(in.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		if *in.Unit == "" {
			return nil, fmt.Errorf("unit no puede ser vacío: %w", domain.ErrInvalidInput)
		}
		item.Unit = *in.Unit
	}
	if in.Category != nil {
		if !entity.ValidCategory(*in.Category) {
			return nil, fmt.Errorf("category %q: %w", *in.Category, domain.ErrInvalidInput)
		}
		item.Category = *in.Category
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit_price negativo: %w", domain.ErrInvalidInput)
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.SupplierID != nil {
		item.SupplierID = in.SupplierID
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		item.MaxQuantity = *in.MaxQuantity
	}
	if item.MinQuantity < 0 || item.MaxQuantity <= item.MinQuantity {
		return nil, fmt.Errorf("umbrales inválidos (min=%d, max=%d): %w",
			item.MinQuantity, item.MaxQuantity, domain.ErrInvalidInput)
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo. Con cantidad distinta de cero o asignaciones de
// ubicación vigentes devuelve ErrConflict, salvo force=true: el borrado forzado
// elimina también las asignaciones. Los movimientos se conservan siempre
// (auditoría del libro).
func (uc *ItemUseCase) Delete(ctx context.Context, id string, force bool) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !force {
		if item.Quantity != 0 {
			return fmt.Errorf("cantidad actual %d, se requiere 0: %w", item.Quantity, domain.ErrConflict)
		}
		assignments, err := uc.assignRepo.ListByItem(id)
		if err != nil {
			return err
		}
		if len(assignments) > 0 {
			return fmt.Errorf("%d asignaciones de ubicación vigentes: %w", len(assignments), domain.ErrConflict)
		}
	}
	return uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
		assignRepo repository.AssignmentRepository,
	) error {
		if err := assignRepo.DeleteByItem(id); err != nil {
			return err
		}
		return itemRepo.Delete(id)
	})
}

// List lista artículos con filtros por categoría, estado derivado y proveedor.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Category != "" && !entity.ValidCategory(filter.Category) {
		return nil, fmt.Errorf("category %q: %w", filter.Category, domain.ErrInvalidInput)
	}
	switch filter.Status {
	case "", entity.StatusActive, entity.StatusLow, entity.StatusOut:
	default:
		return nil, fmt.Errorf("status %q: %w", filter.Status, domain.ErrInvalidInput)
	}
	items, err := uc.itemRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: out, Total: len(out)}, nil
}

func validateItemFields(in dto.CreateItemRequest) error {
	if in.Reference == "" || in.Name == "" {
		return fmt.Errorf("reference y name son requeridos: %w", domain.ErrInvalidInput)
	}
	if in.Unit == "" {
		return fmt.Errorf("unit es requerido: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidCategory(in.Category) {
		return fmt.Errorf("category %q: %w", in.Category, domain.ErrInvalidInput)
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return fmt.Errorf("unit_price negativo: %w", domain.ErrInvalidInput)
	}
	if in.MinQuantity < 0 || in.MaxQuantity <= in.MinQuantity {
		return fmt.Errorf("umbrales inválidos (min=%d, max=%d): %w",
			in.MinQuantity, in.MaxQuantity, domain.ErrInvalidInput)
	}
	if in.InitialQuantity < 0 {
		return fmt.Errorf("initial_quantity negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          i.ID,
		Reference:   i.Reference,
		Name:        i.Name,
		Description: i.Description,
		Unit:        i.Unit,
		Category:    i.Category,
		UnitPrice:   i.UnitPrice,
		SupplierID:  i.SupplierID,
		MinQuantity: i.MinQuantity,
		MaxQuantity: i.MaxQuantity,
		Quantity:    i.Quantity,
		Status:      i.Status(),
		TotalValue:  i.TotalValue(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
