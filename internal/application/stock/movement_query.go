package stock

import (
	"context"
	"time"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Ventanas relativas de fecha soportadas por el listado.
const (
	RangeToday = "today"
	Range7d    = "7d"
	Range30d   = "30d"
)

// MovementQueryUseCase lecturas del libro de movimientos: listado filtrado y
// ordenado. Solo lectura; nunca escribe.
type MovementQueryUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{itemRepo: itemRepo, movRepo: movRepo}
}

// List lista los movimientos de un artículo con filtro por tipo y ventana
// relativa, orden por fecha o cantidad (descendente por defecto) y paginación.
// El resultado es determinista: mismos filtros sin escrituras intermedias
// devuelven la misma secuencia.
func (uc *MovementQueryUseCase) List(ctx context.Context, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	filter, err := uc.buildFilter(in)
	if err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movRepo.ListByItem(in.ItemID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Movements: out,
		Page:      dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func (uc *MovementQueryUseCase) buildFilter(in dto.MovementListRequest) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		Type:   in.Type,
		SortBy: in.Sort,
		Order:  in.Order,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.ItemID == "" {
		return f, domain.ErrInvalidInput
	}
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return f, domain.ErrInvalidInput
	}
	switch f.SortBy {
	case "":
		f.SortBy = repository.MovementSortDate
	case repository.MovementSortDate, repository.MovementSortQuantity:
	default:
		return f, domain.ErrInvalidInput
	}
	switch f.Order {
	case "":
		f.Order = repository.OrderDesc
	case repository.OrderAsc, repository.OrderDesc:
	default:
		return f, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	from, err := rangeStart(in.Range, time.Now().UTC())
	if err != nil {
		return f, err
	}
	f.From = from
	return f, nil
}

// rangeStart traduce la ventana relativa al instante inicial. "today" es el
// comienzo del día UTC en curso; 7d/30d restan días completos desde ahora.
func rangeStart(r string, now time.Time) (*time.Time, error) {
	switch r {
	case "":
		return nil, nil
	case RangeToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return &start, nil
	case Range7d:
		start := now.AddDate(0, 0, -7)
		return &start, nil
	case Range30d:
		start := now.AddDate(0, 0, -30)
		return &start, nil
	default:
		return nil, domain.ErrInvalidInput
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                    m.ID,
		ItemID:                m.ItemID,
		Type:                  m.Type,
		Quantity:              m.Quantity,
		SignedQuantity:        m.SignedQuantity(),
		Reference:             m.Reference,
		Notes:                 m.Notes,
		UserID:                m.UserID,
		UserName:              m.UserName,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		CreatedAt:             m.CreatedAt,
	}
}
