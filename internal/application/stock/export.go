package stock

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/domain/repository"
)

// Formato de fecha del CSV exportado (UTC, fijo y documentado).
const exportDateLayout = "2006-01-02 15:04:05"

// exportColumns orden determinista de columnas del CSV.
var exportColumns = []string{
	"date", "type", "reference", "quantity",
	"source_location", "destination_location", "notes",
}

// ExportMovementsUseCase genera el CSV del historial de movimientos de un
// artículo. Resuelve los nombres de ubicación; si una ubicación fue borrada,
// deja el id crudo.
type ExportMovementsUseCase struct {
	query        *MovementQueryUseCase
	locationRepo repository.LocationRepository
}

// NewExportMovementsUseCase construye el caso de uso.
func NewExportMovementsUseCase(query *MovementQueryUseCase, locationRepo repository.LocationRepository) *ExportMovementsUseCase {
	return &ExportMovementsUseCase{query: query, locationRepo: locationRepo}
}

// ExportCSV devuelve el libro del artículo como CSV: una fila por movimiento,
// columnas date,type,reference,quantity,source_location,destination_location,notes,
// fechas en formato "2006-01-02 15:04:05" (UTC). Respeta los mismos filtros y
// orden que el listado.
func (uc *ExportMovementsUseCase) ExportCSV(ctx context.Context, in dto.MovementListRequest) ([]byte, error) {
	// Exportar el historial completo filtrado, no una página
	in.Limit = 500
	in.Offset = 0

	names := map[string]string{}
	resolve := func(id *string) string {
		if id == nil {
			return ""
		}
		if name, ok := names[*id]; ok {
			return name
		}
		name := *id
		if loc, err := uc.locationRepo.GetByID(*id); err == nil && loc != nil {
			name = loc.Name
		}
		names[*id] = name
		return name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("escribir cabecera CSV: %w", err)
	}

	for {
		page, err := uc.query.List(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Movements {
			row := []string{
				m.CreatedAt.UTC().Format(exportDateLayout),
				m.Type,
				m.Reference,
				strconv.FormatInt(m.Quantity, 10),
				resolve(m.SourceLocationID),
				resolve(m.DestinationLocationID),
				m.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("escribir fila CSV: %w", err)
			}
		}
		if len(page.Movements) < in.Limit {
			break
		}
		in.Offset += in.Limit
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
