package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeInitial        = "initial"         // saldo inicial al crear el artículo
	MovementTypeIn             = "in"              // entrada física
	MovementTypeOut            = "out"             // salida física
	MovementTypeAdjustmentUp   = "adjustment_up"   // corrección al alza (conteo, devolución)
	MovementTypeAdjustmentDown = "adjustment_down" // corrección a la baja (merma, conteo)
)

// Movement registra un cambio de cantidad de un artículo. El libro es append-only:
// nunca se edita ni se borra un movimiento; las correcciones son nuevos ajustes.
// Quantity es siempre la magnitud positiva; la dirección la da Type.
type Movement struct {
	ID                    string
	ItemID                string
	Type                  string
	Quantity              int64 // magnitud > 0, nunca firmada
	Reference             string
	Notes                 string
	UserID                string
	UserName              string
	SourceLocationID      *string
	DestinationLocationID *string
	CreatedAt             time.Time
}

// ValidMovementType indica si el tipo es uno de los soportados.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeInitial, MovementTypeIn, MovementTypeOut,
		MovementTypeAdjustmentUp, MovementTypeAdjustmentDown:
		return true
	}
	return false
}

// Inbound indica si el tipo suma stock.
func Inbound(t string) bool {
	return t == MovementTypeInitial || t == MovementTypeIn || t == MovementTypeAdjustmentUp
}

// SignedQuantity devuelve el efecto del movimiento sobre la cantidad total:
// positivo para initial/in/adjustment_up, negativo para out/adjustment_down.
func (m *Movement) SignedQuantity() int64 {
	if Inbound(m.Type) {
		return m.Quantity
	}
	return -m.Quantity
}
