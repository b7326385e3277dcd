package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GrainBatch representa un lote de grano almacenado como unidad de inventario.
// GrainLotID (granoId) enlaza el lote con la línea de carga del barco que lo
// originó y se copia tal cual a los lotes descendientes de un traslado parcial;
// nunca es clave única. SiloID es nulo cuando el lote fue despachado o
// desasignado: la fila se conserva para el historial.
type GrainBatch struct {
	ID         string
	GrainLotID string
	SiloID     *string
	GrainType  string
	Variety    string
	Quantity   decimal.Decimal // siempre >= 0; cero es válido (trasladado por completo)
	Unit       string          // "kg" | "t", por registro, nunca se normaliza al escribir
	EntryDate  time.Time
	Origin     string // nombre del barco, desnormalizado
	Notes      string
	ShipID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignedTo indica si el lote está actualmente asignado al silo dado.
func (b *GrainBatch) AssignedTo(siloID string) bool {
	return b.SiloID != nil && *b.SiloID == siloID
}
