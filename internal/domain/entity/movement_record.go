package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRecord es un asiento inmutable del libro de movimientos: un traslado
// de grano entre silos. Se crea exactamente un registro por operación de
// traslado, sea total o parcial, referido siempre al lote original.
type MovementRecord struct {
	ID        string
	BatchID   string
	FromSilo  int             // número de silo origen
	ToSilo    int             // número de silo destino
	Quantity  decimal.Decimal // en la unidad del lote
	Unit      string
	Notes     string
	Date      time.Time
	CreatedAt time.Time
}
