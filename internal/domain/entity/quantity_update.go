package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityUpdateRecord es un asiento inmutable del libro de correcciones de
// cantidad: ediciones directas (despacho, consumo, ajuste) fuera de un
// traslado. Solo se crea cuando el cambio supera el epsilon, para no inundar
// el libro con escrituras sin efecto.
type QuantityUpdateRecord struct {
	ID               string
	BatchID          string
	SiloID           string
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Delta            decimal.Decimal // NewQuantity - PreviousQuantity
	Unit             string
	Notes            string
	Date             time.Time
	CreatedAt        time.Time
}
