package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Silo representa un silo físico de almacenamiento de grano.
// El número es secuencial (1..N) y se usa como clave de referencia en pantalla
// y en los registros de movimiento; el ID es la clave estable de persistencia.
type Silo struct {
	ID          string
	Number      int
	Name        string
	Capacity    decimal.Decimal // toneladas
	ClientEmail string          // cliente propietario; vacío = sin asignar
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
