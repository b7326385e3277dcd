package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ocupación de un silo (informativos, nunca bloquean escrituras).
const (
	OccupancyOK       = "ok"
	OccupancyNearFull = "near_full" // >= 80% de la capacidad
	OccupancyFull     = "full"      // >= 100% de la capacidad
)

// CreateSiloRequest entrada para crear un silo. Number en cero asigna el
// siguiente número secuencial disponible.
type CreateSiloRequest struct {
	Number      int             `json:"number"`
	Name        string          `json:"name" validate:"max=200"`
	Capacity    decimal.Decimal `json:"capacity"` // toneladas
	ClientEmail string          `json:"cliente_email"`
}

// UpdateSiloRequest entrada para actualizar un silo.
type UpdateSiloRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Capacity    *decimal.Decimal `json:"capacity"`
	ClientEmail *string          `json:"cliente_email"`
}

// SiloResponse salida de un silo con sus agregados calculados al leer.
type SiloResponse struct {
	ID          string          `json:"id"`
	Number      int             `json:"number"`
	Name        string          `json:"name"`
	Capacity    decimal.Decimal `json:"capacity"`
	ClientEmail string          `json:"cliente_email,omitempty"`
	Active      bool            `json:"active"`
	Occupied    decimal.Decimal `json:"occupied"`      // toneladas, suma de lotes asignados
	Occupancy   string          `json:"occupancy"`     // ok | near_full | full
	BatchCount  int             `json:"batch_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SiloListResponse lista paginada de silos.
type SiloListResponse struct {
	Items []SiloResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
