package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrofum/silos-api/internal/domain/entity"
)

// CreateBatchRequest entrada para registrar un lote en un silo (descarga de barco).
type CreateBatchRequest struct {
	GrainLotID string          `json:"grano_id"`
	GrainType  string          `json:"grain_type" validate:"required"`
	Variety    string          `json:"variety"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit" validate:"required,oneof=kg t"`
	EntryDate  time.Time       `json:"entry_date"`
	Origin     string          `json:"origin"`
	Notes      string          `json:"notes"`
	ShipID     string          `json:"barco_id"`
}

// UpdateBatchRequest entrada para actualizar un lote. Si Quantity viene y
// difiere de la almacenada más allá del epsilon, se asienta primero una
// corrección en el libro de cantidades.
type UpdateBatchRequest struct {
	GrainType *string          `json:"grain_type"`
	Variety   *string          `json:"variety"`
	Quantity  *decimal.Decimal `json:"quantity"`
	Notes     *string          `json:"notes"`
	// UpdateNotes acompaña el asiento del libro de correcciones, no al lote.
	UpdateNotes string `json:"update_notes"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID         string          `json:"id"`
	GrainLotID string          `json:"grano_id"`
	SiloID     *string         `json:"silo_id"`
	GrainType  string          `json:"grain_type"`
	Variety    string          `json:"variety,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	EntryDate  time.Time       `json:"entry_date"`
	Origin     string          `json:"origin,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	ShipID     string          `json:"barco_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BatchListResponse lista de lotes de un silo.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
}

// FromBatch convierte la entidad a su DTO de salida.
func FromBatch(b *entity.GrainBatch) BatchResponse {
	return BatchResponse{
		ID:         b.ID,
		GrainLotID: b.GrainLotID,
		SiloID:     b.SiloID,
		GrainType:  b.GrainType,
		Variety:    b.Variety,
		Quantity:   b.Quantity,
		Unit:       b.Unit,
		EntryDate:  b.EntryDate,
		Origin:     b.Origin,
		Notes:      b.Notes,
		ShipID:     b.ShipID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
