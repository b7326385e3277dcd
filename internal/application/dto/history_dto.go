package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del historial unificado.
const (
	EventEntry          = "entry"
	EventMovement       = "movement"
	EventQuantityUpdate = "quantity_update"
	EventTreatment      = "treatment"
)

// HistoryEvent un evento del historial unificado. Comparte {Kind, Timestamp,
// BatchID, Batch}; el payload específico va en el puntero correspondiente.
type HistoryEvent struct {
	Kind      string         `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	BatchID   string         `json:"batch_id"`
	Batch     *BatchResponse `json:"batch,omitempty"` // snapshot del lote al momento de la consulta

	Entry     *EntryPayload          `json:"entry,omitempty"`
	Movement  *MovementPayload       `json:"movement,omitempty"`
	Update    *QuantityUpdatePayload `json:"update,omitempty"`
	Treatment *TreatmentPayload      `json:"treatment,omitempty"`
}

// EntryPayload llegada original del lote. El silo de entrada se deriva: el
// origen del movimiento más antiguo, o el silo actual si nunca se movió.
type EntryPayload struct {
	SiloNumber int             `json:"silo_number"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Origin     string          `json:"origin,omitempty"`
}

// MovementPayload traslado entre silos.
type MovementPayload struct {
	FromSilo int             `json:"from_silo"`
	ToSilo   int             `json:"to_silo"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Notes    string          `json:"notes,omitempty"`
}

// QuantityUpdatePayload corrección directa de cantidad. SiloNumber es el silo
// donde se asentó la corrección (0 si el silo ya no existe).
type QuantityUpdatePayload struct {
	SiloNumber int             `json:"silo_number,omitempty"`
	Previous   decimal.Decimal `json:"previous"`
	New        decimal.Decimal `json:"new"`
	Delta      decimal.Decimal `json:"delta"`
	Unit       string          `json:"unit"`
	Notes      string          `json:"notes,omitempty"`
}

// TreatmentPayload evento de fumigación del colaborador externo.
type TreatmentPayload struct {
	Product  string `json:"product"`
	Dose     string `json:"dose,omitempty"`
	Operator string `json:"operator,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// HistoryFilter filtros del feed unificado. Cero valores = sin filtro.
type HistoryFilter struct {
	SiloNumber int    `query:"silo"`
	BatchID    string `query:"batch_id"`
	GrainType  string `query:"grain_type"`
	Query      string `query:"q"` // subcadena sobre tipo de grano, origen e IDs
	Limit      int    `query:"limit"`
}

// HistoryResponse feed ordenado por fecha descendente.
type HistoryResponse struct {
	Events []HistoryEvent `json:"events"`
	Total  int            `json:"total"`
}
