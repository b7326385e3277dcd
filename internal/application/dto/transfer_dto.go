package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/transfers.
type TransferRequest struct {
	OriginSiloID string          `json:"origin_silo_id" validate:"required"`
	DestSiloID   string          `json:"dest_silo_id" validate:"required"`
	BatchID      string          `json:"batch_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        string          `json:"notes"`
}

// TransferResponse resultado de un traslado. En un traslado total el lote
// destino es la misma fila reasignada; en uno parcial es un lote nuevo.
type TransferResponse struct {
	Partial     bool            `json:"partial"`
	Moved       decimal.Decimal `json:"moved"` // cantidad efectiva tras el recorte
	Unit        string          `json:"unit"`
	MovementID  string          `json:"movement_id"`
	OriginBatch BatchResponse   `json:"origin_batch"`
	DestBatch   BatchResponse   `json:"dest_batch"`
	Date        time.Time       `json:"date"`
}
