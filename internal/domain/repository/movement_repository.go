package repository

import (
	"time"

	"github.com/agrofum/silos-api/internal/domain/entity"
)

// MovementRepository define el puerto del libro de movimientos (append-only:
// sin Update ni Delete).
type MovementRepository interface {
	Create(record *entity.MovementRecord) error
	// ListByBatch devuelve los movimientos de un lote ordenados por fecha ascendente.
	ListByBatch(batchID string) ([]*entity.MovementRecord, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
}
