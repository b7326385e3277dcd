package repository

import (
	"time"

	"github.com/agrofum/silos-api/internal/domain/entity"
)

// QuantityUpdateRepository define el puerto del libro de correcciones de
// cantidad (append-only: sin Update ni Delete).
type QuantityUpdateRepository interface {
	Create(record *entity.QuantityUpdateRecord) error
	// ListByBatch devuelve las correcciones de un lote ordenadas por fecha ascendente.
	ListByBatch(batchID string) ([]*entity.QuantityUpdateRecord, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.QuantityUpdateRecord, error)
}
