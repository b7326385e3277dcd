package ports

import (
	"context"

	"github.com/agrofum/silos-api/internal/domain/entity"
)

// TreatmentFeed define el puerto de salida hacia el subsistema de fumigación.
// Cualquier adaptador (HTTP, mock) debe implementar esta interfaz; el
// historial la consume en modo solo lectura y tolera su indisponibilidad.
type TreatmentFeed interface {
	// ListByBatch devuelve los tratamientos aplicados a un lote.
	ListByBatch(ctx context.Context, batchID string) ([]*entity.TreatmentEvent, error)
	// List devuelve todos los tratamientos registrados (feed global).
	List(ctx context.Context) ([]*entity.TreatmentEvent, error)
}
