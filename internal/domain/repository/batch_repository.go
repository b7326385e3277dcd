package repository

import "github.com/agrofum/silos-api/internal/domain/entity"

// BatchRepository define el puerto de persistencia para GrainBatch (DIP).
type BatchRepository interface {
	Create(batch *entity.GrainBatch) error
	GetByID(id string) (*entity.GrainBatch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(id string) (*entity.GrainBatch, error)
	Update(batch *entity.GrainBatch) error
	ListBySilo(siloID string) ([]*entity.GrainBatch, error)
	List(limit, offset int) ([]*entity.GrainBatch, error)
	// Unassign pone SiloID a NULL (retirado del silo); la fila y sus libros se conservan.
	Unassign(batchID string) error
	// UnassignBySilo desasigna todos los lotes de un silo (al eliminar el silo).
	UnassignBySilo(siloID string) (int64, error)
	// Delete elimina la fila de forma permanente; los asientos de los libros quedan
	// huérfanos a propósito, el historial sobrevive al lote.
	Delete(batchID string) error
}
