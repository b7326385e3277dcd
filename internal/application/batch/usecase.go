package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/grain"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

// UseCase casos de uso del almacén de lotes: alta, edición con asiento previo
// en el libro de correcciones, retiro del silo y borrado permanente.
type UseCase struct {
	txRunner  ports.TxRunner
	siloRepo  repository.SiloRepository
	batchRepo repository.BatchRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, siloRepo repository.SiloRepository, batchRepo repository.BatchRepository) *UseCase {
	return &UseCase{txRunner: txRunner, siloRepo: siloRepo, batchRepo: batchRepo}
}

// AddBatch registra un lote nuevo en un silo (descarga de barco). La cantidad
// puede ser cero; la UI lo rechaza, esta capa no. Negativa sí se rechaza.
func (uc *UseCase) AddBatch(ctx context.Context, siloID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	if !grain.ValidUnit(in.Unit) || in.GrainType == "" {
		return nil, domain.ErrInvalidInput
	}
	silo, err := uc.siloRepo.GetByID(siloID)
	if err != nil {
		return nil, err
	}
	if silo == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}
	b := &entity.GrainBatch{
		ID:         uuid.New().String(),
		GrainLotID: in.GrainLotID,
		SiloID:     &siloID,
		GrainType:  in.GrainType,
		Variety:    in.Variety,
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		EntryDate:  entryDate,
		Origin:     in.Origin,
		Notes:      in.Notes,
		ShipID:     in.ShipID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.batchRepo.Create(b); err != nil {
		return nil, err
	}
	out := dto.FromBatch(b)
	return &out, nil
}

// UpdateBatch edita un lote asignado al silo dado. Si la cantidad cambia más
// allá del epsilon, primero se asienta la corrección (anterior, nueva, delta)
// en el libro de cantidades y después se aplica la mutación, todo dentro de
// una misma transacción. Un cambio dentro del epsilon no genera asiento.
func (uc *UseCase) UpdateBatch(ctx context.Context, siloID, batchID string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	var updated *entity.GrainBatch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.MovementRepository,
		updateRepo repository.QuantityUpdateRepository,
	) error {
		b, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if b == nil || !b.AssignedTo(siloID) {
			return domain.ErrNotFound
		}
		now := time.Now()
		if in.Quantity != nil && !grain.Negligible(*in.Quantity, b.Quantity) {
			// Libro primero: el asiento debe existir aunque la mutación posterior falle.
			record := &entity.QuantityUpdateRecord{
				ID:               uuid.New().String(),
				BatchID:          b.ID,
				SiloID:           siloID,
				PreviousQuantity: b.Quantity,
				NewQuantity:      *in.Quantity,
				Delta:            in.Quantity.Sub(b.Quantity),
				Unit:             b.Unit,
				Notes:            in.UpdateNotes,
				Date:             now,
			}
			if err := updateRepo.Create(record); err != nil {
				return err
			}
			b.Quantity = *in.Quantity
		}
		if in.GrainType != nil {
			b.GrainType = *in.GrainType
		}
		if in.Variety != nil {
			b.Variety = *in.Variety
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		b.UpdatedAt = now
		if err := batchRepo.Update(b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromBatch(updated)
	return &out, nil
}

// RemoveFromSilo retira el lote del silo (SiloID a NULL). La fila y sus libros
// se conservan; distinto del borrado permanente.
func (uc *UseCase) RemoveFromSilo(ctx context.Context, siloID, batchID string) error {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if b == nil || !b.AssignedTo(siloID) {
		return domain.ErrNotFound
	}
	return uc.batchRepo.Unassign(batchID)
}

// DeleteBatch elimina la fila del lote de forma permanente. Los asientos de
// los libros quedan huérfanos y se conservan: el historial sobrevive al lote.
func (uc *UseCase) DeleteBatch(ctx context.Context, siloID, batchID string) error {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if b == nil || !b.AssignedTo(siloID) {
		return domain.ErrNotFound
	}
	return uc.batchRepo.Delete(batchID)
}

// GetByID obtiene un lote por ID (asignado o no; los despachados siguen visibles).
func (uc *UseCase) GetByID(ctx context.Context, batchID string) (*dto.BatchResponse, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromBatch(b)
	return &out, nil
}
