package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

// UseCase coordina un traslado de grano entre silos como una sola operación
// lógica: recorte de la cantidad solicitada, exactamente un asiento en el
// libro de movimientos y decisión total/parcial, con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback.
type UseCase struct {
	txRunner ports.TxRunner
	siloRepo repository.SiloRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, siloRepo repository.SiloRepository) *UseCase {
	return &UseCase{txRunner: txRunner, siloRepo: siloRepo}
}

// Transfer mueve parte o todo un lote del silo origen al destino.
//
// La cantidad pedida se recorta a lo disponible: pedir más de lo que hay
// traslada solo lo que existe, sin error (política de mejor esfuerzo, no
// validación). Con el recorte igual al total el lote cambia de silo sin crear
// fila nueva (el linaje se preserva por construcción); con menos, la cantidad
// origen se decrementa y nace un lote nuevo en destino con los mismos
// atributos y grano_id pero ID fresco e historial propio vacío.
func (uc *UseCase) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.OriginSiloID == "" || in.DestSiloID == "" || in.BatchID == "" || in.OriginSiloID == in.DestSiloID {
		return nil, domain.ErrInvalidInput
	}
	// Silo origen o destino inexistente: falla rápida, sin escrituras parciales.
	origin, err := uc.siloRepo.GetByID(in.OriginSiloID)
	if err != nil {
		return nil, err
	}
	dest, err := uc.siloRepo.GetByID(in.DestSiloID)
	if err != nil {
		return nil, err
	}
	if origin == nil || dest == nil {
		return nil, domain.ErrNotFound
	}

	var out *dto.TransferResponse
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
		_ repository.QuantityUpdateRepository,
	) error {
		b, err := batchRepo.GetForUpdate(in.BatchID)
		if err != nil {
			return err
		}
		if b == nil || !b.AssignedTo(in.OriginSiloID) {
			return domain.ErrNotFound
		}

		moved := decimal.Min(in.Amount, b.Quantity)
		now := time.Now()

		// Libro primero y exactamente una vez, sea total o parcial,
		// siempre referido al lote original.
		record := &entity.MovementRecord{
			ID:       uuid.New().String(),
			BatchID:  b.ID,
			FromSilo: origin.Number,
			ToSilo:   dest.Number,
			Quantity: moved,
			Unit:     b.Unit,
			Notes:    in.Notes,
			Date:     now,
		}
		if err := movementRepo.Create(record); err != nil {
			return err
		}

		partial := moved.LessThan(b.Quantity)
		var destBatch *entity.GrainBatch
		if !partial {
			// Traslado total: la misma fila cambia de silo.
			b.SiloID = &in.DestSiloID
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return err
			}
			destBatch = b
		} else {
			b.Quantity = b.Quantity.Sub(moved)
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return err
			}
			// El descendiente hereda atributos y grano_id, no los libros del
			// padre: su procedencia se reconstruye por el destino del movimiento.
			destBatch = &entity.GrainBatch{
				ID:         uuid.New().String(),
				GrainLotID: b.GrainLotID,
				SiloID:     &in.DestSiloID,
				GrainType:  b.GrainType,
				Variety:    b.Variety,
				Quantity:   moved,
				Unit:       b.Unit,
				EntryDate:  b.EntryDate,
				Origin:     b.Origin,
				ShipID:     b.ShipID,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := batchRepo.Create(destBatch); err != nil {
				return err
			}
		}

		out = &dto.TransferResponse{
			Partial:     partial,
			Moved:       moved,
			Unit:        b.Unit,
			MovementID:  record.ID,
			OriginBatch: dto.FromBatch(b),
			DestBatch:   dto.FromBatch(destBatch),
			Date:        now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
