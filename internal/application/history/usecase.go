package history

import (
	"context"
	"sort"
	"strings"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
	"github.com/agrofum/silos-api/pkg/logger"
)

// UseCase reconstruye el historial: linaje por lote (silo de entrada original)
// y feed cronológico unificado de entradas, movimientos, correcciones y
// tratamientos. Solo lecturas: se puede recalcular en cualquier momento a
// partir de los tres almacenes más el feed externo de fumigación.
type UseCase struct {
	siloRepo      repository.SiloRepository
	batchRepo     repository.BatchRepository
	movementRepo  repository.MovementRepository
	updateRepo    repository.QuantityUpdateRepository
	treatmentFeed ports.TreatmentFeed
	log           *logger.Logger
}

// NewUseCase construye el caso de uso. treatmentFeed puede ser nil (sin
// subsistema de fumigación configurado).
func NewUseCase(
	siloRepo repository.SiloRepository,
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	updateRepo repository.QuantityUpdateRepository,
	treatmentFeed ports.TreatmentFeed,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		siloRepo:      siloRepo,
		batchRepo:     batchRepo,
		movementRepo:  movementRepo,
		updateRepo:    updateRepo,
		treatmentFeed: treatmentFeed,
		log:           log,
	}
}

// EntrySilo deriva el silo de entrada original de un lote: el origen del
// movimiento más antiguo si hay historial de movimientos, o el silo actual si
// nunca se movió. CurrentSilo refleja la última ubicación, no dónde entró el
// grano; usarlo directamente atribuiría las entradas al silo equivocado.
func (uc *UseCase) EntrySilo(batch *entity.GrainBatch, movements []*entity.MovementRecord) (int, error) {
	if len(movements) > 0 {
		earliest := movements[0]
		for _, m := range movements[1:] {
			if m.Date.Before(earliest.Date) {
				earliest = m
			}
		}
		return earliest.FromSilo, nil
	}
	if batch.SiloID == nil {
		return 0, nil // despachado y sin movimientos: silo de entrada desconocido
	}
	silo, err := uc.siloRepo.GetByID(*batch.SiloID)
	if err != nil {
		return 0, err
	}
	if silo == nil {
		return 0, nil
	}
	return silo.Number, nil
}

// BatchHistory devuelve el historial completo de un lote, ordenado por fecha
// descendente: su entrada derivada, movimientos, correcciones y tratamientos.
func (uc *UseCase) BatchHistory(ctx context.Context, batchID string) (*dto.HistoryResponse, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movementRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	updates, err := uc.updateRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	events, err := uc.buildEvents(b, movements, updates)
	if err != nil {
		return nil, err
	}
	events = append(events, uc.treatmentEvents(ctx, b, batchID)...)
	sortEventsDesc(events)
	return &dto.HistoryResponse{Events: events, Total: len(events)}, nil
}

// Feed devuelve el historial global con filtros por silo, lote, tipo de grano
// y búsqueda libre. Los eventos de todos los lotes se mezclan y ordenan por
// fecha descendente.
func (uc *UseCase) Feed(ctx context.Context, filter dto.HistoryFilter) (*dto.HistoryResponse, error) {
	batches, err := uc.batchRepo.List(1000, 0)
	if err != nil {
		return nil, err
	}
	var all []dto.HistoryEvent
	for _, b := range batches {
		if filter.BatchID != "" && b.ID != filter.BatchID {
			continue
		}
		if filter.GrainType != "" && !strings.EqualFold(b.GrainType, filter.GrainType) {
			continue
		}
		if filter.Query != "" && !matchesQuery(b, filter.Query) {
			continue
		}
		movements, err := uc.movementRepo.ListByBatch(b.ID)
		if err != nil {
			return nil, err
		}
		updates, err := uc.updateRepo.ListByBatch(b.ID)
		if err != nil {
			return nil, err
		}
		events, err := uc.buildEvents(b, movements, updates)
		if err != nil {
			return nil, err
		}
		events = append(events, uc.treatmentEvents(ctx, b, b.ID)...)
		all = append(all, events...)
	}
	if filter.SiloNumber > 0 {
		all = filterBySilo(all, filter.SiloNumber)
	}
	sortEventsDesc(all)
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return &dto.HistoryResponse{Events: all, Total: len(all)}, nil
}

// buildEvents arma entrada derivada + movimientos + correcciones de un lote.
func (uc *UseCase) buildEvents(b *entity.GrainBatch, movements []*entity.MovementRecord, updates []*entity.QuantityUpdateRecord) ([]dto.HistoryEvent, error) {
	snapshot := dto.FromBatch(b)
	entrySilo, err := uc.EntrySilo(b, movements)
	if err != nil {
		return nil, err
	}
	events := []dto.HistoryEvent{{
		Kind:      dto.EventEntry,
		Timestamp: b.EntryDate,
		BatchID:   b.ID,
		Batch:     &snapshot,
		Entry: &dto.EntryPayload{
			SiloNumber: entrySilo,
			Quantity:   b.Quantity,
			Unit:       b.Unit,
			Origin:     b.Origin,
		},
	}}
	for _, m := range movements {
		events = append(events, dto.HistoryEvent{
			Kind:      dto.EventMovement,
			Timestamp: m.Date,
			BatchID:   m.BatchID,
			Batch:     &snapshot,
			Movement: &dto.MovementPayload{
				FromSilo: m.FromSilo,
				ToSilo:   m.ToSilo,
				Quantity: m.Quantity,
				Unit:     m.Unit,
				Notes:    m.Notes,
			},
		})
	}
	for _, u := range updates {
		num, err := uc.siloNumber(u.SiloID)
		if err != nil {
			return nil, err
		}
		events = append(events, dto.HistoryEvent{
			Kind:      dto.EventQuantityUpdate,
			Timestamp: u.Date,
			BatchID:   u.BatchID,
			Batch:     &snapshot,
			Update: &dto.QuantityUpdatePayload{
				SiloNumber: num,
				Previous:   u.PreviousQuantity,
				New:        u.NewQuantity,
				Delta:      u.Delta,
				Unit:       u.Unit,
				Notes:      u.Notes,
			},
		})
	}
	return events, nil
}

// siloNumber resuelve el número de un silo por ID; 0 si ya no existe.
func (uc *UseCase) siloNumber(siloID string) (int, error) {
	if siloID == "" {
		return 0, nil
	}
	silo, err := uc.siloRepo.GetByID(siloID)
	if err != nil {
		return 0, err
	}
	if silo == nil {
		return 0, nil
	}
	return silo.Number, nil
}

// treatmentEvents consulta el feed externo de fumigación. Si el colaborador no
// responde, el historial sale sin tratamientos y se registra un warning: el
// feed no condiciona la corrección del resto del historial.
func (uc *UseCase) treatmentEvents(ctx context.Context, b *entity.GrainBatch, batchID string) []dto.HistoryEvent {
	if uc.treatmentFeed == nil {
		return nil
	}
	treatments, err := uc.treatmentFeed.ListByBatch(ctx, batchID)
	if err != nil {
		if uc.log != nil {
			uc.log.Warn().Err(err).Str("batch_id", batchID).Msg("feed de fumigación no disponible")
		}
		return nil
	}
	snapshot := dto.FromBatch(b)
	events := make([]dto.HistoryEvent, 0, len(treatments))
	for _, t := range treatments {
		events = append(events, dto.HistoryEvent{
			Kind:      dto.EventTreatment,
			Timestamp: t.Date,
			BatchID:   t.BatchID,
			Batch:     &snapshot,
			Treatment: &dto.TreatmentPayload{
				Product:  t.Product,
				Dose:     t.Dose,
				Operator: t.Operator,
				Notes:    t.Notes,
			},
		})
	}
	return events
}

func sortEventsDesc(events []dto.HistoryEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}

// filterBySilo conserva los eventos que involucran al silo dado: entradas en
// él, movimientos con él como origen o destino y correcciones asentadas en él.
// Los tratamientos no llevan silo en su asiento y quedan fuera del filtro.
func filterBySilo(events []dto.HistoryEvent, number int) []dto.HistoryEvent {
	out := events[:0]
	for _, e := range events {
		switch {
		case e.Entry != nil && e.Entry.SiloNumber == number:
			out = append(out, e)
		case e.Movement != nil && (e.Movement.FromSilo == number || e.Movement.ToSilo == number):
			out = append(out, e)
		case e.Update != nil && e.Update.SiloNumber == number:
			out = append(out, e)
		}
	}
	return out
}

func matchesQuery(b *entity.GrainBatch, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{b.GrainType, b.Origin, b.ID, b.GrainLotID, b.Variety} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
