package silo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/grain"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

// Umbrales de ocupación. Solo aviso visual: ninguna escritura se rechaza por
// superar la capacidad.
var (
	nearFullRatio = decimal.NewFromFloat(0.8)
	fullRatio     = decimal.NewFromInt(1)
)

// UseCase casos de uso del registro de silos: CRUD y agregación al leer.
// La ocupación y el estado activo se calculan siempre a partir de los lotes
// asignados, nunca se materializan.
type UseCase struct {
	siloRepo  repository.SiloRepository
	batchRepo repository.BatchRepository

	mu     sync.Mutex
	active map[string]bool // cache del conjunto de silos activos; nil = sin calcular
}

// NewUseCase construye el caso de uso.
func NewUseCase(siloRepo repository.SiloRepository, batchRepo repository.BatchRepository) *UseCase {
	return &UseCase{siloRepo: siloRepo, batchRepo: batchRepo}
}

// Create crea un silo. Number en cero asigna el siguiente número secuencial.
func (uc *UseCase) Create(in dto.CreateSiloRequest) (*dto.SiloResponse, error) {
	if in.Capacity.IsNegative() || in.Number < 0 {
		return nil, domain.ErrInvalidInput
	}
	number := in.Number
	if number == 0 {
		max, err := uc.siloRepo.MaxNumber()
		if err != nil {
			return nil, err
		}
		number = max + 1
	} else {
		existing, err := uc.siloRepo.GetByNumber(number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	silo := &entity.Silo{
		ID:          uuid.New().String(),
		Number:      number,
		Name:        in.Name,
		Capacity:    in.Capacity,
		ClientEmail: in.ClientEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.siloRepo.Create(silo); err != nil {
		return nil, err
	}
	uc.Invalidate()
	return uc.toResponse(silo, nil), nil
}

// GetByID obtiene un silo con sus agregados.
func (uc *UseCase) GetByID(id string) (*dto.SiloResponse, error) {
	silo, err := uc.siloRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if silo == nil {
		return nil, domain.ErrNotFound
	}
	batches, err := uc.batchRepo.ListBySilo(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(silo, batches), nil
}

// Update actualiza identidad y capacidad de un silo.
func (uc *UseCase) Update(id string, in dto.UpdateSiloRequest) (*dto.SiloResponse, error) {
	silo, err := uc.siloRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if silo == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		silo.Name = *in.Name
	}
	if in.Capacity != nil {
		if in.Capacity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		silo.Capacity = *in.Capacity
	}
	if in.ClientEmail != nil {
		silo.ClientEmail = *in.ClientEmail
	}
	silo.UpdatedAt = time.Now()
	if err := uc.siloRepo.Update(silo); err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// Delete elimina un silo. Sus lotes quedan desasignados (SiloID a NULL), no se
// eliminan: el historial debe sobrevivir a la baja del silo.
func (uc *UseCase) Delete(id string) error {
	silo, err := uc.siloRepo.GetByID(id)
	if err != nil {
		return err
	}
	if silo == nil {
		return domain.ErrNotFound
	}
	if _, err := uc.batchRepo.UnassignBySilo(id); err != nil {
		return err
	}
	if err := uc.siloRepo.Delete(id); err != nil {
		return err
	}
	uc.Invalidate()
	return nil
}

// List lista silos con agregados. Con email no vacío devuelve solo los silos
// del cliente (filtrado de acceso para usuarios no admin).
func (uc *UseCase) List(clientEmail string, limit, offset int) (*dto.SiloListResponse, error) {
	var (
		silos []*entity.Silo
		err   error
	)
	if clientEmail == "" {
		silos, err = uc.siloRepo.List(limit, offset)
	} else {
		silos, err = uc.siloRepo.ListByClientEmail(clientEmail, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.SiloResponse, 0, len(silos))
	for _, s := range silos {
		batches, err := uc.batchRepo.ListBySilo(s.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *uc.toResponse(s, batches))
	}
	return &dto.SiloListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListBatches lista los lotes actualmente asignados a un silo.
func (uc *UseCase) ListBatches(siloID string) (*dto.BatchListResponse, error) {
	silo, err := uc.siloRepo.GetByID(siloID)
	if err != nil {
		return nil, err
	}
	if silo == nil {
		return nil, domain.ErrNotFound
	}
	batches, err := uc.batchRepo.ListBySilo(siloID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, dto.FromBatch(b))
	}
	return &dto.BatchListResponse{Items: items}, nil
}

// TotalQuantity suma las cantidades de los lotes asignados, cada una
// convertida a toneladas al momento de leer. Idempotente: dos lecturas sin
// escrituras intermedias devuelven el mismo valor.
func (uc *UseCase) TotalQuantity(siloID string) (decimal.Decimal, error) {
	silo, err := uc.siloRepo.GetByID(siloID)
	if err != nil {
		return decimal.Zero, err
	}
	if silo == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	batches, err := uc.batchRepo.ListBySilo(siloID)
	if err != nil {
		return decimal.Zero, err
	}
	return occupiedTonnes(batches), nil
}

// ActiveSilos devuelve el conjunto de IDs de silos con al menos un lote
// asignado. El resultado se cachea hasta la próxima invalidación (notificación
// de cambio del almacenamiento o escritura local).
func (uc *UseCase) ActiveSilos() (map[string]bool, error) {
	uc.mu.Lock()
	if uc.active != nil {
		cached := uc.active
		uc.mu.Unlock()
		return cached, nil
	}
	uc.mu.Unlock()

	silos, err := uc.siloRepo.List(1000, 0)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool)
	for _, s := range silos {
		batches, err := uc.batchRepo.ListBySilo(s.ID)
		if err != nil {
			return nil, err
		}
		if len(batches) > 0 {
			active[s.ID] = true
		}
	}
	uc.mu.Lock()
	uc.active = active
	uc.mu.Unlock()
	return active, nil
}

// Invalidate descarta el cache de silos activos. Lo invoca el listener de
// notificaciones de cambio y las escrituras locales; la próxima lectura
// re-agrega todo (el dataset es pequeño, el refresco completo es aceptable).
func (uc *UseCase) Invalidate() {
	uc.mu.Lock()
	uc.active = nil
	uc.mu.Unlock()
}

func (uc *UseCase) toResponse(s *entity.Silo, batches []*entity.GrainBatch) *dto.SiloResponse {
	occupied := occupiedTonnes(batches)
	return &dto.SiloResponse{
		ID:          s.ID,
		Number:      s.Number,
		Name:        s.Name,
		Capacity:    s.Capacity,
		ClientEmail: s.ClientEmail,
		Active:      len(batches) > 0,
		Occupied:    occupied,
		Occupancy:   occupancy(occupied, s.Capacity),
		BatchCount:  len(batches),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func occupiedTonnes(batches []*entity.GrainBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(grain.ToTonnes(b.Quantity, b.Unit))
	}
	return total
}

// occupancy clasifica la ocupación frente a la capacidad. Capacidad cero o
// negativa se reporta ok: sin capacidad declarada no hay contra qué comparar.
func occupancy(occupied, capacity decimal.Decimal) string {
	if !capacity.IsPositive() {
		return dto.OccupancyOK
	}
	ratio := occupied.Div(capacity)
	switch {
	case ratio.GreaterThanOrEqual(fullRatio):
		return dto.OccupancyFull
	case ratio.GreaterThanOrEqual(nearFullRatio):
		return dto.OccupancyNearFull
	default:
		return dto.OccupancyOK
	}
}
