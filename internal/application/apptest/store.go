// Package apptest provee un almacenamiento en memoria para los tests de los
// casos de uso: implementa los puertos de repositorio y el TxRunner sin
// PostgreSQL. No simula transacciones reales; los casos de uso se prueban por
// su efecto observable, no por el rollback.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

var (
	_ ports.TxRunner                      = (*Store)(nil)
	_ repository.SiloRepository           = (*SiloRepo)(nil)
	_ repository.BatchRepository          = (*BatchRepo)(nil)
	_ repository.MovementRepository       = (*MovementRepo)(nil)
	_ repository.QuantityUpdateRepository = (*UpdateRepo)(nil)
)

// Store agrupa los repositorios en memoria y hace de TxRunner.
type Store struct {
	Silos     *SiloRepo
	Batches   *BatchRepo
	Movements *MovementRepo
	Updates   *UpdateRepo
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		Silos:     &SiloRepo{byID: map[string]*entity.Silo{}},
		Batches:   &BatchRepo{byID: map[string]*entity.GrainBatch{}},
		Movements: &MovementRepo{},
		Updates:   &UpdateRepo{},
	}
}

// Run ejecuta fn contra los mismos repositorios en memoria.
func (s *Store) Run(_ context.Context, fn func(
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	updateRepo repository.QuantityUpdateRepository,
) error) error {
	return fn(s.Batches, s.Movements, s.Updates)
}

// ─── Silos ────────────────────────────────────────────────────────────────────

type SiloRepo struct {
	byID map[string]*entity.Silo
}

func (r *SiloRepo) Create(silo *entity.Silo) error {
	cp := *silo
	r.byID[silo.ID] = &cp
	return nil
}

func (r *SiloRepo) GetByID(id string) (*entity.Silo, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SiloRepo) GetByNumber(number int) (*entity.Silo, error) {
	for _, s := range r.byID {
		if s.Number == number {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SiloRepo) Update(silo *entity.Silo) error {
	cp := *silo
	r.byID[silo.ID] = &cp
	return nil
}

func (r *SiloRepo) List(limit, offset int) ([]*entity.Silo, error) {
	all := make([]*entity.Silo, 0, len(r.byID))
	for _, s := range r.byID {
		cp := *s
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return page(all, limit, offset), nil
}

func (r *SiloRepo) ListByClientEmail(email string, limit, offset int) ([]*entity.Silo, error) {
	all, _ := r.List(0, 0)
	out := all[:0]
	for _, s := range all {
		if s.ClientEmail == email {
			out = append(out, s)
		}
	}
	return page(out, limit, offset), nil
}

func (r *SiloRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *SiloRepo) MaxNumber() (int, error) {
	max := 0
	for _, s := range r.byID {
		if s.Number > max {
			max = s.Number
		}
	}
	return max, nil
}

// ─── Lotes ────────────────────────────────────────────────────────────────────

type BatchRepo struct {
	byID map[string]*entity.GrainBatch
}

func (r *BatchRepo) Create(batch *entity.GrainBatch) error {
	cp := *batch
	r.byID[batch.ID] = &cp
	return nil
}

func (r *BatchRepo) GetByID(id string) (*entity.GrainBatch, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BatchRepo) GetForUpdate(id string) (*entity.GrainBatch, error) {
	return r.GetByID(id)
}

func (r *BatchRepo) Update(batch *entity.GrainBatch) error {
	cp := *batch
	r.byID[batch.ID] = &cp
	return nil
}

func (r *BatchRepo) ListBySilo(siloID string) ([]*entity.GrainBatch, error) {
	var out []*entity.GrainBatch
	for _, b := range r.byID {
		if b.SiloID != nil && *b.SiloID == siloID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

func (r *BatchRepo) List(limit, offset int) ([]*entity.GrainBatch, error) {
	all := make([]*entity.GrainBatch, 0, len(r.byID))
	for _, b := range r.byID {
		cp := *b
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (r *BatchRepo) Unassign(batchID string) error {
	if b, ok := r.byID[batchID]; ok {
		b.SiloID = nil
	}
	return nil
}

func (r *BatchRepo) UnassignBySilo(siloID string) (int64, error) {
	var n int64
	for _, b := range r.byID {
		if b.SiloID != nil && *b.SiloID == siloID {
			b.SiloID = nil
			n++
		}
	}
	return n, nil
}

func (r *BatchRepo) Delete(batchID string) error {
	delete(r.byID, batchID)
	return nil
}

// ─── Libros ───────────────────────────────────────────────────────────────────

type MovementRepo struct {
	Records []*entity.MovementRecord
}

func (r *MovementRepo) Create(record *entity.MovementRecord) error {
	cp := *record
	r.Records = append(r.Records, &cp)
	return nil
}

func (r *MovementRepo) ListByBatch(batchID string) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.Records {
		if m.BatchID == batchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.Records {
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

type UpdateRepo struct {
	Records []*entity.QuantityUpdateRecord
}

func (r *UpdateRepo) Create(record *entity.QuantityUpdateRecord) error {
	cp := *record
	r.Records = append(r.Records, &cp)
	return nil
}

func (r *UpdateRepo) ListByBatch(batchID string) ([]*entity.QuantityUpdateRecord, error) {
	var out []*entity.QuantityUpdateRecord
	for _, u := range r.Records {
		if u.BatchID == batchID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *UpdateRepo) List(from, to *time.Time, limit, offset int) ([]*entity.QuantityUpdateRecord, error) {
	var out []*entity.QuantityUpdateRecord
	for _, u := range r.Records {
		if from != nil && u.Date.Before(*from) {
			continue
		}
		if to != nil && u.Date.After(*to) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
