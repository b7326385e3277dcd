package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, grano_id, silo_id, tipo_grano, variedad, cantidad, unidad,
		fecha_entrada, origen, notas, barco_id, created_at, updated_at`

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL
// (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.GrainBatch) error {
	query := `
		INSERT INTO grain_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, nullable(batch.GrainLotID), batch.SiloID, batch.GrainType,
		nullable(batch.Variety), batch.Quantity, batch.Unit, batch.EntryDate,
		nullable(batch.Origin), nullable(batch.Notes), nullable(batch.ShipID),
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (asignado o no).
func (r *BatchRepo) GetByID(id string) (*entity.GrainBatch, error) {
	return r.getOne(`SELECT `+batchColumns+` FROM grain_batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *BatchRepo) GetForUpdate(id string) (*entity.GrainBatch, error) {
	return r.getOne(`SELECT `+batchColumns+` FROM grain_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) getOne(query string, arg any) (*entity.GrainBatch, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// Update actualiza los campos mutables del lote.
func (r *BatchRepo) Update(batch *entity.GrainBatch) error {
	query := `
		UPDATE grain_batches
		SET silo_id = $2, tipo_grano = $3, variedad = $4, cantidad = $5,
		    notas = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.SiloID, batch.GrainType, nullable(batch.Variety),
		batch.Quantity, nullable(batch.Notes), batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// ListBySilo lista los lotes actualmente asignados a un silo.
func (r *BatchRepo) ListBySilo(siloID string) ([]*entity.GrainBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM grain_batches WHERE silo_id = $1 ORDER BY fecha_entrada`
	return r.list(query, siloID)
}

// List lista lotes (asignados o no) con paginación.
func (r *BatchRepo) List(limit, offset int) ([]*entity.GrainBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM grain_batches ORDER BY fecha_entrada DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.GrainBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.GrainBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Unassign pone silo_id a NULL; la fila se conserva para el historial.
func (r *BatchRepo) Unassign(batchID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE grain_batches SET silo_id = NULL, updated_at = now() WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("unassign batch: %w", err)
	}
	return nil
}

// UnassignBySilo desasigna todos los lotes de un silo. Devuelve cuántos.
func (r *BatchRepo) UnassignBySilo(siloID string) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE grain_batches SET silo_id = NULL, updated_at = now() WHERE silo_id = $1`, siloID)
	if err != nil {
		return 0, fmt.Errorf("unassign batches by silo: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete elimina la fila del lote. Sin cascada sobre los libros: los asientos
// quedan huérfanos a propósito.
func (r *BatchRepo) Delete(batchID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM grain_batches WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

func scanBatch(row pgx.Row) (*entity.GrainBatch, error) {
	var b entity.GrainBatch
	var grainLot, variety, origin, notes, shipID *string
	err := row.Scan(
		&b.ID, &grainLot, &b.SiloID, &b.GrainType, &variety, &b.Quantity, &b.Unit,
		&b.EntryDate, &origin, &notes, &shipID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if grainLot != nil {
		b.GrainLotID = *grainLot
	}
	if variety != nil {
		b.Variety = *variety
	}
	if origin != nil {
		b.Origin = *origin
	}
	if notes != nil {
		b.Notes = *notes
	}
	if shipID != nil {
		b.ShipID = *shipID
	}
	return &b, nil
}
