package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create asienta un movimiento. created_at lo asigna el servidor.
func (r *MovementRepo) Create(record *entity.MovementRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_records (id, batch_id, silo_origen, silo_destino, cantidad, unidad, notas, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.BatchID, record.FromSilo, record.ToSilo,
		record.Quantity, record.Unit, nullable(record.Notes), record.Date,
	)
	if err != nil {
		return fmt.Errorf("create movement record: %w", err)
	}
	return nil
}

// ListByBatch devuelve los movimientos de un lote ordenados por fecha ascendente.
func (r *MovementRepo) ListByBatch(batchID string) ([]*entity.MovementRecord, error) {
	query := `
		SELECT id, batch_id, silo_origen, silo_destino, cantidad, unidad, notas, fecha, created_at
		FROM movement_records WHERE batch_id = $1 ORDER BY fecha`
	return r.list(query, batchID)
}

// List lista movimientos en un rango de fechas, más recientes primero.
func (r *MovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `
		SELECT id, batch_id, silo_origen, silo_destino, cantidad, unidad, notas, fecha, created_at
		FROM movement_records WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement records: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement record: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var notes *string
	err := row.Scan(&m.ID, &m.BatchID, &m.FromSilo, &m.ToSilo,
		&m.Quantity, &m.Unit, &notes, &m.Date, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		m.Notes = *notes
	}
	return &m, nil
}
