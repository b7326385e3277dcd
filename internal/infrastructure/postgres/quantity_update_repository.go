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

var _ repository.QuantityUpdateRepository = (*QuantityUpdateRepo)(nil)

// QuantityUpdateRepo implementación del libro de correcciones de cantidad
// sobre PostgreSQL (usable con pool o tx). Append-only.
type QuantityUpdateRepo struct {
	q Querier
}

// NewQuantityUpdateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuantityUpdateRepository(q Querier) *QuantityUpdateRepo {
	return &QuantityUpdateRepo{q: q}
}

// Create asienta una corrección. created_at lo asigna el servidor.
func (r *QuantityUpdateRepo) Create(record *entity.QuantityUpdateRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quantity_updates (id, batch_id, silo_id, cantidad_anterior, cantidad_nueva, delta, unidad, notas, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.BatchID, record.SiloID, record.PreviousQuantity,
		record.NewQuantity, record.Delta, record.Unit, nullable(record.Notes), record.Date,
	)
	if err != nil {
		return fmt.Errorf("create quantity update record: %w", err)
	}
	return nil
}

// ListByBatch devuelve las correcciones de un lote ordenadas por fecha ascendente.
func (r *QuantityUpdateRepo) ListByBatch(batchID string) ([]*entity.QuantityUpdateRecord, error) {
	query := `
		SELECT id, batch_id, silo_id, cantidad_anterior, cantidad_nueva, delta, unidad, notas, fecha, created_at
		FROM quantity_updates WHERE batch_id = $1 ORDER BY fecha`
	return r.list(query, batchID)
}

// List lista correcciones en un rango de fechas, más recientes primero.
func (r *QuantityUpdateRepo) List(from, to *time.Time, limit, offset int) ([]*entity.QuantityUpdateRecord, error) {
	query := `
		SELECT id, batch_id, silo_id, cantidad_anterior, cantidad_nueva, delta, unidad, notas, fecha, created_at
		FROM quantity_updates WHERE 1=1`
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

func (r *QuantityUpdateRepo) list(query string, args ...any) ([]*entity.QuantityUpdateRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quantity updates: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuantityUpdateRecord
	for rows.Next() {
		u, err := scanQuantityUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quantity update: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanQuantityUpdate(row pgx.Row) (*entity.QuantityUpdateRecord, error) {
	var u entity.QuantityUpdateRecord
	var notes *string
	err := row.Scan(&u.ID, &u.BatchID, &u.SiloID, &u.PreviousQuantity,
		&u.NewQuantity, &u.Delta, &u.Unit, &notes, &u.Date, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		u.Notes = *notes
	}
	return &u, nil
}
