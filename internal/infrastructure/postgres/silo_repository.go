package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/repository"
)

var _ repository.SiloRepository = (*SiloRepo)(nil)

// SiloRepo implementación del puerto SiloRepository sobre PostgreSQL.
type SiloRepo struct {
	q Querier
}

// NewSiloRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiloRepository(q Querier) *SiloRepo {
	return &SiloRepo{q: q}
}

// Create persiste un silo nuevo.
func (r *SiloRepo) Create(silo *entity.Silo) error {
	query := `
		INSERT INTO silos (id, numero, nombre, capacidad, cliente_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		silo.ID, silo.Number, silo.Name, silo.Capacity,
		nullable(silo.ClientEmail), silo.CreatedAt, silo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert silo: %w", err)
	}
	return nil
}

// GetByID obtiene un silo por ID.
func (r *SiloRepo) GetByID(id string) (*entity.Silo, error) {
	return r.getOne(`SELECT id, numero, nombre, capacidad, cliente_email, created_at, updated_at
		FROM silos WHERE id = $1`, id)
}

// GetByNumber obtiene un silo por su número secuencial.
func (r *SiloRepo) GetByNumber(number int) (*entity.Silo, error) {
	return r.getOne(`SELECT id, numero, nombre, capacidad, cliente_email, created_at, updated_at
		FROM silos WHERE numero = $1`, number)
}

func (r *SiloRepo) getOne(query string, arg any) (*entity.Silo, error) {
	var s entity.Silo
	var name, email *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.Number, &name, &s.Capacity, &email, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get silo: %w", err)
	}
	if name != nil {
		s.Name = *name
	}
	if email != nil {
		s.ClientEmail = *email
	}
	return &s, nil
}

// Update actualiza un silo existente.
func (r *SiloRepo) Update(silo *entity.Silo) error {
	query := `
		UPDATE silos SET nombre = $2, capacidad = $3, cliente_email = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		silo.ID, silo.Name, silo.Capacity, nullable(silo.ClientEmail), silo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update silo: %w", err)
	}
	return nil
}

// List lista silos ordenados por número con paginación.
func (r *SiloRepo) List(limit, offset int) ([]*entity.Silo, error) {
	query := `
		SELECT id, numero, nombre, capacidad, cliente_email, created_at, updated_at
		FROM silos ORDER BY numero LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByClientEmail lista los silos de un cliente (filtrado de acceso no admin).
func (r *SiloRepo) ListByClientEmail(email string, limit, offset int) ([]*entity.Silo, error) {
	query := `
		SELECT id, numero, nombre, capacidad, cliente_email, created_at, updated_at
		FROM silos WHERE cliente_email = $1 ORDER BY numero LIMIT $2 OFFSET $3`
	return r.list(query, email, limit, offset)
}

func (r *SiloRepo) list(query string, args ...any) ([]*entity.Silo, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list silos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Silo
	for rows.Next() {
		var s entity.Silo
		var name, email *string
		if err := rows.Scan(&s.ID, &s.Number, &name, &s.Capacity, &email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan silo: %w", err)
		}
		if name != nil {
			s.Name = *name
		}
		if email != nil {
			s.ClientEmail = *email
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un silo por ID. Los lotes se desasignan antes en el caso de
// uso; aquí no hay cascada.
func (r *SiloRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM silos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete silo: %w", err)
	}
	return nil
}

// MaxNumber devuelve el número de silo más alto registrado (0 si no hay silos).
func (r *SiloRepo) MaxNumber() (int, error) {
	var max int
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(numero), 0) FROM silos`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max silo number: %w", err)
	}
	return max, nil
}

// nullable devuelve nil para cadenas vacías (columnas NULL).
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
