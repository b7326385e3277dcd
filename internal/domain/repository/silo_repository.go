package repository

import "github.com/agrofum/silos-api/internal/domain/entity"

// SiloRepository define el puerto de persistencia para Silo (DIP).
type SiloRepository interface {
	Create(silo *entity.Silo) error
	GetByID(id string) (*entity.Silo, error)
	GetByNumber(number int) (*entity.Silo, error)
	Update(silo *entity.Silo) error
	List(limit, offset int) ([]*entity.Silo, error)
	ListByClientEmail(email string, limit, offset int) ([]*entity.Silo, error)
	Delete(id string) error
	// MaxNumber devuelve el número de silo más alto registrado (0 si no hay silos).
	MaxNumber() (int, error)
}
