package ports

import (
	"context"

	"github.com/agrofum/silos-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con los repositorios atados a una misma
// transacción del almacenamiento, con Commit si fn devuelve nil y Rollback en
// caso contrario. Es la frontera transaccional que elimina la ventana entre
// asiento en libro y mutación: el orden sigue siendo libro primero, pero ambos
// quedan dentro de la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
		updateRepo repository.QuantityUpdateRepository,
	) error) error
}
