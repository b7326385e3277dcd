package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrofum/silos-api/pkg/logger"
)

// Canal de notificaciones de cambio. Los triggers de la base emiten NOTIFY en
// este canal tras escribir en silos o grain_batches (ver migrations).
const ChangeChannel = "silos_changed"

// ChangeListener escucha NOTIFY de PostgreSQL y dispara el callback de
// refresco. La invalidación es de grano grueso: cualquier cambio provoca una
// re-agregación completa en la próxima lectura, aceptable con decenas de silos
// y cientos de lotes.
type ChangeListener struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewChangeListener construye el listener.
func NewChangeListener(pool *pgxpool.Pool, log *logger.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, log: log}
}

// Listen bloquea escuchando el canal y llama onChange por cada notificación.
// Ante un error de conexión reintenta con espera fija hasta que el contexto se
// cancele. Pensado para correr en su propia goroutine.
func (l *ChangeListener) Listen(ctx context.Context, onChange func()) {
	for {
		if err := l.listenOnce(ctx, onChange); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn().Err(err).Msg("listener de cambios desconectado, reintentando")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (l *ChangeListener) listenOnce(ctx context.Context, onChange func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listen %s: %w", ChangeChannel, err)
	}
	l.log.Info().Str("channel", ChangeChannel).Msg("escuchando notificaciones de cambio")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.log.Debug().Str("payload", notification.Payload).Msg("cambio notificado, refrescando agregados")
		onChange()
	}
}
