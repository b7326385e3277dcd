package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofum/silos-api/internal/application/apptest"
	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/history"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/grain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseDate = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// fixture arma tres silos (3, 5 y 7) y un lote que entró al 5, con apptest
// como almacenamiento.
func fixture(t *testing.T) (*history.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	for _, s := range []struct {
		id  string
		num int
	}{{"silo-3", 3}, {"silo-5", 5}, {"silo-7", 7}} {
		require.NoError(t, store.Silos.Create(&entity.Silo{
			ID: s.id, Number: s.num,
			Capacity: decimal.NewFromInt(2000), CreatedAt: baseDate, UpdatedAt: baseDate,
		}))
	}
	siloID := "silo-3"
	require.NoError(t, store.Batches.Create(&entity.GrainBatch{
		ID:         "batch-1",
		GrainLotID: "grano-1",
		SiloID:     &siloID,
		GrainType:  "maíz",
		Quantity:   decimal.NewFromInt(300),
		Unit:       grain.UnitTonnes,
		EntryDate:  baseDate,
		Origin:     "Buenaventura",
		CreatedAt:  baseDate, UpdatedAt: baseDate,
	}))
	uc := history.NewUseCase(store.Silos, store.Batches, store.Movements, store.Updates, nil, nil)
	return uc, store
}

func addMovement(t *testing.T, store *apptest.Store, from, to int, offset time.Duration) {
	t.Helper()
	require.NoError(t, store.Movements.Create(&entity.MovementRecord{
		ID: "mov-" + offset.String(), BatchID: "batch-1",
		FromSilo: from, ToSilo: to,
		Quantity: decimal.NewFromInt(100), Unit: grain.UnitTonnes,
		Date: baseDate.Add(offset),
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivación del silo de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestEntrySilo_ConMovimientos_EsElOrigenDelMasAntiguo(t *testing.T) {
	uc, store := fixture(t)

	// El lote entró al 5, luego 5→7 y 7→3. Su silo actual es el 3, pero la
	// entrada debe atribuirse al 5.
	addMovement(t, store, 5, 7, 1*time.Hour)
	addMovement(t, store, 7, 3, 2*time.Hour)

	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)
	movements, err := store.Movements.ListByBatch("batch-1")
	require.NoError(t, err)

	entrySilo, err := uc.EntrySilo(b, movements)
	require.NoError(t, err)
	assert.Equal(t, 5, entrySilo, "el silo de entrada es el origen del movimiento más antiguo")
}

func TestEntrySilo_SinMovimientos_EsElSiloActual(t *testing.T) {
	uc, store := fixture(t)

	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)

	entrySilo, err := uc.EntrySilo(b, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, entrySilo, "sin movimientos, el lote entró donde está")
}

func TestEntrySilo_DespachadoSinMovimientos_Desconocido(t *testing.T) {
	uc, store := fixture(t)

	_, err := store.Batches.UnassignBySilo("silo-3")
	require.NoError(t, err)
	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)

	entrySilo, err := uc.EntrySilo(b, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, entrySilo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial por lote
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchHistory_OrdenDescendente(t *testing.T) {
	uc, store := fixture(t)
	addMovement(t, store, 3, 5, 1*time.Hour)
	require.NoError(t, store.Updates.Create(&entity.QuantityUpdateRecord{
		ID: "upd-1", BatchID: "batch-1", SiloID: "silo-5",
		PreviousQuantity: decimal.NewFromInt(300),
		NewQuantity:      decimal.NewFromInt(280),
		Delta:            decimal.NewFromInt(-20),
		Unit:             grain.UnitTonnes,
		Date:             baseDate.Add(2 * time.Hour),
	}))

	out, err := uc.BatchHistory(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Equal(t, 3, out.Total, "entrada + movimiento + corrección")

	assert.Equal(t, dto.EventQuantityUpdate, out.Events[0].Kind, "lo más reciente primero")
	assert.Equal(t, dto.EventMovement, out.Events[1].Kind)
	assert.Equal(t, dto.EventEntry, out.Events[2].Kind)
	for i := 1; i < len(out.Events); i++ {
		assert.False(t, out.Events[i-1].Timestamp.Before(out.Events[i].Timestamp),
			"los eventos deben ir de más reciente a más antiguo")
	}
}

func TestBatchHistory_LoteInexistente(t *testing.T) {
	uc, _ := fixture(t)
	_, err := uc.BatchHistory(context.Background(), "batch-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Feed global y filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestFeed_FiltraPorSilo(t *testing.T) {
	uc, store := fixture(t)
	addMovement(t, store, 3, 5, 1*time.Hour)
	addMovement(t, store, 5, 7, 2*time.Hour)

	out, err := uc.Feed(context.Background(), dto.HistoryFilter{SiloNumber: 7})
	require.NoError(t, err)

	require.Equal(t, 1, out.Total, "solo el movimiento 5→7 involucra al silo 7")
	require.NotNil(t, out.Events[0].Movement)
	assert.Equal(t, 7, out.Events[0].Movement.ToSilo)
}

func TestFeed_FiltraPorSilo_IncluyeCorrecciones(t *testing.T) {
	uc, store := fixture(t)
	addMovement(t, store, 3, 5, 1*time.Hour)
	require.NoError(t, store.Updates.Create(&entity.QuantityUpdateRecord{
		ID: "upd-1", BatchID: "batch-1", SiloID: "silo-5",
		PreviousQuantity: decimal.NewFromInt(300),
		NewQuantity:      decimal.NewFromInt(280),
		Delta:            decimal.NewFromInt(-20),
		Unit:             grain.UnitTonnes,
		Date:             baseDate.Add(2 * time.Hour),
	}))

	out, err := uc.Feed(context.Background(), dto.HistoryFilter{SiloNumber: 5})
	require.NoError(t, err)

	// El movimiento 3→5 y la corrección asentada en el silo 5; la entrada fue
	// en el 3 y queda fuera.
	require.Equal(t, 2, out.Total)
	require.NotNil(t, out.Events[0].Update)
	assert.Equal(t, 5, out.Events[0].Update.SiloNumber,
		"la corrección lleva el número del silo donde se asentó")
	require.NotNil(t, out.Events[1].Movement)
	assert.Equal(t, 5, out.Events[1].Movement.ToSilo)
}

func TestFeed_FiltraPorTipoDeGrano(t *testing.T) {
	uc, store := fixture(t)
	siloID := "silo-5"
	require.NoError(t, store.Batches.Create(&entity.GrainBatch{
		ID: "batch-2", GrainLotID: "grano-2", SiloID: &siloID,
		GrainType: "trigo", Quantity: decimal.NewFromInt(100),
		Unit: grain.UnitTonnes, EntryDate: baseDate.Add(time.Hour),
		CreatedAt: baseDate, UpdatedAt: baseDate,
	}))

	out, err := uc.Feed(context.Background(), dto.HistoryFilter{GrainType: "TRIGO"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total, "el filtro por tipo no distingue mayúsculas")
	assert.Equal(t, "batch-2", out.Events[0].BatchID)
}

func TestFeed_BusquedaLibre(t *testing.T) {
	uc, _ := fixture(t)

	out, err := uc.Feed(context.Background(), dto.HistoryFilter{Query: "buenaventura"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total, "la búsqueda cubre el origen del lote")

	out, err = uc.Feed(context.Background(), dto.HistoryFilter{Query: "no-existe"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
}

func TestFeed_Limite(t *testing.T) {
	uc, store := fixture(t)
	addMovement(t, store, 3, 5, 1*time.Hour)
	addMovement(t, store, 5, 7, 2*time.Hour)

	out, err := uc.Feed(context.Background(), dto.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, dto.EventMovement, out.Events[0].Kind,
		"el límite recorta por el final: quedan los más recientes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Feed de fumigación
// ──────────────────────────────────────────────────────────────────────────────

// stubFeed implementa ports.TreatmentFeed para los tests.
type stubFeed struct {
	events []*entity.TreatmentEvent
	err    error
}

func (s *stubFeed) ListByBatch(_ context.Context, _ string) ([]*entity.TreatmentEvent, error) {
	return s.events, s.err
}

func (s *stubFeed) List(_ context.Context) ([]*entity.TreatmentEvent, error) {
	return s.events, s.err
}

func TestBatchHistory_IncluyeTratamientos(t *testing.T) {
	_, store := fixture(t)
	feed := &stubFeed{events: []*entity.TreatmentEvent{{
		ID: "tr-1", BatchID: "batch-1", Product: "fosfina",
		Dose: "2 g/m3", Date: baseDate.Add(3 * time.Hour),
	}}}
	uc := history.NewUseCase(store.Silos, store.Batches, store.Movements, store.Updates, feed, nil)

	out, err := uc.BatchHistory(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, dto.EventTreatment, out.Events[0].Kind)
	assert.Equal(t, "fosfina", out.Events[0].Treatment.Product)
}

func TestBatchHistory_FeedCaido_DegradaSinError(t *testing.T) {
	_, store := fixture(t)
	feed := &stubFeed{err: errors.New("timeout")}
	uc := history.NewUseCase(store.Silos, store.Batches, store.Movements, store.Updates, feed, nil)

	out, err := uc.BatchHistory(context.Background(), "batch-1")
	require.NoError(t, err, "el feed caído no invalida el resto del historial")
	assert.Equal(t, 1, out.Total, "queda solo la entrada del lote")
}
