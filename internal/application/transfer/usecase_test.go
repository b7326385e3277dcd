package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofum/silos-api/internal/application/apptest"
	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/transfer"
	"github.com/agrofum/silos-api/internal/domain"
	"github.com/agrofum/silos-api/internal/domain/entity"
	"github.com/agrofum/silos-api/internal/domain/grain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fixture arma dos silos (números 5 y 8) y un lote de 1000 t de maíz en el
// silo 5, y devuelve el caso de uso listo para transferir.
func fixture(t *testing.T) (*transfer.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	now := time.Now()

	require.NoError(t, store.Silos.Create(&entity.Silo{
		ID: "silo-5", Number: 5, Name: "Silo 5", Capacity: decimal.NewFromInt(2000),
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Silos.Create(&entity.Silo{
		ID: "silo-8", Number: 8, Name: "Silo 8", Capacity: decimal.NewFromInt(2000),
		CreatedAt: now, UpdatedAt: now,
	}))

	siloID := "silo-5"
	require.NoError(t, store.Batches.Create(&entity.GrainBatch{
		ID:         "batch-1",
		GrainLotID: "grano-1",
		SiloID:     &siloID,
		GrainType:  "maíz",
		Quantity:   decimal.NewFromInt(1000),
		Unit:       grain.UnitTonnes,
		EntryDate:  now.Add(-24 * time.Hour),
		Origin:     "Buenaventura",
		CreatedAt:  now, UpdatedAt: now,
	}))

	return transfer.NewUseCase(store, store.Silos), store
}

// totalTonnes suma todas las cantidades del almacén (asignadas o no).
func totalTonnes(t *testing.T, store *apptest.Store) decimal.Decimal {
	t.Helper()
	batches, err := store.Batches.List(0, 0)
	require.NoError(t, err)
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(grain.ToTonnes(b.Quantity, b.Unit))
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado parcial
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Parcial_DivideElLote(t *testing.T) {
	uc, store := fixture(t)

	out, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-8",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	assert.True(t, out.Partial, "mover menos del total debe ser parcial")
	assert.True(t, out.Moved.Equal(decimal.NewFromInt(400)))

	// El lote origen conserva su fila con la cantidad decrementada.
	origin, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)
	assert.True(t, origin.Quantity.Equal(decimal.NewFromInt(600)),
		"al origen deben quedarle 600 t")
	require.NotNil(t, origin.SiloID)
	assert.Equal(t, "silo-5", *origin.SiloID)

	// El descendiente es un lote nuevo en destino con el mismo grano_id.
	require.NotEqual(t, origin.ID, out.DestBatch.ID, "el descendiente debe tener ID propio")
	dest, err := store.Batches.GetByID(out.DestBatch.ID)
	require.NoError(t, err)
	assert.True(t, dest.Quantity.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "grano-1", dest.GrainLotID, "el grano_id se hereda")
	assert.Equal(t, "maíz", dest.GrainType)
	require.NotNil(t, dest.SiloID)
	assert.Equal(t, "silo-8", *dest.SiloID)

	// Conservación de masa: la suma global no cambia.
	assert.True(t, totalTonnes(t, store).Equal(decimal.NewFromInt(1000)),
		"un traslado no crea ni destruye grano")
}

func TestTransfer_Parcial_ExactamenteUnMovimiento(t *testing.T) {
	uc, store := fixture(t)

	out, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-8",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	require.Len(t, store.Movements.Records, 1, "un traslado asienta exactamente un movimiento")
	m := store.Movements.Records[0]
	assert.Equal(t, out.MovementID, m.ID)
	assert.Equal(t, "batch-1", m.BatchID, "el movimiento referencia al lote original")
	assert.Equal(t, 5, m.FromSilo)
	assert.Equal(t, 8, m.ToSilo)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, grain.UnitTonnes, m.Unit)
}

func TestTransfer_Parcial_DescendienteSinHistorialPropio(t *testing.T) {
	uc, store := fixture(t)

	out, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-8",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	// El movimiento quedó en el lote padre; el descendiente arranca sin asientos.
	descMoves, err := store.Movements.ListByBatch(out.DestBatch.ID)
	require.NoError(t, err)
	assert.Empty(t, descMoves, "el descendiente no hereda el libro del padre")
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado total y recorte
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Total_ReasignaLaMismaFila(t *testing.T) {
	uc, store := fixture(t)

	out, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-8",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	assert.False(t, out.Partial)
	assert.Equal(t, "batch-1", out.DestBatch.ID, "traslado total: misma fila, silo nuevo")

	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)
	require.NotNil(t, b.SiloID)
	assert.Equal(t, "silo-8", *b.SiloID)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(1000)), "la cantidad no cambia")

	all, err := store.Batches.List(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1, "un traslado total no crea filas nuevas")
	require.Len(t, store.Movements.Records, 1)
}

func TestTransfer_MontoMayorQueDisponible_SeRecorta(t *testing.T) {
	uc, store := fixture(t)

	out, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-8",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(5000), // hay 1000
	})
	require.NoError(t, err, "pedir de más no es un error, se recorta")

	// Recortado al total disponible: equivale a un traslado total.
	assert.False(t, out.Partial)
	assert.True(t, out.Moved.Equal(decimal.NewFromInt(1000)))

	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)
	require.NotNil(t, b.SiloID)
	assert.Equal(t, "silo-8", *b.SiloID)
	assert.True(t, totalTonnes(t, store).Equal(decimal.NewFromInt(1000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones y fallas rápidas
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MontoNoPositivo_Rechazado(t *testing.T) {
	uc, store := fixture(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := uc.Transfer(context.Background(), dto.TransferRequest{
			OriginSiloID: "silo-5",
			DestSiloID:   "silo-8",
			BatchID:      "batch-1",
			Amount:       amount,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Empty(t, store.Movements.Records, "un traslado rechazado no asienta nada")
}

func TestTransfer_OrigenIgualDestino_Rechazado(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-5",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_SiloInexistente_FallaSinEscribir(t *testing.T) {
	uc, store := fixture(t)

	_, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-5",
		DestSiloID:   "silo-99",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b, err := store.Batches.GetByID("batch-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(1000)), "el lote queda intacto")
	assert.Empty(t, store.Movements.Records)
}

func TestTransfer_LoteNoAsignadoAlOrigen_Rechazado(t *testing.T) {
	uc, store := fixture(t)

	// El lote vive en el silo 5 pero se pide trasladar desde el 8.
	_, err := uc.Transfer(context.Background(), dto.TransferRequest{
		OriginSiloID: "silo-8",
		DestSiloID:   "silo-5",
		BatchID:      "batch-1",
		Amount:       decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements.Records)
}
