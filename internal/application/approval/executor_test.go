package approval

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
)

// racePositionRepo emula una carrera de creación sobre una posición ausente:
// para las claves marcadas, la primera lectura FOR UPDATE ocurre antes de que
// otra transacción confirme la fila y devuelve nil; CreateIfAbsent espera ese
// commit sin escribir, y la relectura ya ve los valores de la ganadora.
type racePositionRepo struct {
	*memPositionRepo
	unseen map[string]bool
}

func (r *racePositionRepo) GetForUpdate(productID, warehouseID string) (*entity.StockPosition, error) {
	k := posKey(productID, warehouseID)
	if r.unseen[k] {
		delete(r.unseen, k)
		return nil, nil
	}
	return r.memPositionRepo.GetForUpdate(productID, warehouseID)
}

func raceEnv(t *testing.T) (*memStore, txRepos, *racePositionRepo) {
	t.Helper()
	store := newMemStore()
	store.products[testProductA] = &entity.Product{ID: testProductA, SKU: "SKU-A", Name: "Producto A", Cost: decimal.NewFromInt(10)}
	store.warehouses[testWarehouse1] = &entity.Warehouse{ID: testWarehouse1, Name: "Bodega Central"}
	store.warehouses[testWarehouse2] = &entity.Warehouse{ID: testWarehouse2, Name: "Bodega Norte"}

	positions := &racePositionRepo{
		memPositionRepo: &memPositionRepo{s: store},
		unseen:          map[string]bool{},
	}
	repos := txRepos{
		ledger:    &memLedgerRepo{s: store},
		positions: positions,
		products:  &memProductRepo{s: store},
		warehouse: &memWarehouseRepo{s: store},
	}
	return store, repos, positions
}

// Dos aprobaciones concurrentes pueden ver ausente la misma posición destino.
// La que pierde la carrera de creación debe aplicar su delta sobre los valores
// confirmados por la ganadora, no pisarlos con una fila en cero.
func TestExecutor_CreacionConcurrenteDeDestinoNoPierdeCantidades(t *testing.T) {
	store, repos, positions := raceEnv(t)

	// La transacción ganadora ya confirmó el destino con 10 unidades; la
	// nuestra lo leyó como ausente antes de ese commit.
	seedPosition(store, testProductA, testWarehouse2, 10)
	seedPosition(store, testProductA, testWarehouse1, 50)
	positions.unseen[posKey(testProductA, testWarehouse2)] = true

	req := &entity.StockMovementRequest{
		ID:   "req-1",
		Type: entity.RequestTypeTransfer,
		Transfer: &entity.TransferPayload{
			FromWarehouseID: testWarehouse1,
			ToWarehouseID:   testWarehouse2,
			Lines: []entity.TransferLine{
				{ProductID: testProductA, Quantity: decimal.NewFromInt(5)},
			},
		},
	}

	res, err := NewExecutor(Policy{}).Execute(req, repos, testAdminID, time.Now())
	require.NoError(t, err)
	require.Len(t, res.LedgerEntryIDs, 2)

	dst := store.positions[posKey(testProductA, testWarehouse2)]
	require.NotNil(t, dst)
	assert.True(t, dst.QuantityOnHand.Equal(decimal.NewFromInt(15)),
		"el destino debe acumular sobre los 10 confirmados, quedó %s", dst.QuantityOnHand)
	assert.True(t, store.positions[posKey(testProductA, testWarehouse1)].QuantityOnHand.Equal(decimal.NewFromInt(45)))
}

// Misma carrera en la creación perezosa de una entrada directa.
func TestExecutor_CreacionConcurrenteEnEntradaNoPierdeCantidades(t *testing.T) {
	store, repos, positions := raceEnv(t)

	seedPosition(store, testProductA, testWarehouse1, 10)
	positions.unseen[posKey(testProductA, testWarehouse1)] = true

	req := &entity.StockMovementRequest{
		ID:   "req-1",
		Type: entity.RequestTypeMovement,
		Movement: &entity.MovementPayload{
			ProductID:   testProductA,
			WarehouseID: testWarehouse1,
			Direction:   entity.DirectionIn,
			Quantity:    decimal.NewFromInt(50),
		},
	}

	res, err := NewExecutor(Policy{}).Execute(req, repos, testAdminID, time.Now())
	require.NoError(t, err)
	require.Len(t, res.PositionUpdates, 1)
	assert.True(t, res.PositionUpdates[0].QuantityOnHand.Equal(decimal.NewFromInt(60)),
		"la entrada debe sumar sobre los 10 confirmados, quedó %s", res.PositionUpdates[0].QuantityOnHand)
}
