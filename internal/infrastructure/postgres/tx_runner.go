package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stockflow-pro/internal/application/approval"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// Ensure TxRunner implements approval.TxRunner.
var _ approval.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la frontera de atomicidad del motor de aprobaciones:
// asientos, posiciones y transición de estado se confirman juntos o ninguno.
func (r *TxRunner) Run(ctx context.Context, fn func(
	requestRepo repository.MovementRequestRepository,
	ledgerRepo repository.StockMovementRepository,
	positionRepo repository.StockPositionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	requestRepo := NewMovementRequestRepository(tx)
	ledgerRepo := NewStockMovementRepository(tx)
	positionRepo := NewStockPositionRepository(tx)
	productRepo := NewProductRepository(tx)
	warehouseRepo := NewWarehouseRepository(tx)

	if err := fn(requestRepo, ledgerRepo, positionRepo, productRepo, warehouseRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
