package repository

import (
	"time"

	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el ledger de
// inventario. Append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByRequest(requestID string) ([]*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
