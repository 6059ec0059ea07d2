package approval

import (
	"context"

	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la secuencia completa
// "validar → N asientos de ledger → M posiciones → transición de estado"
// se confirma o revierte como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requestRepo repository.MovementRequestRepository,
		ledgerRepo repository.StockMovementRepository,
		positionRepo repository.StockPositionRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}
