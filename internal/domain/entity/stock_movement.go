package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento en el ledger de inventario.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeTransfer   = "transfer"
	MovementTypeAdjustment = "adjustment"
)

// StockMovement es un asiento inmutable del ledger: un cambio de cantidad con
// signo para un (producto, bodega, ubicación). Invariante central: la suma de
// Quantity por triple debe igualar el on-hand actual en StockPosition.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	LocationID  *string
	Type        string          // in, out, transfer, adjustment
	Quantity    decimal.Decimal // positivo aumenta, negativo disminuye
	UnitCost    *decimal.Decimal
	Reason      string
	Reference   string // clave de correlación: agrupa los asientos de una misma operación
	RequestID   string
	CreatedBy   string
	CreatedAt   time.Time
}
