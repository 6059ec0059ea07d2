package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// El stock por bodega se maneja en StockPosition, no aquí.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Cost        decimal.Decimal // costo unitario de referencia
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
