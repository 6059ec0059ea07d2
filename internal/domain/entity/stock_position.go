package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition es la fila materializada de stock actual por (producto, bodega).
// LocationID es un atributo, no parte de la clave (una ubicación por bodega).
// Solo el ejecutor de movimientos la crea o muta; nunca se elimina.
type StockPosition struct {
	ProductID         string
	WarehouseID       string
	LocationID        *string
	QuantityOnHand    decimal.Decimal
	QuantityAvailable decimal.Decimal
	QuantityReserved  decimal.Decimal
	UpdatedAt         time.Time
}

// NewStockPosition crea una posición vacía para un par producto/bodega.
func NewStockPosition(productID, warehouseID string, locationID *string, now time.Time) *StockPosition {
	return &StockPosition{
		ProductID:         productID,
		WarehouseID:       warehouseID,
		LocationID:        locationID,
		QuantityOnHand:    decimal.Zero,
		QuantityAvailable: decimal.Zero,
		QuantityReserved:  decimal.Zero,
		UpdatedAt:         now,
	}
}

// RecomputeAvailable aplica el invariante available = max(0, onHand - reserved).
func (p *StockPosition) RecomputeAvailable() {
	avail := p.QuantityOnHand.Sub(p.QuantityReserved)
	if avail.LessThan(decimal.Zero) {
		avail = decimal.Zero
	}
	p.QuantityAvailable = avail
}
