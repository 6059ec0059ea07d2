package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de solicitud de cambio de stock.
const (
	RequestTypeMovement   = "movement"   // entrada o salida directa
	RequestTypeTransfer   = "transfer"   // traslado entre bodegas, multi-línea
	RequestTypeAdjustment = "adjustment" // ajuste de conteo, multi-línea
)

// Estados de una solicitud. pending es el único estado mutable; approved y
// rejected son terminales (la solicitud nunca se elimina, es auditoría).
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Direcciones de un movimiento directo.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// MovementPayload datos de un movimiento directo (un solo producto/bodega).
type MovementPayload struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	LocationID  *string          `json:"location_id,omitempty"`
	Direction   string           `json:"direction"` // in | out
	Quantity    decimal.Decimal  `json:"quantity"`  // siempre positiva; el signo lo pone la dirección
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// TransferLine una línea de traslado ya normalizada.
type TransferLine struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLocationID *string         `json:"from_location_id,omitempty"`
	ToLocationID   *string         `json:"to_location_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// TransferPayload datos de un traslado entre bodegas.
type TransferPayload struct {
	FromWarehouseID string         `json:"from_warehouse_id"`
	ToWarehouseID   string         `json:"to_warehouse_id"`
	Lines           []TransferLine `json:"lines"`
	Reference       string         `json:"reference,omitempty"`
	Reason          string         `json:"reason,omitempty"`
}

// AdjustmentLine una línea de ajuste de conteo ya normalizada.
type AdjustmentLine struct {
	ProductID        string          `json:"product_id"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
	LocationID       *string         `json:"location_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// Difference devuelve actual - esperado; cero significa línea no-op.
func (l AdjustmentLine) Difference() decimal.Decimal {
	return l.ActualQuantity.Sub(l.ExpectedQuantity)
}

// AdjustmentPayload datos de un ajuste de inventario sobre una bodega.
type AdjustmentPayload struct {
	WarehouseID string           `json:"warehouse_id"`
	Lines       []AdjustmentLine `json:"lines"`
	Reference   string           `json:"reference,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// StockMovementRequest es una solicitud de cambio de stock pendiente de aprobación.
// El payload es una variante discriminada por Type: exactamente uno de Movement,
// Transfer o Adjustment es no-nulo. Una vez en estado terminal, payload y estado
// son inmutables.
type StockMovementRequest struct {
	ID          string
	Type        string // movement | transfer | adjustment
	Status      string // pending | approved | rejected
	Movement    *MovementPayload
	Transfer    *TransferPayload
	Adjustment  *AdjustmentPayload
	RequestedBy string
	ApprovedBy  *string
	ApprovedAt  *time.Time
	Notes       string
	CreatedAt   time.Time
}

// IsPending indica si la solicitud todavía puede decidirse.
func (r *StockMovementRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
