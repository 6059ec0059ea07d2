package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SubmitStockRequest cuerpo de creación de una solicitud de cambio de stock.
// Los campos usados dependen de type: movement usa product_id/warehouse_id/
// direction/quantity; transfer usa from/to_warehouse_id y lines; adjustment usa
// warehouse_id y lines. Lines se acepta en tres formas: arreglo JSON nativo,
// string con el arreglo serializado, u objeto único; el validador las normaliza.
type SubmitStockRequest struct {
	Type string `json:"type"` // movement | transfer | adjustment

	// movement
	ProductID   string           `json:"product_id,omitempty"`
	WarehouseID string           `json:"warehouse_id,omitempty"`
	LocationID  *string          `json:"location_id,omitempty"`
	Direction   string           `json:"direction,omitempty"` // in | out
	Quantity    decimal.Decimal  `json:"quantity,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`

	// transfer
	FromWarehouseID string `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string `json:"to_warehouse_id,omitempty"`

	// transfer | adjustment
	Lines json.RawMessage `json:"lines,omitempty"`

	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// DecisionRequest cuerpo de la decisión sobre una solicitud pendiente.
type DecisionRequest struct {
	Action string `json:"action"` // approve | reject
	Notes  string `json:"notes,omitempty"`
}

// PositionUpdate una posición de stock tal como quedó tras ejecutar la solicitud.
// Clamped indica que el modo de compatibilidad recortó el on-hand a cero y la
// posición diverge de la suma del ledger.
type PositionUpdate struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	Clamped           bool            `json:"clamped,omitempty"`
}

// SkippedLine una línea de lote omitida por producto desconocido (política best-effort).
type SkippedLine struct {
	LineIndex int    `json:"line_index"`
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// DecisionResult resultado de una decisión aprobada o rechazada.
type DecisionResult struct {
	RequestID       string           `json:"request_id"`
	Status          string           `json:"status"`
	LedgerEntryIDs  []string         `json:"ledger_entry_ids"`
	PositionUpdates []PositionUpdate `json:"position_updates"`
	SkippedLines    []SkippedLine    `json:"skipped_lines,omitempty"`
}

// StockRequestResponse vista de una solicitud para la API.
type StockRequestResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Payload     any        `json:"payload"`
	RequestedBy string     `json:"requested_by"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MovementResponse vista de un asiento del ledger para la API.
type MovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	LocationID  *string          `json:"location_id,omitempty"`
	Type        string           `json:"type"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Reference   string           `json:"reference"`
	RequestID   string           `json:"request_id"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

// PositionResponse vista de una posición de stock para la API.
type PositionResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	LocationID        *string         `json:"location_id,omitempty"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
