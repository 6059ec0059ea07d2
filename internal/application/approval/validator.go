package approval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
)

// NormalizeSubmit convierte el cuerpo externo de una solicitud en la entidad
// canónica según su tipo. Las listas de líneas llegan en tres formas aceptadas
// (arreglo JSON, string con el arreglo serializado, u objeto único) y aquí se
// normalizan a una sola secuencia ordenada; cualquier otra forma falla con
// domain.ErrInvalidInput. Esta es la única frontera de normalización: el resto
// del motor solo ve payloads canónicos.
func NormalizeSubmit(in dto.SubmitStockRequest, requestedBy string) (*entity.StockMovementRequest, error) {
	req := &entity.StockMovementRequest{
		ID:          uuid.New().String(),
		Type:        in.Type,
		Status:      entity.RequestStatusPending,
		RequestedBy: requestedBy,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}

	switch in.Type {
	case entity.RequestTypeMovement:
		req.Movement = &entity.MovementPayload{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			LocationID:  in.LocationID,
			Direction:   in.Direction,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Reason:      in.Reason,
			Reference:   in.Reference,
		}
	case entity.RequestTypeTransfer:
		lines, err := decodeLines[entity.TransferLine](in.Lines)
		if err != nil {
			return nil, err
		}
		req.Transfer = &entity.TransferPayload{
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			Lines:           lines,
			Reference:       in.Reference,
			Reason:          in.Reason,
		}
	case entity.RequestTypeAdjustment:
		lines, err := decodeLines[entity.AdjustmentLine](in.Lines)
		if err != nil {
			return nil, err
		}
		req.Adjustment = &entity.AdjustmentPayload{
			WarehouseID: in.WarehouseID,
			Lines:       lines,
			Reference:   in.Reference,
			Reason:      in.Reason,
		}
	default:
		return nil, fmt.Errorf("tipo de solicitud %q: %w", in.Type, domain.ErrInvalidInput)
	}

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeLines acepta las tres formas externas de una lista de líneas y devuelve
// la secuencia canónica: arreglo JSON nativo, string que contiene el arreglo
// serializado, u objeto único (una sola línea).
func decodeLines[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("lines requerido: %w", domain.ErrInvalidInput)
	}

	switch trimmed[0] {
	case '[':
		var lines []T
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, fmt.Errorf("lines no parseable: %w", domain.ErrInvalidInput)
		}
		return lines, nil
	case '{':
		var single T
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("lines no parseable: %w", domain.ErrInvalidInput)
		}
		return []T{single}, nil
	case '"':
		// Forma legacy: la lista viene serializada dentro de un string JSON.
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("lines no parseable: %w", domain.ErrInvalidInput)
		}
		return decodeLines[T]([]byte(inner))
	default:
		return nil, fmt.Errorf("forma de lines no soportada: %w", domain.ErrInvalidInput)
	}
}

// ValidateRequest aplica la validación estructural y de negocio por tipo sobre
// un payload ya canónico. Se ejecuta al crear la solicitud y de nuevo al
// aprobarla (el mundo puede haber cambiado desde el envío).
func ValidateRequest(req *entity.StockMovementRequest) error {
	switch req.Type {
	case entity.RequestTypeMovement:
		return validateMovement(req.Movement)
	case entity.RequestTypeTransfer:
		return validateTransfer(req.Transfer)
	case entity.RequestTypeAdjustment:
		return validateAdjustment(req.Adjustment)
	default:
		return fmt.Errorf("tipo de solicitud %q: %w", req.Type, domain.ErrInvalidInput)
	}
}

func validateMovement(p *entity.MovementPayload) error {
	if p == nil {
		return fmt.Errorf("payload movement ausente: %w", domain.ErrInvalidInput)
	}
	if p.ProductID == "" || p.WarehouseID == "" {
		return fmt.Errorf("product_id y warehouse_id requeridos: %w", domain.ErrInvalidInput)
	}
	if p.Direction != entity.DirectionIn && p.Direction != entity.DirectionOut {
		return fmt.Errorf("direction debe ser in u out: %w", domain.ErrInvalidInput)
	}
	if !p.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("quantity debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if p.UnitCost != nil && p.UnitCost.LessThan(decimal.Zero) {
		return fmt.Errorf("unit_cost no puede ser negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

func validateTransfer(p *entity.TransferPayload) error {
	if p == nil {
		return fmt.Errorf("payload transfer ausente: %w", domain.ErrInvalidInput)
	}
	if p.FromWarehouseID == "" || p.ToWarehouseID == "" {
		return fmt.Errorf("from_warehouse_id y to_warehouse_id requeridos: %w", domain.ErrInvalidInput)
	}
	if p.FromWarehouseID == p.ToWarehouseID {
		return fmt.Errorf("bodega origen y destino deben diferir: %w", domain.ErrInvalidInput)
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("transfer sin líneas: %w", domain.ErrInvalidInput)
	}
	for i, line := range p.Lines {
		if line.ProductID == "" {
			return fmt.Errorf("línea %d sin product_id: %w", i, domain.ErrInvalidInput)
		}
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("línea %d: quantity debe ser positiva: %w", i, domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateAdjustment(p *entity.AdjustmentPayload) error {
	if p == nil {
		return fmt.Errorf("payload adjustment ausente: %w", domain.ErrInvalidInput)
	}
	if p.WarehouseID == "" {
		return fmt.Errorf("warehouse_id requerido: %w", domain.ErrInvalidInput)
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("adjustment sin líneas: %w", domain.ErrInvalidInput)
	}
	for i, line := range p.Lines {
		if line.ProductID == "" {
			return fmt.Errorf("línea %d sin product_id: %w", i, domain.ErrInvalidInput)
		}
		if line.ExpectedQuantity.LessThan(decimal.Zero) || line.ActualQuantity.LessThan(decimal.Zero) {
			return fmt.Errorf("línea %d: cantidades no pueden ser negativas: %w", i, domain.ErrInvalidInput)
		}
	}
	return nil
}
