package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// InventoryHandler vistas de solo lectura sobre el ledger y las posiciones
// (protegido). Nunca escribe: el único escritor de estas tablas es el motor
// de aprobaciones.
type InventoryHandler struct {
	ledgerRepo   repository.StockMovementRepository
	positionRepo repository.StockPositionRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledgerRepo repository.StockMovementRepository, positionRepo repository.StockPositionRepository) *InventoryHandler {
	return &InventoryHandler{ledgerRepo: ledgerRepo, positionRepo: positionRepo}
}

// ListMovements godoc
// @Summary      Historial de movimientos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        product_id    query  string  false  "Filtrar por producto (si no hay bodega)"
// @Param        from          query  string  false  "Fecha inicial (RFC3339)"
// @Param        to            query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "to debe ser RFC3339"})
	}

	var movements []*entity.StockMovement
	switch {
	case c.Query("warehouse_id") != "":
		movements, err = h.ledgerRepo.ListByWarehouse(c.Query("warehouse_id"), from, to, limit, offset)
	case c.Query("product_id") != "":
		movements, err = h.ledgerRepo.ListByProduct(c.Query("product_id"), from, to, limit, offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "warehouse_id o product_id requerido"})
	}
	if err != nil {
		return respondDomainError(c, err)
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			LocationID:  m.LocationID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			UnitCost:    m.UnitCost,
			Reason:      m.Reason,
			Reference:   m.Reference,
			RequestID:   m.RequestID,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ListStock godoc
// @Summary      Posiciones de stock actuales de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {array}  dto.PositionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "warehouse_id requerido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	positions, err := h.positionRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, dto.PositionResponse{
			ProductID:         p.ProductID,
			WarehouseID:       p.WarehouseID,
			LocationID:        p.LocationID,
			QuantityOnHand:    p.QuantityOnHand,
			QuantityAvailable: p.QuantityAvailable,
			QuantityReserved:  p.QuantityReserved,
			UpdatedAt:         p.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "positions": out})
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
