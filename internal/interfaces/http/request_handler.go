package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockflow-pro/internal/application/approval"
	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
)

// StockRequestHandler maneja la creación y consulta de solicitudes de cambio
// de stock (protegido).
type StockRequestHandler struct {
	uc *approval.StockRequestUseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *approval.StockRequestUseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

// Submit godoc
// @Summary      Crear solicitud de cambio de stock
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitStockRequest  true  "type (movement|transfer|adjustment) y payload según tipo"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Submit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SubmitStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Submit(c.Context(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
}

// GetByID godoc
// @Summary      Consultar una solicitud
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *StockRequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Success      200  {array}  dto.StockRequestResponse
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	reqs, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toRequestResponse(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

func toRequestResponse(req *entity.StockMovementRequest) dto.StockRequestResponse {
	var payload any
	switch req.Type {
	case entity.RequestTypeMovement:
		payload = req.Movement
	case entity.RequestTypeTransfer:
		payload = req.Transfer
	case entity.RequestTypeAdjustment:
		payload = req.Adjustment
	}
	return dto.StockRequestResponse{
		ID:          req.ID,
		Type:        req.Type,
		Status:      req.Status,
		Payload:     payload,
		RequestedBy: req.RequestedBy,
		ApprovedBy:  req.ApprovedBy,
		ApprovedAt:  req.ApprovedAt,
		Notes:       req.Notes,
		CreatedAt:   req.CreatedAt,
	}
}
