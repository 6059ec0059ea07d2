package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockflow-pro/internal/application/approval"
	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
)

// ApprovalHandler expone la decisión approve/reject sobre solicitudes
// pendientes. El principal decidido viene del token, nunca de un estado
// ambiente.
type ApprovalHandler struct {
	uc *approval.DecideUseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *approval.DecideUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// Decide godoc
// @Summary      Aprobar o rechazar una solicitud de cambio de stock
// @Description  En approve ejecuta el movimiento: asienta el ledger y
//
//	actualiza posiciones de stock de forma atómica. En reject solo
//	transiciona el estado.
//
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la solicitud"
// @Param        body  body  dto.DecisionRequest  true  "action: approve | reject"
// @Success      200   {object}  dto.DecisionResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/decision [post]
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.DecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Decide(c.Context(), approval.DecisionInput{
		RequestID: c.Params("id"),
		DecidedBy: userID,
		Action:    in.Action,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(result)
}
