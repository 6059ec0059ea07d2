package approval

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// StockRequestUseCase intake y consulta de solicitudes. La validación corre en
// la creación (rechazo temprano de payloads malformados) y se repite en la
// aprobación.
type StockRequestUseCase struct {
	requestRepo repository.MovementRequestRepository
}

// NewStockRequestUseCase construye el caso de uso de solicitudes.
func NewStockRequestUseCase(requestRepo repository.MovementRequestRepository) *StockRequestUseCase {
	return &StockRequestUseCase{requestRepo: requestRepo}
}

// Submit normaliza, valida y persiste una solicitud en estado pending.
func (uc *StockRequestUseCase) Submit(ctx context.Context, requestedBy string, in dto.SubmitStockRequest) (*entity.StockMovementRequest, error) {
	req, err := NormalizeSubmit(in, requestedBy)
	if err != nil {
		return nil, err
	}
	if err := uc.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID devuelve una solicitud o ErrNotFound.
func (uc *StockRequestUseCase) GetByID(ctx context.Context, id string) (*entity.StockMovementRequest, error) {
	req, err := uc.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud %s: %w", id, domain.ErrNotFound)
	}
	return req, nil
}

// List devuelve solicitudes, opcionalmente filtradas por estado.
func (uc *StockRequestUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.StockMovementRequest, error) {
	if status != "" &&
		status != entity.RequestStatusPending &&
		status != entity.RequestStatusApproved &&
		status != entity.RequestStatusRejected {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.requestRepo.List(status, limit, offset)
}
