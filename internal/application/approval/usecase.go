package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
	"github.com/tu-usuario/stockflow-pro/pkg/logger"
)

// Acciones de decisión sobre una solicitud pendiente.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// DecisionInput entrada del orquestador. DecidedBy es el principal autenticado,
// pasado explícitamente: el núcleo no lee sesión ambiente.
type DecisionInput struct {
	RequestID string
	DecidedBy string
	Action    string // approve | reject
	Notes     string
}

// DecideUseCase orquesta la decisión sobre una solicitud de cambio de stock:
// autorizar → cargar (FOR UPDATE) → revalidar → ejecutar → transición de
// estado, todo dentro de una transacción. Es el único escritor del estado de
// la solicitud.
type DecideUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	executor *Executor
	log      *logger.Logger
}

// NewDecideUseCase construye el orquestador de aprobaciones.
func NewDecideUseCase(txRunner TxRunner, userRepo repository.UserRepository, executor *Executor, log *logger.Logger) *DecideUseCase {
	return &DecideUseCase{txRunner: txRunner, userRepo: userRepo, executor: executor, log: log}
}

// Decide aplica approve o reject sobre una solicitud pendiente.
//
// La autorización corre antes de leer cualquier dato de la solicitud: un
// principal inexistente recibe ErrNotFound y uno sin rol suficiente
// ErrForbidden, en ambos casos sin efecto alguno. Dentro de la transacción la
// fila de la solicitud se bloquea y se verifica pending (ErrConflict si otro
// decisor ganó la carrera); la transición final es un compare-and-set sobre el
// estado previo, así que una doble aprobación concurrente ejecuta exactamente
// una vez.
func (uc *DecideUseCase) Decide(ctx context.Context, in DecisionInput) (*dto.DecisionResult, error) {
	if in.Action != ActionApprove && in.Action != ActionReject {
		return nil, fmt.Errorf("acción %q: %w", in.Action, domain.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByID(in.DecidedBy)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("principal %s: %w", in.DecidedBy, domain.ErrNotFound)
	}
	if !entity.CanApprove(user.Role) {
		return nil, fmt.Errorf("rol %q no puede aprobar: %w", user.Role, domain.ErrForbidden)
	}

	var result *dto.DecisionResult
	err = uc.txRunner.Run(ctx, func(
		requestRepo repository.MovementRequestRepository,
		ledgerRepo repository.StockMovementRepository,
		positionRepo repository.StockPositionRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		req, err := requestRepo.GetForUpdate(in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("solicitud %s: %w", in.RequestID, domain.ErrNotFound)
		}
		if !req.IsPending() {
			return fmt.Errorf("solicitud %s en estado %s: %w", req.ID, req.Status, domain.ErrConflict)
		}

		now := time.Now()

		if in.Action == ActionReject {
			if err := requestRepo.Transition(req.ID, entity.RequestStatusPending, entity.RequestStatusRejected, in.DecidedBy, in.Notes, now); err != nil {
				return err
			}
			result = &dto.DecisionResult{
				RequestID:       req.ID,
				Status:          entity.RequestStatusRejected,
				LedgerEntryIDs:  []string{},
				PositionUpdates: []dto.PositionUpdate{},
			}
			return nil
		}

		// Revalidar: el payload pudo ser válido al crearse y no serlo ya.
		if err := ValidateRequest(req); err != nil {
			return err
		}

		execRes, err := uc.executor.Execute(req, txRepos{
			ledger:    ledgerRepo,
			positions: positionRepo,
			products:  productRepo,
			warehouse: warehouseRepo,
		}, in.DecidedBy, now)
		if err != nil {
			return err
		}

		// La transición solo se escribe si la ejecución completa tuvo éxito;
		// el CAS vuelve a exigir pending por si otra tx ya decidió.
		if err := requestRepo.Transition(req.ID, entity.RequestStatusPending, entity.RequestStatusApproved, in.DecidedBy, in.Notes, now); err != nil {
			return err
		}

		result = &dto.DecisionResult{
			RequestID:       req.ID,
			Status:          entity.RequestStatusApproved,
			LedgerEntryIDs:  execRes.LedgerEntryIDs,
			PositionUpdates: execRes.PositionUpdates,
			SkippedLines:    execRes.SkippedLines,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().
		Str("request_id", result.RequestID).
		Str("status", result.Status).
		Str("decided_by", in.DecidedBy).
		Int("ledger_entries", len(result.LedgerEntryIDs))
	if len(result.SkippedLines) > 0 {
		ev.Int("skipped_lines", len(result.SkippedLines))
	}
	ev.Msg("solicitud de stock decidida")

	for _, upd := range result.PositionUpdates {
		if upd.Clamped {
			// Divergencia ledger/posición: debe quedar rastro en los logs.
			uc.log.Warn().
				Str("request_id", result.RequestID).
				Str("product_id", upd.ProductID).
				Str("warehouse_id", upd.WarehouseID).
				Msg("on-hand recortado a cero; posición diverge de la suma del ledger")
		}
	}

	return result, nil
}
