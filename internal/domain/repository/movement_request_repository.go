package repository

import (
	"time"

	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
)

// MovementRequestRepository define el puerto de persistencia para solicitudes
// de cambio de stock (DIP). Transition es un compare-and-set sobre el estado
// previo: si la fila no está en fromStatus devuelve domain.ErrConflict, lo que
// impide que dos aprobaciones concurrentes ejecuten la misma solicitud.
type MovementRequestRepository interface {
	Create(req *entity.StockMovementRequest) error
	GetByID(id string) (*entity.StockMovementRequest, error)
	// GetForUpdate bloquea la fila de la solicitud (SELECT FOR UPDATE) para
	// serializar decisores concurrentes dentro de la transacción.
	GetForUpdate(id string) (*entity.StockMovementRequest, error)
	List(status string, limit, offset int) ([]*entity.StockMovementRequest, error)
	Transition(id, fromStatus, toStatus, decidedBy, notes string, decidedAt time.Time) error
}
