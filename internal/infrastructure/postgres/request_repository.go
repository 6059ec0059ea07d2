package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

var _ repository.MovementRequestRepository = (*MovementRequestRepo)(nil)

// MovementRequestRepo implementación de MovementRequestRepository sobre
// PostgreSQL (usable con pool o tx). El payload se guarda como JSONB
// discriminado por request_type.
type MovementRequestRepo struct {
	q Querier
}

// NewMovementRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRequestRepository(q Querier) *MovementRequestRepo {
	return &MovementRequestRepo{q: q}
}

// Create persiste una solicitud nueva (estado pending).
func (r *MovementRequestRepo) Create(req *entity.StockMovementRequest) error {
	payload, err := marshalPayload(req)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stock_movement_requests (id, request_type, status, payload, requested_by, approved_by, approved_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		req.ID, req.Type, req.Status, payload, req.RequestedBy, req.ApprovedBy, req.ApprovedAt, req.Notes, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock request: %w", err)
	}
	return nil
}

const requestColumns = `id, request_type, status, payload, requested_by, approved_by, approved_at, notes, created_at`

// GetByID obtiene una solicitud por ID; (nil, nil) si no existe.
func (r *MovementRequestRepo) GetByID(id string) (*entity.StockMovementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_movement_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la solicitud y bloquea su fila (SELECT FOR UPDATE) para
// serializar decisores concurrentes.
func (r *MovementRequestRepo) GetForUpdate(id string) (*entity.StockMovementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_movement_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// List lista solicitudes, opcionalmente filtradas por estado.
func (r *MovementRequestRepo) List(status string, limit, offset int) ([]*entity.StockMovementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_movement_requests`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovementRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Transition es el compare-and-set de estado: exige el estado previo en el
// WHERE. Cero filas afectadas significa que otro decisor ganó la carrera (o el
// estado ya era terminal) y se reporta como ErrConflict.
func (r *MovementRequestRepo) Transition(id, fromStatus, toStatus, decidedBy, notes string, decidedAt time.Time) error {
	query := `
		UPDATE stock_movement_requests
		SET status = $1, approved_by = $2, approved_at = $3,
		    notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END
		WHERE id = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query, toStatus, decidedBy, decidedAt, notes, id, fromStatus)
	if err != nil {
		return fmt.Errorf("transition stock request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solicitud %s no está en estado %s: %w", id, fromStatus, domain.ErrConflict)
	}
	return nil
}

func (r *MovementRequestRepo) scanOne(row pgx.Row) (*entity.StockMovementRequest, error) {
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*entity.StockMovementRequest, error) {
	var req entity.StockMovementRequest
	var payload []byte
	if err := row.Scan(&req.ID, &req.Type, &req.Status, &payload,
		&req.RequestedBy, &req.ApprovedBy, &req.ApprovedAt, &req.Notes, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan stock request: %w", err)
	}
	if err := unmarshalPayload(&req, payload); err != nil {
		return nil, err
	}
	return &req, nil
}

func marshalPayload(req *entity.StockMovementRequest) ([]byte, error) {
	var v any
	switch req.Type {
	case entity.RequestTypeMovement:
		v = req.Movement
	case entity.RequestTypeTransfer:
		v = req.Transfer
	case entity.RequestTypeAdjustment:
		v = req.Adjustment
	default:
		return nil, fmt.Errorf("tipo de solicitud %q: %w", req.Type, domain.ErrInvalidInput)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return payload, nil
}

func unmarshalPayload(req *entity.StockMovementRequest, payload []byte) error {
	switch req.Type {
	case entity.RequestTypeMovement:
		req.Movement = &entity.MovementPayload{}
		return unmarshalInto(payload, req.Movement)
	case entity.RequestTypeTransfer:
		req.Transfer = &entity.TransferPayload{}
		return unmarshalInto(payload, req.Transfer)
	case entity.RequestTypeAdjustment:
		req.Adjustment = &entity.AdjustmentPayload{}
		return unmarshalInto(payload, req.Adjustment)
	default:
		return fmt.Errorf("tipo de solicitud %q: %w", req.Type, domain.ErrInvalidInput)
	}
}

func unmarshalInto(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}
