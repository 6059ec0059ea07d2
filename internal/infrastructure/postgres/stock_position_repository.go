package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL
// (usable con pool o tx). La ausencia de fila se reporta como (nil, nil): el
// ejecutor distingue "sin posición" de "posición en cero".
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

const positionColumns = `product_id, warehouse_id, location_id, quantity_on_hand, quantity_available, quantity_reserved, updated_at`

// Get obtiene la posición actual de un producto en una bodega; (nil, nil) si no existe.
func (r *StockPositionRepo) Get(productID, warehouseID string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, warehouseID))
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE) para
// serializar ejecuciones concurrentes sobre el mismo par producto/bodega.
func (r *StockPositionRepo) GetForUpdate(productID, warehouseID string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, warehouseID))
}

// CreateIfAbsent inserta la fila vacía si no existe. Si otra transacción está
// insertando la misma clave, esta espera su commit y no escribe nada; el
// caller debe releer con GetForUpdate para ver los valores ganadores.
func (r *StockPositionRepo) CreateIfAbsent(position *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (product_id, warehouse_id, location_id, quantity_on_hand, quantity_available, quantity_reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query,
		position.ProductID, position.WarehouseID, position.LocationID,
		position.QuantityOnHand, position.QuantityAvailable, position.QuantityReserved,
	)
	if err != nil {
		return fmt.Errorf("create stock position: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza la posición (por producto y bodega).
func (r *StockPositionRepo) Upsert(position *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (product_id, warehouse_id, location_id, quantity_on_hand, quantity_available, quantity_reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET location_id = EXCLUDED.location_id,
		              quantity_on_hand = EXCLUDED.quantity_on_hand,
		              quantity_available = EXCLUDED.quantity_available,
		              quantity_reserved = EXCLUDED.quantity_reserved,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		position.ProductID, position.WarehouseID, position.LocationID,
		position.QuantityOnHand, position.QuantityAvailable, position.QuantityReserved,
	)
	if err != nil {
		return fmt.Errorf("upsert stock position: %w", err)
	}
	return nil
}

// ListByWarehouse lista las posiciones de una bodega.
func (r *StockPositionRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE warehouse_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		var p entity.StockPosition
		if err := rows.Scan(&p.ProductID, &p.WarehouseID, &p.LocationID,
			&p.QuantityOnHand, &p.QuantityAvailable, &p.QuantityReserved, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *StockPositionRepo) scanOne(row pgx.Row) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := row.Scan(&p.ProductID, &p.WarehouseID, &p.LocationID,
		&p.QuantityOnHand, &p.QuantityAvailable, &p.QuantityReserved, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return &p, nil
}
