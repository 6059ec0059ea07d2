package repository

import "github.com/tu-usuario/stockflow-pro/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// GetByID devuelve (nil, nil) si la bodega no existe.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
