package repository

import "github.com/tu-usuario/stockflow-pro/internal/domain/entity"

// StockPositionRepository define el puerto para consultar/actualizar la posición
// de stock por producto+bodega. Get y GetForUpdate devuelven (nil, nil) si la
// fila no existe: el ejecutor necesita distinguir "sin posición" de "posición
// en cero" para la creación perezosa y para rechazar salidas sin posición.
type StockPositionRepository interface {
	Get(productID, warehouseID string) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// ejecuciones concurrentes sobre la misma posición.
	GetForUpdate(productID, warehouseID string) (*entity.StockPosition, error)
	// CreateIfAbsent inserta la fila vacía solo si no existe (ON CONFLICT DO
	// NOTHING). Una fila inexistente no puede bloquearse con FOR UPDATE, así
	// que dos transacciones pueden verla ausente a la vez; tras CreateIfAbsent
	// el caller debe volver a llamar GetForUpdate para leer los valores que
	// haya confirmado la transacción ganadora en vez de pisarlos.
	CreateIfAbsent(position *entity.StockPosition) error
	Upsert(position *entity.StockPosition) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockPosition, error)
}
