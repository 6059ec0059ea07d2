package approval

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockflow-pro/internal/application/dto"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// Policy políticas de ejecución configurables.
//
// ClampToZero es el modo de compatibilidad con el comportamiento histórico:
// una salida que dejaría el on-hand negativo se recorta a cero y la posición
// queda marcada como divergente respecto a la suma del ledger. Apagado, la
// misma situación falla con domain.ErrInvalidState y revierte todo.
//
// StrictLines apagado (default) salta las líneas de lote cuyo producto no
// existe y las reporta; encendido, una línea así falla el lote completo.
type Policy struct {
	ClampToZero bool
	StrictLines bool
}

// ExecutionResult lo observable de una ejecución: asientos creados, posiciones
// como quedaron y líneas omitidas.
type ExecutionResult struct {
	LedgerEntryIDs  []string
	PositionUpdates []dto.PositionUpdate
	SkippedLines    []dto.SkippedLine
}

// Executor convierte una solicitud aprobada en asientos del ledger y
// mutaciones de posición. Es el único escritor de ambas tablas y siempre opera
// sobre repositorios atados a la transacción del orquestador; cada posición
// tocada se bloquea con SELECT FOR UPDATE antes de leerla.
type Executor struct {
	policy Policy
}

// NewExecutor construye el ejecutor con sus políticas.
func NewExecutor(policy Policy) *Executor {
	return &Executor{policy: policy}
}

// txRepos agrupa los repositorios atados a la transacción en curso.
type txRepos struct {
	ledger    repository.StockMovementRepository
	positions repository.StockPositionRepository
	products  repository.ProductRepository
	warehouse repository.WarehouseRepository
}

// Execute expande la solicitud según su tipo. Cualquier error revierte la
// transacción completa del caller: ningún asiento ni posición parcial queda
// visible.
func (e *Executor) Execute(req *entity.StockMovementRequest, repos txRepos, decidedBy string, now time.Time) (*ExecutionResult, error) {
	res := &ExecutionResult{
		LedgerEntryIDs:  []string{},
		PositionUpdates: []dto.PositionUpdate{},
	}
	var err error
	switch req.Type {
	case entity.RequestTypeMovement:
		err = e.executeMovement(req, repos, decidedBy, now, res)
	case entity.RequestTypeTransfer:
		err = e.executeTransfer(req, repos, decidedBy, now, res)
	case entity.RequestTypeAdjustment:
		err = e.executeAdjustment(req, repos, decidedBy, now, res)
	default:
		err = fmt.Errorf("tipo de solicitud %q: %w", req.Type, domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// executeMovement: entrada o salida directa sobre un solo par producto/bodega.
// Sin modo parcial: producto o bodega ausente falla la solicitud completa.
func (e *Executor) executeMovement(req *entity.StockMovementRequest, repos txRepos, decidedBy string, now time.Time, res *ExecutionResult) error {
	p := req.Movement

	product, err := repos.products.GetByID(p.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", p.ProductID, domain.ErrNotFound)
	}
	warehouse, err := repos.warehouse.GetByID(p.WarehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return fmt.Errorf("bodega %s: %w", p.WarehouseID, domain.ErrNotFound)
	}

	signed := p.Quantity
	movType := entity.MovementTypeIn
	if p.Direction == entity.DirectionOut {
		signed = p.Quantity.Neg()
		movType = entity.MovementTypeOut
	}

	pos, err := repos.positions.GetForUpdate(p.ProductID, p.WarehouseID)
	if err != nil {
		return err
	}
	if pos == nil {
		// Creación perezosa: solo válida para entradas; una salida sin
		// posición no tiene nada que decrementar.
		if p.Direction == entity.DirectionOut {
			return fmt.Errorf("salida sin posición de stock para producto %s en bodega %s: %w",
				p.ProductID, p.WarehouseID, domain.ErrInvalidState)
		}
		pos, err = createAndLockPosition(repos.positions, p.ProductID, p.WarehouseID, p.LocationID, now)
		if err != nil {
			return err
		}
	}

	clamped := false
	newOnHand := pos.QuantityOnHand.Add(signed)
	if newOnHand.LessThan(decimal.Zero) {
		if !e.policy.ClampToZero {
			return fmt.Errorf("salida de %s dejaría on-hand en %s para producto %s: %w",
				p.Quantity.String(), newOnHand.String(), p.ProductID, domain.ErrInvalidState)
		}
		newOnHand = decimal.Zero
		clamped = true
	}
	pos.QuantityOnHand = newOnHand
	pos.RecomputeAvailable()
	pos.UpdatedAt = now
	if err := repos.positions.Upsert(pos); err != nil {
		return err
	}

	unitCost := p.UnitCost
	if unitCost == nil && p.Direction == entity.DirectionOut {
		c := product.Cost
		unitCost = &c
	}
	reference := p.Reference
	if reference == "" {
		reference = "MV-" + now.Format("20060102150405")
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   p.ProductID,
		WarehouseID: p.WarehouseID,
		LocationID:  pos.LocationID,
		Type:        movType,
		Quantity:    signed,
		UnitCost:    unitCost,
		Reason:      p.Reason,
		Reference:   reference,
		RequestID:   req.ID,
		CreatedBy:   decidedBy,
		CreatedAt:   now,
	}
	if err := repos.ledger.Create(mov); err != nil {
		return err
	}

	res.LedgerEntryIDs = append(res.LedgerEntryIDs, mov.ID)
	res.PositionUpdates = append(res.PositionUpdates, positionUpdate(pos, clamped))
	return nil
}

// executeTransfer: por cada línea normalizada verifica stock en origen,
// asegura posición destino, escribe dos asientos (salida y entrada) bajo una
// misma referencia y actualiza ambas posiciones. Un faltante en cualquier
// línea aborta la solicitud completa.
func (e *Executor) executeTransfer(req *entity.StockMovementRequest, repos txRepos, decidedBy string, now time.Time, res *ExecutionResult) error {
	p := req.Transfer

	for _, whID := range []string{p.FromWarehouseID, p.ToWarehouseID} {
		wh, err := repos.warehouse.GetByID(whID)
		if err != nil {
			return err
		}
		if wh == nil {
			return fmt.Errorf("bodega %s: %w", whID, domain.ErrNotFound)
		}
	}

	reference := p.Reference
	if reference == "" {
		reference = "TR-" + now.Format("20060102150405")
	}

	for i, line := range p.Lines {
		product, err := repos.products.GetByID(line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			if e.policy.StrictLines {
				return fmt.Errorf("línea %d: producto %s: %w", i, line.ProductID, domain.ErrNotFound)
			}
			res.SkippedLines = append(res.SkippedLines, dto.SkippedLine{
				LineIndex: i,
				ProductID: line.ProductID,
				Reason:    "producto no existe",
			})
			continue
		}

		src, err := repos.positions.GetForUpdate(line.ProductID, p.FromWarehouseID)
		if err != nil {
			return err
		}
		available := decimal.Zero
		if src != nil {
			available = src.QuantityOnHand
		}
		if src == nil || available.LessThan(line.Quantity) {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   available,
			}
		}

		dst, err := repos.positions.GetForUpdate(line.ProductID, p.ToWarehouseID)
		if err != nil {
			return err
		}
		if dst == nil {
			// La posición destino debe existir y quedar bloqueada antes de
			// asentar la entrada.
			dst, err = createAndLockPosition(repos.positions, line.ProductID, p.ToWarehouseID, line.ToLocationID, now)
			if err != nil {
				return err
			}
		}

		src.QuantityOnHand = src.QuantityOnHand.Sub(line.Quantity)
		src.RecomputeAvailable()
		src.UpdatedAt = now
		dst.QuantityOnHand = dst.QuantityOnHand.Add(line.Quantity)
		dst.RecomputeAvailable()
		dst.UpdatedAt = now
		if err := repos.positions.Upsert(src); err != nil {
			return err
		}
		if err := repos.positions.Upsert(dst); err != nil {
			return err
		}

		unitCost := product.Cost
		outMov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   line.ProductID,
			WarehouseID: p.FromWarehouseID,
			LocationID:  line.FromLocationID,
			Type:        entity.MovementTypeTransfer,
			Quantity:    line.Quantity.Neg(),
			UnitCost:    &unitCost,
			Reason:      p.Reason,
			Reference:   reference,
			RequestID:   req.ID,
			CreatedBy:   decidedBy,
			CreatedAt:   now,
		}
		if err := repos.ledger.Create(outMov); err != nil {
			return err
		}
		inMov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   line.ProductID,
			WarehouseID: p.ToWarehouseID,
			LocationID:  line.ToLocationID,
			Type:        entity.MovementTypeTransfer,
			Quantity:    line.Quantity,
			UnitCost:    &unitCost,
			Reason:      p.Reason,
			Reference:   reference,
			RequestID:   req.ID,
			CreatedBy:   decidedBy,
			CreatedAt:   now,
		}
		if err := repos.ledger.Create(inMov); err != nil {
			return err
		}

		res.LedgerEntryIDs = append(res.LedgerEntryIDs, outMov.ID, inMov.ID)
		res.PositionUpdates = append(res.PositionUpdates, positionUpdate(src, false), positionUpdate(dst, false))
	}
	return nil
}

// executeAdjustment: por cada línea con diferencia no nula asegura la posición,
// escribe un asiento con la diferencia firmada y fija el on-hand directamente
// al conteo real (la línea ya codifica el estado final, no un delta).
func (e *Executor) executeAdjustment(req *entity.StockMovementRequest, repos txRepos, decidedBy string, now time.Time, res *ExecutionResult) error {
	p := req.Adjustment

	wh, err := repos.warehouse.GetByID(p.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", p.WarehouseID, domain.ErrNotFound)
	}

	reference := p.Reference
	if reference == "" {
		reference = "ADJ-" + now.Format("20060102150405")
	}

	for i, line := range p.Lines {
		diff := line.Difference()
		if diff.IsZero() {
			// Conteo igual al esperado: no-op, no es error.
			continue
		}

		product, err := repos.products.GetByID(line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			if e.policy.StrictLines {
				return fmt.Errorf("línea %d: producto %s: %w", i, line.ProductID, domain.ErrNotFound)
			}
			res.SkippedLines = append(res.SkippedLines, dto.SkippedLine{
				LineIndex: i,
				ProductID: line.ProductID,
				Reason:    "producto no existe",
			})
			continue
		}

		pos, err := repos.positions.GetForUpdate(line.ProductID, p.WarehouseID)
		if err != nil {
			return err
		}
		if pos == nil {
			pos, err = createAndLockPosition(repos.positions, line.ProductID, p.WarehouseID, line.LocationID, now)
			if err != nil {
				return err
			}
		}
		pos.QuantityOnHand = line.ActualQuantity
		pos.RecomputeAvailable()
		pos.UpdatedAt = now
		if err := repos.positions.Upsert(pos); err != nil {
			return err
		}

		reason := p.Reason
		if line.Notes != "" {
			reason = line.Notes
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   line.ProductID,
			WarehouseID: p.WarehouseID,
			LocationID:  line.LocationID,
			Type:        entity.MovementTypeAdjustment,
			Quantity:    diff,
			Reason:      reason,
			Reference:   reference,
			RequestID:   req.ID,
			CreatedBy:   decidedBy,
			CreatedAt:   now,
		}
		if err := repos.ledger.Create(mov); err != nil {
			return err
		}

		res.LedgerEntryIDs = append(res.LedgerEntryIDs, mov.ID)
		res.PositionUpdates = append(res.PositionUpdates, positionUpdate(pos, false))
	}
	return nil
}

// createAndLockPosition maneja la creación perezosa cuando GetForUpdate no
// encontró fila. Una fila ausente no se puede bloquear, así que dos
// transacciones pueden tomar este camino a la vez: CreateIfAbsent hace que la
// perdedora espere el commit de la ganadora sin escribir, y la relectura FOR
// UPDATE devuelve los valores confirmados para aplicar el delta encima.
func createAndLockPosition(positions repository.StockPositionRepository, productID, warehouseID string, locationID *string, now time.Time) (*entity.StockPosition, error) {
	if err := positions.CreateIfAbsent(entity.NewStockPosition(productID, warehouseID, locationID, now)); err != nil {
		return nil, err
	}
	pos, err := positions.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, fmt.Errorf("posición %s/%s no visible tras crearla: %w", productID, warehouseID, domain.ErrConflict)
	}
	return pos, nil
}

func positionUpdate(pos *entity.StockPosition, clamped bool) dto.PositionUpdate {
	return dto.PositionUpdate{
		ProductID:         pos.ProductID,
		WarehouseID:       pos.WarehouseID,
		QuantityOnHand:    pos.QuantityOnHand,
		QuantityAvailable: pos.QuantityAvailable,
		Clamped:           clamped,
	}
}
