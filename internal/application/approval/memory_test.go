package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockflow-pro/internal/domain"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. El fakeTxRunner toma un
// snapshot antes de cada Run y lo restaura si fn falla, emulando el
// Commit/Rollback del TxRunner real: así los tests pueden afirmar que una
// ejecución fallida no deja ni asientos ni posiciones parciales.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	users      map[string]*entity.User
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	requests   map[string]*entity.StockMovementRequest
	positions  map[string]*entity.StockPosition // clave producto|bodega
	ledger     []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*entity.User{},
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		requests:   map[string]*entity.StockMovementRequest{},
		positions:  map[string]*entity.StockPosition{},
	}
}

func posKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// snapshot copia el estado mutable (solicitudes, posiciones y ledger).
func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	c.users = s.users
	c.products = s.products
	c.warehouses = s.warehouses
	for k, v := range s.requests {
		cp := *v
		c.requests[k] = &cp
	}
	for k, v := range s.positions {
		cp := *v
		c.positions[k] = &cp
	}
	c.ledger = append([]*entity.StockMovement{}, s.ledger...)
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.requests = snap.requests
	s.positions = snap.positions
	s.ledger = snap.ledger
}

// ledgerSum suma las cantidades del ledger para un par producto/bodega.
func (s *memStore) ledgerSum(productID, warehouseID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s.ledger {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum
}

// ── repos ────────────────────────────────────────────────────────────────────

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}

type memRequestRepo struct{ s *memStore }

func (r *memRequestRepo) Create(req *entity.StockMovementRequest) error {
	if _, ok := r.s.requests[req.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *memRequestRepo) GetByID(id string) (*entity.StockMovementRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *memRequestRepo) GetForUpdate(id string) (*entity.StockMovementRequest, error) {
	return r.GetByID(id)
}

func (r *memRequestRepo) List(status string, limit, offset int) ([]*entity.StockMovementRequest, error) {
	var out []*entity.StockMovementRequest
	for _, req := range r.s.requests {
		if status == "" || req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRequestRepo) Transition(id, fromStatus, toStatus, decidedBy, notes string, decidedAt time.Time) error {
	req, ok := r.s.requests[id]
	if !ok || req.Status != fromStatus {
		return fmt.Errorf("solicitud %s no está en estado %s: %w", id, fromStatus, domain.ErrConflict)
	}
	req.Status = toStatus
	req.ApprovedBy = &decidedBy
	req.ApprovedAt = &decidedAt
	if notes != "" {
		req.Notes = notes
	}
	return nil
}

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *memLedgerRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.ledger {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) ListByRequest(requestID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.ledger {
		if m.RequestID == requestID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.ledger {
		if m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.ledger {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPositionRepo struct{ s *memStore }

func (r *memPositionRepo) Get(productID, warehouseID string) (*entity.StockPosition, error) {
	p, ok := r.s.positions[posKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPositionRepo) GetForUpdate(productID, warehouseID string) (*entity.StockPosition, error) {
	return r.Get(productID, warehouseID)
}

func (r *memPositionRepo) CreateIfAbsent(p *entity.StockPosition) error {
	k := posKey(p.ProductID, p.WarehouseID)
	if _, ok := r.s.positions[k]; ok {
		return nil
	}
	cp := *p
	r.s.positions[k] = &cp
	return nil
}

func (r *memPositionRepo) Upsert(p *entity.StockPosition) error {
	cp := *p
	r.s.positions[posKey(p.ProductID, p.WarehouseID)] = &cp
	return nil
}

func (r *memPositionRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	for _, p := range r.s.positions {
		if p.WarehouseID == warehouseID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── tx runner ────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	requestRepo repository.MovementRequestRepository,
	ledgerRepo repository.StockMovementRepository,
	positionRepo repository.StockPositionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(
		&memRequestRepo{s: t.s},
		&memLedgerRepo{s: t.s},
		&memPositionRepo{s: t.s},
		&memProductRepo{s: t.s},
		&memWarehouseRepo{s: t.s},
	)
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
