// Package memory implementa los puertos de persistencia en memoria con transacciones
// de copia y restauración. Lo usan los tests y el modo STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appinv "github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/field-inventory/internal/domain/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// Operaciones en las que se puede inyectar un fallo.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpTxCreate = "tx_create"
)

var (
	_ appinv.TxRunner             = (*Store)(nil)
	_ appinv.LookupProvider       = (*Store)(nil)
	_ repository.LookupRepository = (*Store)(nil)
)

// Store backend en memoria. Una transacción toma el mutex global, por lo que las transacciones
// se serializan; si fn falla el estado se restaura.
type Store struct {
	mu       sync.Mutex
	records  map[int64]*entity.InventoryRecord
	txs      []*entity.TransactionRecord
	nextID   int64
	nextTxID int64
	lookups  *entity.Lookups
	failures map[string]error
}

// NewStore construye el store con la instantánea de referencia dada.
func NewStore(lookups *entity.Lookups) *Store {
	if lookups == nil {
		lookups = &entity.Lookups{}
	}
	return &Store{
		records:  make(map[int64]*entity.InventoryRecord),
		lookups:  lookups,
		failures: make(map[string]error),
	}
}

// Snapshot devuelve la instantánea de tablas de referencia.
func (s *Store) Snapshot(_ context.Context) (*entity.Lookups, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups, nil
}

// SetLookups reemplaza la instantánea (simula el refresco externo).
func (s *Store) SetLookups(l *entity.Lookups) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = l
}

// FailOn hace que la operación op devuelva err (nil la restablece).
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Seed inserta un registro tal cual (asigna id si es 0). Útil para preparar datos.
func (s *Store) Seed(rec *entity.InventoryRecord) *entity.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := rec.Clone()
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
	} else if c.ID > s.nextID {
		s.nextID = c.ID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}
	s.records[c.ID] = c
	return c.Clone()
}

// Records devuelve una copia de todos los registros ordenados por id.
func (s *Store) Records() []*entity.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedRecords(func(*entity.InventoryRecord) bool { return true })
}

// Transactions devuelve una copia del log de auditoría.
func (s *Store) Transactions() []*entity.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.TransactionRecord, len(s.txs))
	for i, t := range s.txs {
		c := *t
		out[i] = &c
	}
	return out
}

// TransactionLog repositorio de auditoría fuera de transacción (toma el mutex por llamada).
func (s *Store) TransactionLog() repository.TransactionRepository {
	return &lockedTxRepo{s: s}
}

// Run ejecuta fn con repositorios atados a una transacción en memoria.
func (s *Store) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.TransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make(map[int64]*entity.InventoryRecord, len(s.records))
	for id, r := range s.records {
		saved[id] = r.Clone()
	}
	savedTxs := len(s.txs)
	savedNextID, savedNextTxID := s.nextID, s.nextTxID

	if err := fn(&recordRepo{s: s}, &txRepo{s: s}); err != nil {
		s.records = saved
		s.txs = s.txs[:savedTxs]
		s.nextID, s.nextTxID = savedNextID, savedNextTxID
		return err
	}
	return nil
}

func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("memory %s: %w", op, err)
	}
	return nil
}

func (s *Store) sortedRecords(keep func(*entity.InventoryRecord) bool) []*entity.InventoryRecord {
	var out []*entity.InventoryRecord
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// recordRepo repositorio de registros dentro de Run (el mutex ya está tomado).
type recordRepo struct {
	s *Store
}

var _ repository.InventoryRecordRepository = (*recordRepo)(nil)

func (r *recordRepo) GetByID(_ context.Context, id int64) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (r *recordRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *recordRepo) ListBySignature(_ context.Context, sig entity.Signature) ([]*entity.InventoryRecord, error) {
	return r.s.sortedRecords(func(rec *entity.InventoryRecord) bool {
		return !rec.IsSerialized() && domaininv.Equivalent(sig, rec.Signature())
	}), nil
}

// LockSignature no hace nada: la transacción en memoria ya es exclusiva.
func (r *recordRepo) LockSignature(_ context.Context, _ string) error { return nil }

func (r *recordRepo) ListBulk(_ context.Context) ([]*entity.InventoryRecord, error) {
	return r.s.sortedRecords(func(rec *entity.InventoryRecord) bool { return !rec.IsSerialized() }), nil
}

func (r *recordRepo) List(_ context.Context, f entity.InventoryFilter) ([]*entity.InventoryRecord, error) {
	list := r.s.sortedRecords(func(rec *entity.InventoryRecord) bool {
		return (f.SlocID == nil || rec.SlocID == *f.SlocID) &&
			(f.LocationID == nil || rec.LocationID == *f.LocationID) &&
			(f.ItemTypeID == nil || rec.ItemTypeID == *f.ItemTypeID) &&
			(f.StatusID == nil || rec.StatusID == *f.StatusID)
	})
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	return list, nil
}

func (r *recordRepo) Create(_ context.Context, rec *entity.InventoryRecord) error {
	if err := r.s.fail(OpCreate); err != nil {
		return err
	}
	r.s.nextID++
	rec.ID = r.s.nextID
	r.s.records[rec.ID] = rec.Clone()
	return nil
}

func (r *recordRepo) Update(_ context.Context, rec *entity.InventoryRecord) error {
	if err := r.s.fail(OpUpdate); err != nil {
		return err
	}
	if _, ok := r.s.records[rec.ID]; !ok {
		return fmt.Errorf("memory update: registro %d no existe", rec.ID)
	}
	r.s.records[rec.ID] = rec.Clone()
	return nil
}

func (r *recordRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.fail(OpDelete); err != nil {
		return err
	}
	delete(r.s.records, id)
	return nil
}

// txRepo repositorio de auditoría dentro de Run.
type txRepo struct {
	s *Store
}

var _ repository.TransactionRepository = (*txRepo)(nil)

func (r *txRepo) Create(_ context.Context, tx *entity.TransactionRecord) error {
	if err := r.s.fail(OpTxCreate); err != nil {
		return err
	}
	r.s.nextTxID++
	tx.ID = r.s.nextTxID
	c := *tx
	r.s.txs = append(r.s.txs, &c)
	return nil
}

func (r *txRepo) ListByInventory(_ context.Context, inventoryID int64, limit, offset int) ([]*entity.TransactionRecord, error) {
	var out []*entity.TransactionRecord
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		t := r.s.txs[i]
		if t.InventoryID != nil && *t.InventoryID == inventoryID {
			c := *t
			out = append(out, &c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// lockedTxRepo variante de txRepo que toma el mutex en cada llamada.
type lockedTxRepo struct {
	s *Store
}

func (r *lockedTxRepo) Create(ctx context.Context, tx *entity.TransactionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txRepo{s: r.s}).Create(ctx, tx)
}

func (r *lockedTxRepo) ListByInventory(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.TransactionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txRepo{s: r.s}).ListByInventory(ctx, inventoryID, limit, offset)
}
