package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/field-inventory/internal/domain"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
	"github.com/jhoicas/field-inventory/internal/domain/repository"
)

// Resultados posibles de una mutación sobre el registro principal.
const (
	OutcomeCreated      = "created"
	OutcomeUpdated      = "updated"
	OutcomeConsolidated = "consolidated"
	OutcomeDeleted      = "deleted"
)

// ActionResult payload de éxito de cualquier acción del ledger o del motor de transiciones.
type ActionResult struct {
	Action           string
	Outcome          string
	Record           *entity.InventoryRecord // estado final; nil si se eliminó
	Before           *entity.InventoryRecord
	Created          []*entity.InventoryRecord
	DeletedIDs       []int64
	ConsolidatedFrom *int64
	Ambiguous        bool
	TransactionID    *int64
	Path             string
}

// EngineDeps dependencias del motor. Notifier, Remote y Locker son opcionales.
type EngineDeps struct {
	TxRunner TxRunner
	Lookups  LookupProvider
	Recorder *Recorder
	Notifier RefreshNotifier
	Remote   RemoteFunctions
	Locker   *SignatureLocker
	Logger   zerolog.Logger
}

// Engine agrupa el Quantity Ledger y el motor de transiciones de estado.
// Cada operación lee el estado actual dentro de una transacción, valida, escribe,
// audita y finalmente avisa al notificador de refresco.
type Engine struct {
	tx       TxRunner
	lookups  LookupProvider
	recorder *Recorder
	notifier RefreshNotifier
	remote   RemoteFunctions
	locker   *SignatureLocker
	log      zerolog.Logger
	now      func() time.Time
}

// NewEngine construye el motor.
func NewEngine(deps EngineDeps) *Engine {
	locker := deps.Locker
	if locker == nil {
		locker = NewSignatureLocker()
	}
	return &Engine{
		tx:       deps.TxRunner,
		lookups:  deps.Lookups,
		recorder: deps.Recorder,
		notifier: deps.Notifier,
		remote:   deps.Remote,
		locker:   locker,
		log:      deps.Logger,
		now:      time.Now,
	}
}

// txFunc cuerpo transaccional de una acción: devuelve el resultado y la mutación a auditar.
type txFunc func(ctx context.Context, repo repository.InventoryRecordRepository, lookups *entity.Lookups) (*ActionResult, *Mutation, error)

// execute corre fn dentro de una transacción bajo los locks de firma indicados y se encarga de la
// auditoría y del aviso de refresco.
func (e *Engine) execute(ctx context.Context, action string, inventoryID int64, lockKeys []string, fn txFunc) (*ActionResult, error) {
	lookups, err := e.lookups.Snapshot(ctx)
	if err != nil {
		return nil, domain.Wrap(action, inventoryID, err)
	}
	if len(lockKeys) > 0 {
		unlock := e.locker.Lock(lockKeys...)
		defer unlock()
	}

	var (
		res *ActionResult
		mut *Mutation
	)
	err = e.tx.Run(ctx, func(recordRepo repository.InventoryRecordRepository, txRepo repository.TransactionRepository) error {
		r, m, err := fn(ctx, recordRepo, lookups)
		if err != nil {
			return err
		}
		if m != nil && e.recorder.Strict() {
			id, err := e.recorder.Record(ctx, txRepo, lookups, *m)
			if err != nil {
				return err
			}
			r.TransactionID = &id
		}
		res, mut = r, m
		return nil
	})
	if err != nil {
		return nil, domain.Wrap(action, inventoryID, err)
	}

	if mut != nil && !e.recorder.Strict() {
		res.TransactionID = e.recorder.RecordBestEffort(ctx, lookups, *mut)
	}
	res.Action = action
	if res.Path == "" {
		res.Path = PathLocal
	}
	e.notify(ctx, res)
	return res, nil
}

// remoteResult construye el resultado de una acción ejecutada por la ruta remota.
func (e *Engine) remoteResult(ctx context.Context, action string, out *RemoteResult) *ActionResult {
	res := &ActionResult{
		Action:        action,
		Outcome:       out.Outcome,
		Record:        out.Record,
		TransactionID: out.TransactionID,
		Path:          PathRemote,
	}
	if res.Outcome == "" {
		res.Outcome = OutcomeUpdated
	}
	if res.Outcome == OutcomeCreated && out.Record != nil {
		res.Created = []*entity.InventoryRecord{out.Record}
	}
	e.notify(ctx, res)
	return res
}

// tryRemote decide si usar el resultado remoto. ok=false significa "usar la ruta local".
// Un fallo de escritura en el servidor no es de negocio: se reintenta localmente.
func (e *Engine) tryRemote(action string, inventoryID int64, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if domain.IsDomainError(err) && !errors.Is(err, domain.ErrWrite) {
		return true, domain.Wrap(action, inventoryID, err)
	}
	e.log.Warn().Err(err).Str("action", action).Int64("inventory_id", inventoryID).
		Msg("función remota falló, se usa la ruta local")
	return false, nil
}

func (e *Engine) notify(ctx context.Context, res *ActionResult) {
	if e.notifier == nil || res == nil {
		return
	}
	var ids []int64
	if res.Record != nil {
		ids = append(ids, res.Record.ID)
	}
	for _, c := range res.Created {
		ids = append(ids, c.ID)
	}
	ids = append(ids, res.DeletedIDs...)
	if res.ConsolidatedFrom != nil {
		ids = append(ids, *res.ConsolidatedFrom)
	}
	e.notifier.InventoryChanged(ctx, ChangeEvent{Action: res.Action, InventoryIDs: ids, At: e.now()})
}

// Get devuelve un registro por id.
func (e *Engine) Get(ctx context.Context, id int64) (*entity.InventoryRecord, error) {
	var rec *entity.InventoryRecord
	err := e.tx.Run(ctx, func(recordRepo repository.InventoryRecordRepository, _ repository.TransactionRepository) error {
		r, err := recordRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, domain.Wrap("Get", id, err)
	}
	return rec, nil
}

// List lista registros con filtros de igualdad.
func (e *Engine) List(ctx context.Context, filter entity.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	err := e.tx.Run(ctx, func(recordRepo repository.InventoryRecordRepository, _ repository.TransactionRepository) error {
		var err error
		list, err = recordRepo.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, domain.Wrap("List", 0, err)
	}
	return list, nil
}

// History devuelve las transacciones de auditoría de un registro.
func (e *Engine) History(ctx context.Context, id int64, limit, offset int) ([]*entity.TransactionRecord, error) {
	var list []*entity.TransactionRecord
	err := e.tx.Run(ctx, func(_ repository.InventoryRecordRepository, txRepo repository.TransactionRepository) error {
		var err error
		list, err = txRepo.ListByInventory(ctx, id, limit, offset)
		return err
	})
	if err != nil {
		return nil, domain.Wrap("History", id, err)
	}
	return list, nil
}
