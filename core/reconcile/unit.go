package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork is the transaction handle threaded through every reconciliation write.
// It also collects orphan candidates and side effects deferred until commit.
type UnitOfWork struct {
	// Tx is the open transaction. All reads and writes of a reconciliation go through it.
	Tx *gorm.DB

	ctx         context.Context
	detached    map[string]map[uint]struct{}
	afterCommit []func(context.Context)
	onRollback  []func(context.Context)
}

// NewUnitOfWork wraps an already open transaction.
func NewUnitOfWork(ctx context.Context, tx *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		Tx:       tx.WithContext(ctx),
		ctx:      ctx,
		detached: make(map[string]map[uint]struct{}),
	}
}

// Context returns the context the unit of work was opened with.
func (u *UnitOfWork) Context() context.Context {
	return u.ctx
}

// Detach records ids of shared children of entity that lost an association.
// They are candidates for the orphan sweep.
func (u *UnitOfWork) Detach(entity string, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	set, ok := u.detached[entity]
	if !ok {
		set = make(map[uint]struct{}, len(ids))
		u.detached[entity] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// Detached returns the orphan candidates recorded so far, keyed by entity.
func (u *UnitOfWork) Detached() map[string][]uint {
	out := make(map[string][]uint, len(u.detached))
	for entity, set := range u.detached {
		ids := make([]uint, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		out[entity] = ids
	}
	return out
}

// ClearDetached forgets recorded candidates, usually after a sweep.
func (u *UnitOfWork) ClearDetached() {
	u.detached = make(map[string]map[uint]struct{})
}

// AfterCommit queues fn to run once the transaction has committed.
// Nothing queued runs when the unit of work rolls back.
func (u *UnitOfWork) AfterCommit(fn func(context.Context)) {
	u.afterCommit = append(u.afterCommit, fn)
}

// OnRollback queues fn to undo a side effect made outside the database,
// such as an uploaded object, when the transaction rolls back.
func (u *UnitOfWork) OnRollback(fn func(context.Context)) {
	u.onRollback = append(u.onRollback, fn)
}

// Atomic runs fn inside a single database transaction.
// Any error returned by fn rolls back every write made through the unit of work.
func Atomic(ctx context.Context, db *gorm.DB, fn func(uow *UnitOfWork) error) error {
	if db == nil {
		return ErrNoUnitOfWork
	}

	var uow *UnitOfWork
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow = NewUnitOfWork(ctx, tx)
		return fn(uow)
	})
	if err != nil {
		if uow != nil {
			for _, hook := range uow.onRollback {
				hook(ctx)
			}
		}
		return err
	}

	for _, hook := range uow.afterCommit {
		hook(ctx)
	}
	return nil
}

// scoped applies an equality scope to a query.
func scoped(tx *gorm.DB, scope Scope) *gorm.DB {
	if len(scope) == 0 {
		return tx
	}
	return tx.Where(map[string]any(scope))
}
