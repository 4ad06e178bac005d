// Package reconcile implements nested object reconciliation: it turns a submitted
// list of child payloads into the create, update, reuse and remove steps needed to
// make a parent's relation match it, inside one database transaction.
//
// # Architecture
//
// 1. Registry: a static table of EntitySpec values declaring, per parent entity,
// its nested fields (NestedFieldSpec), their relation Kind, amount limits and the
// write Order. Nothing is discovered through reflection.
//
// 2. Adapter: the child-type side. It extracts ids and natural keys, compares a
// stored row with a payload and builds new rows. Optional Matcher, Creator,
// Updater and Remover interfaces override the defaults.
//
// 3. Plan and Apply: ReconcileWithPlan partitions payloads without writing;
// ApplyPlan executes the plan. Amount limits are checked while planning, so a
// plan that would overflow never reaches the database.
//
// 4. Nested: binds an EntitySpec to typed accessors and runs parent-first or
// children-first creation and partial updates.
//
// 5. UnitOfWork and Sweeper: every write goes through the transaction held by the
// unit of work. Shared children dropped from a relation are recorded as orphan
// candidates and deleted by the Sweeper once no join row references them.
//
// # Usage Example
//
//	err := reconcile.Atomic(ctx, db, func(uow *reconcile.UnitOfWork) error {
//	    res, err := reconcile.ReconcileAndApply(uow, adapter, field, existing, payloads, scope, reconcile.Options{})
//	    if err != nil {
//	        return err
//	    }
//	    return reconcile.Associate(uow, word, "Translations", res.Rows)
//	})
package reconcile
