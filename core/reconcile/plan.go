package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// ReconcileWithPlan computes the create/update/keep/reuse/remove partition of payloads
// against the existing children of one nested field. It reads through the unit of
// work but does NOT write; use ApplyPlan for that.
//
// Payloads with an id must resolve to an existing row (first among existing, then
// within scope) or the plan fails with NotFoundError. Payloads without an id go
// through duplicate detection. Unless opts.Append is set, existing rows that are
// not referenced by the submission are planned for removal.
func ReconcileWithPlan[R any, P any](
	uow *UnitOfWork,
	a Adapter[R, P],
	field NestedFieldSpec,
	existing []*R,
	payloads []P,
	scope Scope,
	opts Options,
) (*Plan[R, P], error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}

	existingByID := make(map[uint]*R, len(existing))
	for _, row := range existing {
		existingByID[a.RowID(row)] = row
	}

	plan := &Plan[R, P]{
		Field:   field,
		Scope:   scope,
		Actions: make([]Action[R, P], 0, len(payloads)),
	}
	plan.Summary.Submitted = len(payloads)

	final := make(map[uint]struct{}, len(payloads))
	pending := make(map[string]int)
	creates := 0

	for i, p := range payloads {
		if id := a.PayloadID(p); id != 0 {
			row, ok := existingByID[id]
			if !ok {
				loaded, err := LoadByID[R](uow, a.Entity(), id, scope)
				if err != nil {
					return nil, err
				}
				row = loaded
			}
			act := Action[R, P]{Type: ActionKeep, Index: i, Row: row, Payload: p, Reason: "referenced by id"}
			if !a.Equal(row, p) {
				act.Type = ActionUpdate
				act.Reason = "attributes changed"
				plan.Summary.Updated++
			} else {
				plan.Summary.Kept++
			}
			plan.Actions = append(plan.Actions, act)
			final[id] = struct{}{}
			continue
		}

		row, err := ResolveDuplicate(uow, a, field, i, p, scope)
		if err != nil {
			return nil, err
		}
		if row != nil {
			plan.Actions = append(plan.Actions, Action[R, P]{Type: ActionReuse, Index: i, Row: row, Payload: p, Reason: "natural key match"})
			plan.Summary.Reused++
			final[a.RowID(row)] = struct{}{}
			continue
		}

		// Two new payloads sharing a natural key collapse into one row.
		if fp := fingerprint(a.NaturalKey(p)); fp != "" {
			if j, ok := pending[fp]; ok {
				earlier := plan.Actions[j]
				if !a.Equal(a.Build(earlier.Payload), p) {
					return nil, &ObjectAlreadyExist{
						Detail:    conflictDetail(field, a.Entity()),
						Existing:  earlier.Payload,
						Attempted: p,
						Field:     field.Name,
						Index:     i,
					}
				}
				plan.Actions = append(plan.Actions, Action[R, P]{Type: ActionReuse, Index: i, Payload: p, Reason: "repeated in submission", alias: j})
				plan.Summary.Reused++
				continue
			}
			pending[fp] = len(plan.Actions)
		}

		plan.Actions = append(plan.Actions, Action[R, P]{Type: ActionCreate, Index: i, Payload: p, Reason: "new"})
		plan.Summary.Created++
		creates++
	}

	if opts.Append {
		for id := range existingByID {
			final[id] = struct{}{}
		}
	} else {
		for _, row := range existing {
			id := a.RowID(row)
			if _, keep := final[id]; keep {
				continue
			}
			plan.Actions = append(plan.Actions, Action[R, P]{Type: ActionRemove, Index: -1, Row: row, Reason: "omitted from submission"})
			plan.Summary.Removed++
		}
	}

	plan.Summary.Total = len(final) + creates

	if err := CheckAmountLimit(0, plan.Summary.Total, field.Limit, field.LimitDetail); err != nil {
		err.Field = field.Name
		return nil, err
	}

	return plan, nil
}

// ApplyPlan executes a plan through the unit of work.
// Removals run first: owned rows are deleted, shared rows are only detached and
// recorded on the unit of work as orphan candidates.
func ApplyPlan[R any, P any](uow *UnitOfWork, a Adapter[R, P], plan *Plan[R, P]) (*Result[R], error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}

	res := &Result[R]{Summary: plan.Summary}

	for _, act := range plan.Actions {
		if act.Type == ActionRemove {
			res.Removed = append(res.Removed, act.Row)
		}
	}
	if err := removeRows(uow, a, plan.Field, res.Removed); err != nil {
		return nil, err
	}

	rows := make([]*R, len(plan.Actions))
	for i, act := range plan.Actions {
		switch act.Type {
		case ActionKeep:
			rows[i] = act.Row
		case ActionReuse:
			if act.Row != nil {
				rows[i] = act.Row
			} else {
				rows[i] = rows[act.alias]
			}
		case ActionUpdate:
			if err := updateRow(uow, a, act.Row, act.Payload); err != nil {
				return nil, err
			}
			rows[i] = act.Row
		case ActionCreate:
			row, err := createRow(uow, a, act.Payload)
			if err != nil {
				return nil, err
			}
			rows[i] = row
			res.Created = append(res.Created, row)
		}
	}

	seen := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		id := a.RowID(row)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

// ReconcileAndApply is a convenience wrapper that plans and applies in one call.
func ReconcileAndApply[R any, P any](
	uow *UnitOfWork,
	a Adapter[R, P],
	field NestedFieldSpec,
	existing []*R,
	payloads []P,
	scope Scope,
	opts Options,
) (*Result[R], error) {
	plan, err := ReconcileWithPlan(uow, a, field, existing, payloads, scope, opts)
	if err != nil {
		return nil, err
	}
	return ApplyPlan(uow, a, plan)
}

// CreateOne creates or reuses a single top-level object with duplicate detection.
// It returns the row and whether it was newly created.
func CreateOne[R any, P any](uow *UnitOfWork, a Adapter[R, P], detail string, p P, scope Scope) (*R, bool, error) {
	if uow == nil {
		return nil, false, ErrNoUnitOfWork
	}
	field := NestedFieldSpec{Entity: a.Entity(), ConflictDetail: detail}
	row, err := ResolveDuplicate(uow, a, field, -1, p, scope)
	if err != nil {
		return nil, false, err
	}
	if row != nil {
		return row, false, nil
	}
	row, err = createRow(uow, a, p)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// UpdateOne assigns p to row after checking that no other row holds p's natural key.
func UpdateOne[R any, P any](uow *UnitOfWork, a Adapter[R, P], detail string, row *R, p P, scope Scope) error {
	if uow == nil {
		return ErrNoUnitOfWork
	}
	other, err := FindConflicting(uow, a, p, scope)
	if err != nil {
		return err
	}
	if other != nil && a.RowID(other) != a.RowID(row) {
		return NewAlreadyExist(detail, other, p)
	}
	return updateRow(uow, a, row, p)
}

func createRow[R any, P any](uow *UnitOfWork, a Adapter[R, P], p P) (*R, error) {
	if c, ok := a.(Creator[R, P]); ok {
		return c.Create(uow, p)
	}
	row := a.Build(p)
	if err := uow.Tx.Create(row).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", a.Entity(), err)
	}
	return row, nil
}

func updateRow[R any, P any](uow *UnitOfWork, a Adapter[R, P], row *R, p P) error {
	if u, ok := a.(Updater[R, P]); ok {
		return u.Update(uow, row, p)
	}
	a.Assign(row, p)
	if err := uow.Tx.Save(row).Error; err != nil {
		return fmt.Errorf("update %s %d: %w", a.Entity(), a.RowID(row), err)
	}
	return nil
}

func removeRows[R any, P any](uow *UnitOfWork, a Adapter[R, P], field NestedFieldSpec, rows []*R) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, a.RowID(row))
	}

	if field.Kind != KindOwned {
		uow.Detach(a.Entity(), ids...)
		return nil
	}

	if r, ok := a.(Remover[R]); ok {
		return r.Remove(uow, rows)
	}
	if err := uow.Tx.Where("id IN ?", ids).Delete(new(R)).Error; err != nil {
		return fmt.Errorf("delete %s: %w", a.Entity(), err)
	}
	return nil
}

// fingerprint renders a natural key deterministically; empty keys yield "".
func fingerprint(key map[string]any) string {
	if len(key) == 0 {
		return ""
	}
	cols := make([]string, 0, len(key))
	for col := range key {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	for _, col := range cols {
		fmt.Fprintf(&b, "%s=%v;", col, key[col])
	}
	return b.String()
}
