package reconcile

// Scope is an equality filter that narrows every lookup to rows the caller may touch
// (e.g. {"author_id": 7}).
type Scope map[string]any

// With returns a copy of the scope extended with one more condition.
func (s Scope) With(column string, value any) Scope {
	out := make(Scope, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[column] = value
	return out
}

// ActionType represents the type of a planned reconciliation step.
type ActionType string

const (
	// ActionCreate inserts a new child row.
	ActionCreate ActionType = "create"
	// ActionUpdate assigns submitted attributes to an existing row referenced by id.
	ActionUpdate ActionType = "update"
	// ActionKeep references an existing row whose attributes already match.
	ActionKeep ActionType = "keep"
	// ActionReuse links an existing row found by natural key.
	ActionReuse ActionType = "reuse"
	// ActionRemove drops a previously associated row (delete when owned, detach when shared).
	ActionRemove ActionType = "remove"
)

// Action represents one planned step for a single child.
type Action[R any, P any] struct {
	// Type specifies the step to perform.
	Type ActionType
	// Index is the payload position, -1 for removals.
	Index int
	// Row is the existing row, nil for creates.
	Row *R
	// Payload is the submitted child, zero for removals.
	Payload P
	// Reason explains why the step is needed.
	Reason string

	// alias points at an earlier create in the same plan sharing the natural key.
	alias int
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// Submitted is the number of payloads.
	Submitted int `json:"submitted"`
	// Created counts rows to insert.
	Created int `json:"created"`
	// Updated counts rows to modify in place.
	Updated int `json:"updated"`
	// Kept counts unchanged rows referenced by id.
	Kept int `json:"kept"`
	// Reused counts rows found by natural key.
	Reused int `json:"reused"`
	// Removed counts rows dropped from the relation.
	Removed int `json:"removed"`
	// Total is the size of the relation after the plan is applied.
	Total int `json:"total"`
}

// Changed reports whether applying the plan would write anything.
func (s PlanSummary) Changed() bool {
	return s.Created+s.Updated+s.Removed > 0
}

// Plan contains the partition computed for one nested field.
type Plan[R any, P any] struct {
	// Field is the nested field being reconciled.
	Field NestedFieldSpec
	// Scope is the lookup scope the plan was computed with.
	Scope Scope
	// Actions holds one step per payload, in payload order, followed by removals.
	Actions []Action[R, P]
	// Summary provides aggregate counts.
	Summary PlanSummary
}

// Result is the outcome of an applied plan.
type Result[R any] struct {
	// Rows is the resulting relation, de-duplicated, in payload order.
	Rows []*R
	// Created holds newly inserted rows.
	Created []*R
	// Removed holds rows dropped from the relation.
	Removed []*R
	// Summary repeats the plan summary.
	Summary PlanSummary
}

// Options controls reconciliation behavior.
type Options struct {
	// Append keeps existing rows that are not resubmitted instead of removing them.
	Append bool
}
