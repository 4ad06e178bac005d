package reconcile

// Adapter defines the model-specific side of reconciliation for one child type.
// R is the stored row type, P the submitted payload type.
// Adapters are cheap values; callers usually build one per parent so that
// Build can stamp the parent's foreign key on owned children.
type Adapter[R any, P any] interface {
	// Entity returns the child entity type name (e.g. "translation").
	Entity() string

	// RowID returns the surrogate id of a stored row.
	RowID(row *R) uint

	// PayloadID returns the id carried by a payload, or 0 when the payload is new.
	PayloadID(p P) uint

	// NaturalKey returns the column equality filter identifying p independently of its id.
	// An empty map means the type has no natural key and never matches.
	// Only scalar columns may appear here; types keyed by a collection or by a nested
	// reference must implement Matcher instead.
	NaturalKey(p P) map[string]any

	// Equal reports whether row already holds every attribute submitted in p.
	Equal(row *R, p P) bool

	// Build returns a new, unsaved row for p.
	Build(p P) *R

	// Assign copies submitted attributes from p onto row.
	Assign(row *R, p P)
}

// Matcher is implemented by adapters whose natural key is not a plain column
// equality (slugs, case-insensitive keys, keys through a nested reference).
type Matcher[R any, P any] interface {
	// Match returns the row colliding with p within scope, or nil.
	Match(uow *UnitOfWork, p P, scope Scope) (*R, error)
}

// Creator is implemented by adapters whose rows cannot be inserted with a single
// Create call, e.g. join rows that first need their referenced word created.
type Creator[R any, P any] interface {
	Create(uow *UnitOfWork, p P) (*R, error)
}

// Updater is implemented by adapters that persist updates themselves.
type Updater[R any, P any] interface {
	Update(uow *UnitOfWork, row *R, p P) error
}

// Remover is implemented by adapters that need custom deletion of owned rows.
type Remover[R any] interface {
	Remove(uow *UnitOfWork, rows []*R) error
}
