package reconcile

import (
	"fmt"
)

// Kind describes how a nested child relates to its parent.
type Kind int

const (
	// KindShared children live in a many-to-many join table and may belong to many parents.
	// Dropping them detaches the association; rows left with no parent are swept.
	KindShared Kind = iota
	// KindOwned children carry the parent's foreign key. Dropping them deletes the row.
	KindOwned
	// KindReference is a single nested object resolved before the parent is written.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindShared:
		return "shared"
	case KindOwned:
		return "owned"
	case KindReference:
		return "reference"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Order selects whether the parent row or its children are written first.
type Order int

const (
	// ParentFirst inserts the parent, then reconciles children onto it.
	ParentFirst Order = iota
	// ChildrenFirst resolves children, injects them into the parent payload, then inserts the parent.
	ChildrenFirst
)

// NestedFieldSpec declares one nested child field of an entity.
type NestedFieldSpec struct {
	// Name is the payload field name (e.g. "translations").
	Name string
	// Entity is the child entity type name (e.g. "translation").
	Entity string
	// Kind is the relation kind.
	Kind Kind
	// Limit is the maximum number of children. Zero means unlimited.
	Limit int
	// LimitDetail is the message carried by AmountLimitExceeded.
	LimitDetail string
	// ConflictDetail is the message carried by ObjectAlreadyExist.
	ConflictDetail string
}

// EntitySpec declares the nested fields of one parent entity type.
type EntitySpec struct {
	// Entity is the parent entity type name.
	Entity string
	// Order is the write ordering used on create.
	Order Order
	// Fields lists nested fields in the order they are reconciled.
	Fields []NestedFieldSpec
}

// Field returns the nested field spec with the given name.
func (s EntitySpec) Field(name string) (NestedFieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return NestedFieldSpec{}, false
}

// Registry holds entity specs keyed by entity type name.
// It is built once at init and read-only afterwards.
type Registry struct {
	specs map[string]EntitySpec
}

// NewRegistry builds a registry, rejecting duplicate entities and duplicate field names.
func NewRegistry(specs ...EntitySpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]EntitySpec, len(specs))}
	for _, s := range specs {
		if s.Entity == "" {
			return nil, fmt.Errorf("reconcile: entity spec without a name")
		}
		if _, dup := r.specs[s.Entity]; dup {
			return nil, fmt.Errorf("reconcile: duplicate entity spec %q", s.Entity)
		}
		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if _, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("reconcile: duplicate field %q on %q", f.Name, s.Entity)
			}
			if f.Limit < 0 {
				return nil, fmt.Errorf("reconcile: negative limit on %s.%s", s.Entity, f.Name)
			}
			seen[f.Name] = struct{}{}
		}
		r.specs[s.Entity] = s
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for package-level vars.
func MustRegistry(specs ...EntitySpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Spec returns the EntitySpec registered for entity.
func (r *Registry) Spec(entity string) (EntitySpec, error) {
	s, ok := r.specs[entity]
	if !ok {
		return EntitySpec{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return s, nil
}

// Field returns the nested field spec of an entity.
func (r *Registry) Field(entity, field string) (NestedFieldSpec, error) {
	s, err := r.Spec(entity)
	if err != nil {
		return NestedFieldSpec{}, err
	}
	f, ok := s.Field(field)
	if !ok {
		return NestedFieldSpec{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, entity, field)
	}
	return f, nil
}

// Entities returns the registered entity names.
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}
