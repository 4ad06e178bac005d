package reconcile

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// ParentWriter builds and assigns the scalar part of a parent entity.
type ParentWriter[P any, In any] interface {
	// Build returns a new, unsaved parent for the input.
	Build(uow *UnitOfWork, in In) (*P, error)
	// Assign copies scalar fields of the input onto a stored parent.
	Assign(uow *UnitOfWork, parent *P, in In) error
}

// Binding ties one declared nested field to typed accessors on the parent input.
type Binding[P any, In any] struct {
	// Field is the nested field name; it must exist in the entity spec.
	Field string
	// Present reports whether the input carries the field at all.
	// Omitted fields are left untouched on update.
	Present func(in In) bool
	// Validate runs before anything is written. Optional.
	Validate func(uow *UnitOfWork, in In) error
	// Apply reconciles the field onto a stored parent.
	Apply func(uow *UnitOfWork, field NestedFieldSpec, parent *P, in In) error
	// Inject resolves the field before the parent is written and stores the
	// resulting references on it. Used by children-first entities.
	Inject func(uow *UnitOfWork, field NestedFieldSpec, parent *P, in In) error
}

// Nested orchestrates create and update of a parent with its nested children.
type Nested[P any, In any] struct {
	spec     EntitySpec
	writer   ParentWriter[P, In]
	bindings []Binding[P, In]
	fields   []NestedFieldSpec
	sweeper  *Sweeper
}

// NewNested binds an entity spec from the registry to typed accessors.
// Every declared nested field needs exactly one binding. sweeper may be nil.
func NewNested[P any, In any](reg *Registry, entity string, w ParentWriter[P, In], sweeper *Sweeper, bindings ...Binding[P, In]) (*Nested[P, In], error) {
	spec, err := reg.Spec(entity)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("reconcile: %s has no parent writer", entity)
	}

	n := &Nested[P, In]{spec: spec, writer: w, sweeper: sweeper}
	bound := make(map[string]struct{}, len(bindings))
	for _, b := range bindings {
		f, ok := spec.Field(b.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, entity, b.Field)
		}
		if _, dup := bound[b.Field]; dup {
			return nil, fmt.Errorf("reconcile: field %s.%s bound twice", entity, b.Field)
		}
		if b.Present == nil {
			return nil, fmt.Errorf("reconcile: field %s.%s has no presence check", entity, b.Field)
		}
		if b.Apply == nil && b.Inject == nil {
			return nil, fmt.Errorf("reconcile: field %s.%s has nothing to apply", entity, b.Field)
		}
		if spec.Order == ParentFirst && b.Apply == nil {
			return nil, fmt.Errorf("reconcile: parent-first field %s.%s needs Apply", entity, b.Field)
		}
		bound[b.Field] = struct{}{}
		n.bindings = append(n.bindings, b)
		n.fields = append(n.fields, f)
	}
	for _, f := range spec.Fields {
		if _, ok := bound[f.Name]; !ok {
			return nil, fmt.Errorf("reconcile: field %s.%s is not bound", entity, f.Name)
		}
	}
	return n, nil
}

// MustNested is like NewNested but panics on error.
func MustNested[P any, In any](reg *Registry, entity string, w ParentWriter[P, In], sweeper *Sweeper, bindings ...Binding[P, In]) *Nested[P, In] {
	n, err := NewNested(reg, entity, w, sweeper, bindings...)
	if err != nil {
		panic(err)
	}
	return n
}

// Spec returns the entity spec this orchestrator was built from.
func (n *Nested[P, In]) Spec() EntitySpec {
	return n.spec
}

// Create inserts a parent with its nested children in the entity's declared order.
func (n *Nested[P, In]) Create(uow *UnitOfWork, in In) (*P, error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}
	present, err := n.validate(uow, in)
	if err != nil {
		return nil, err
	}

	parent, err := n.writer.Build(uow, in)
	if err != nil {
		return nil, err
	}

	injected := make(map[int]bool, len(present))
	if n.spec.Order == ChildrenFirst {
		for _, i := range present {
			b := n.bindings[i]
			if b.Inject == nil {
				continue
			}
			if err := b.Inject(uow, n.fields[i], parent, in); err != nil {
				return nil, err
			}
			injected[i] = true
		}
	}

	if err := uow.Tx.Omit(clause.Associations).Create(parent).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", n.spec.Entity, err)
	}

	for _, i := range present {
		if injected[i] {
			continue
		}
		if err := n.bindings[i].Apply(uow, n.fields[i], parent, in); err != nil {
			return nil, err
		}
	}
	return parent, nil
}

// Update assigns scalar fields, reconciles every nested field present in the input
// and finally sweeps shared children that lost their last parent.
func (n *Nested[P, In]) Update(uow *UnitOfWork, parent *P, in In) (*SweepReport, error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}
	present, err := n.validate(uow, in)
	if err != nil {
		return nil, err
	}

	if err := n.writer.Assign(uow, parent, in); err != nil {
		return nil, err
	}

	injected := make(map[int]bool, len(present))
	for _, i := range present {
		b := n.bindings[i]
		if b.Inject == nil || (n.spec.Order == ParentFirst && b.Apply != nil) {
			continue
		}
		if err := b.Inject(uow, n.fields[i], parent, in); err != nil {
			return nil, err
		}
		injected[i] = true
	}

	if err := uow.Tx.Omit(clause.Associations).Save(parent).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", n.spec.Entity, err)
	}

	for _, i := range present {
		if injected[i] {
			continue
		}
		if err := n.bindings[i].Apply(uow, n.fields[i], parent, in); err != nil {
			return nil, err
		}
	}

	if n.sweeper == nil {
		return &SweepReport{}, nil
	}
	return n.sweeper.SweepDetached(uow)
}

func (n *Nested[P, In]) validate(uow *UnitOfWork, in In) ([]int, error) {
	var present []int
	for i, b := range n.bindings {
		if !b.Present(in) {
			continue
		}
		if b.Validate != nil {
			if err := b.Validate(uow, in); err != nil {
				return nil, err
			}
		}
		present = append(present, i)
	}
	return present, nil
}

// Associate sets a many-to-many association of parent to exactly rows.
// An empty rows slice clears the association.
func Associate[P any, R any](uow *UnitOfWork, parent *P, association string, rows []*R) error {
	assoc := uow.Tx.Model(parent).Association(association)
	if assoc.Error != nil {
		return fmt.Errorf("association %s: %w", association, assoc.Error)
	}
	if len(rows) == 0 {
		if err := assoc.Clear(); err != nil {
			return fmt.Errorf("clear %s: %w", association, err)
		}
		return nil
	}
	if err := assoc.Replace(rows); err != nil {
		return fmt.Errorf("replace %s: %w", association, err)
	}
	return nil
}
