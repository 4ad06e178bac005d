package reconcile

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FindConflicting returns the stored row sharing p's natural key within scope, or nil.
// The adapter's Matcher is used when it has one; otherwise the rows are filtered on
// exactly the NaturalKey columns.
func FindConflicting[R any, P any](uow *UnitOfWork, a Adapter[R, P], p P, scope Scope) (*R, error) {
	if m, ok := a.(Matcher[R, P]); ok {
		row, err := m.Match(uow, p, scope)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", a.Entity(), err)
		}
		return row, nil
	}

	key := a.NaturalKey(p)
	if len(key) == 0 {
		return nil, nil
	}

	var row R
	err := scoped(uow.Tx, scope).Where(key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by natural key: %w", a.Entity(), err)
	}
	return &row, nil
}

// ResolveDuplicate applies the duplicate policy to a payload without id:
// a natural-key match with equal attributes is returned for reuse, a match with
// different attributes is an ObjectAlreadyExist, and no match returns nil.
func ResolveDuplicate[R any, P any](uow *UnitOfWork, a Adapter[R, P], field NestedFieldSpec, index int, p P, scope Scope) (*R, error) {
	row, err := FindConflicting(uow, a, p, scope)
	if err != nil || row == nil {
		return nil, err
	}
	if a.Equal(row, p) {
		return row, nil
	}
	return nil, &ObjectAlreadyExist{
		Detail:    conflictDetail(field, a.Entity()),
		Existing:  row,
		Attempted: p,
		Field:     field.Name,
		Index:     index,
	}
}

// LoadByID resolves a row by id within scope, returning NotFoundError when absent.
func LoadByID[R any](uow *UnitOfWork, entity string, id uint, scope Scope) (*R, error) {
	var row R
	err := scoped(uow.Tx, scope).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: entity, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %d: %w", entity, id, err)
	}
	return &row, nil
}

func conflictDetail(field NestedFieldSpec, entity string) string {
	if field.ConflictDetail != "" {
		return field.ConflictDetail
	}
	return fmt.Sprintf("%s already exists", entity)
}
