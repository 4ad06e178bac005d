package vocabulary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// related is one nested field of a word, reachable both through word payloads
// and through the related-object endpoints.
type related interface {
	Name() string
	binding() reconcile.Binding[Word, *wordIn]
	list(uow *reconcile.UnitOfWork, in *wordIn, word *Word, search string) (any, error)
	append(uow *reconcile.UnitOfWork, in *wordIn, word *Word, raw []byte) (any, error)
	get(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint) (any, error)
	patch(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint, raw []byte) (any, error)
	remove(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint) error
	clear(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error
}

// relatedField implements related for child rows R submitted as In and
// reconciled as P.
type relatedField[R any, In any, P any] struct {
	svc   *Service
	field reconcile.NestedFieldSpec
	// association is the many-to-many association name; empty for owned rows.
	association string
	// search is the column matched by ?search=.
	search string

	items   func(c *WordChildren) *[]In
	resolve func(uow *reconcile.UnitOfWork, in *wordIn, items []In) ([]P, error)
	adapter func(in *wordIn) reconcile.Adapter[R, P]
	scope   func(in *wordIn) reconcile.Scope
	// existing loads owned rows; many-to-many rows are read through the association.
	existing func(uow *reconcile.UnitOfWork, word *Word) ([]*R, error)
	// view renders rows for responses. Optional.
	view func(uow *reconcile.UnitOfWork, word *Word, rows []*R) (any, error)
}

func (f *relatedField[R, In, P]) Name() string {
	return f.field.Name
}

func (f *relatedField[R, In, P]) binding() reconcile.Binding[Word, *wordIn] {
	return reconcile.Binding[Word, *wordIn]{
		Field:   f.field.Name,
		Present: func(in *wordIn) bool { return f.items(&in.children) != nil },
		Validate: func(uow *reconcile.UnitOfWork, in *wordIn) error {
			_, err := f.resolve(uow, in, *f.items(&in.children))
			return err
		},
		Apply: func(uow *reconcile.UnitOfWork, field reconcile.NestedFieldSpec, word *Word, in *wordIn) error {
			_, err := f.reconcile(uow, in, word, *f.items(&in.children), reconcile.Options{})
			return err
		},
	}
}

// clear drops every row of the field from word. Shared rows become orphan candidates.
func (f *relatedField[R, In, P]) clear(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
	rows, err := f.load(uow, word)
	if err != nil || len(rows) == 0 {
		return err
	}
	a := f.adapter(in)
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, a.RowID(row))
	}
	if f.association == "" {
		return uow.Tx.Where("id IN ?", ids).Delete(new(R)).Error
	}
	uow.Detach(a.Entity(), ids...)
	return uow.Tx.Model(word).Association(f.association).Clear()
}

func (f *relatedField[R, In, P]) load(uow *reconcile.UnitOfWork, word *Word) ([]*R, error) {
	if f.existing != nil {
		return f.existing(uow, word)
	}
	var rows []*R
	if err := uow.Tx.Model(word).Association(f.association).Find(&rows); err != nil {
		return nil, fmt.Errorf("load %s: %w", f.field.Name, err)
	}
	return rows, nil
}

// reconcile runs the engine for the field and updates the association.
// In append mode existing rows are kept and only the submitted rows are linked.
func (f *relatedField[R, In, P]) reconcile(uow *reconcile.UnitOfWork, in *wordIn, word *Word, items []In, opts reconcile.Options) (*reconcile.Result[R], error) {
	in.word = word
	payloads, err := f.resolve(uow, in, items)
	if err != nil {
		return nil, err
	}
	existing, err := f.load(uow, word)
	if err != nil {
		return nil, err
	}

	a := f.adapter(in)
	plan, err := reconcile.ReconcileWithPlan(uow, a, f.field, existing, payloads, f.scope(in), opts)
	if err != nil {
		return nil, err
	}
	f.svc.logger.Debug("Nested field planned",
		zap.Uint("word_id", word.ID),
		zap.String("field", f.field.Name),
		zap.Any("summary", plan.Summary),
	)
	res, err := reconcile.ApplyPlan(uow, a, plan)
	if err != nil {
		return nil, err
	}

	if f.association == "" {
		return res, nil
	}
	if opts.Append {
		if len(res.Rows) == 0 {
			return res, nil
		}
		if err := uow.Tx.Model(word).Association(f.association).Append(res.Rows); err != nil {
			return nil, fmt.Errorf("append %s: %w", f.field.Name, err)
		}
		return res, nil
	}
	if err := reconcile.Associate(uow, word, f.association, res.Rows); err != nil {
		return nil, err
	}
	return res, nil
}

func (f *relatedField[R, In, P]) render(uow *reconcile.UnitOfWork, word *Word, rows []*R) (any, error) {
	if f.view != nil {
		return f.view(uow, word, rows)
	}
	if rows == nil {
		rows = []*R{}
	}
	return rows, nil
}

func (f *relatedField[R, In, P]) list(uow *reconcile.UnitOfWork, in *wordIn, word *Word, search string) (any, error) {
	rows, err := f.load(uow, word)
	if err != nil {
		return nil, err
	}
	if search = strings.TrimSpace(search); search != "" && f.search != "" {
		var matched []uint
		err := uow.Tx.Model(new(R)).Where("LOWER("+f.search+") LIKE ?", "%"+strings.ToLower(search)+"%").Pluck("id", &matched).Error
		if err != nil {
			return nil, err
		}
		keep := make(map[uint]struct{}, len(matched))
		for _, id := range matched {
			keep[id] = struct{}{}
		}
		a := f.adapter(in)
		filtered := rows[:0]
		for _, row := range rows {
			if _, ok := keep[a.RowID(row)]; ok {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return f.render(uow, word, rows)
}

type itemsPayload[In any] struct {
	Items []In `json:"items" validate:"required,min=1,dive"`
}

func (f *relatedField[R, In, P]) append(uow *reconcile.UnitOfWork, in *wordIn, word *Word, raw []byte) (any, error) {
	var items []In
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, reconcile.Invalid("", f.field.Name, "expected a list of objects")
	}
	if err := validation.Struct(itemsPayload[In]{Items: items}); err != nil {
		return nil, err
	}
	res, err := f.reconcile(uow, in, word, items, reconcile.Options{Append: true})
	if err != nil {
		return nil, err
	}
	return f.render(uow, word, res.Rows)
}

func (f *relatedField[R, In, P]) find(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint) (*R, error) {
	rows, err := f.load(uow, word)
	if err != nil {
		return nil, err
	}
	a := f.adapter(in)
	for _, row := range rows {
		if a.RowID(row) == id {
			return row, nil
		}
	}
	return nil, &reconcile.NotFoundError{Entity: a.Entity(), ID: id}
}

func (f *relatedField[R, In, P]) get(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint) (any, error) {
	row, err := f.find(uow, in, word, id)
	if err != nil {
		return nil, err
	}
	out, err := f.render(uow, word, []*R{row})
	if err != nil {
		return nil, err
	}
	if list, ok := out.([]*R); ok && len(list) == 1 {
		return list[0], nil
	}
	return out, nil
}

func (f *relatedField[R, In, P]) patch(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint, raw []byte) (any, error) {
	row, err := f.find(uow, in, word, id)
	if err != nil {
		return nil, err
	}
	var item In
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, reconcile.Invalid("", f.field.Name, "expected an object")
	}
	if err := validation.Struct(item); err != nil {
		return nil, err
	}
	payloads, err := f.resolve(uow, in, []In{item})
	if err != nil {
		return nil, err
	}
	if err := reconcile.UpdateOne(uow, f.adapter(in), f.field.ConflictDetail, row, payloads[0], f.scope(in)); err != nil {
		return nil, err
	}
	return row, nil
}

func (f *relatedField[R, In, P]) remove(uow *reconcile.UnitOfWork, in *wordIn, word *Word, id uint) error {
	row, err := f.find(uow, in, word, id)
	if err != nil {
		return err
	}
	a := f.adapter(in)
	if f.field.Kind == reconcile.KindOwned {
		if r, ok := a.(reconcile.Remover[R]); ok {
			return r.Remove(uow, []*R{row})
		}
		return uow.Tx.Delete(row).Error
	}
	if err := uow.Tx.Model(word).Association(f.association).Delete(row); err != nil {
		return fmt.Errorf("detach %s: %w", f.field.Name, err)
	}
	uow.Detach(a.Entity(), id)
	_, err = f.svc.sweeper.SweepDetached(uow)
	return err
}

// loadWord returns the author's word or a NotFoundError.
func loadWord(uow *reconcile.UnitOfWork, authorID, id uint) (*Word, error) {
	var w Word
	err := uow.Tx.Where("author_id = ?", authorID).Take(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reconcile.NotFoundError{Entity: "word", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// withWord runs fn in a unit of work with the author's word loaded.
func (s *Service) withWord(ctx context.Context, authorID, wordID uint, fn func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		word, err := loadWord(uow, authorID, wordID)
		if err != nil {
			return err
		}
		return fn(uow, &wordIn{authorID: authorID, languageID: word.LanguageID, word: word}, word)
	})
}

func (s *Service) related(name string) (related, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, &reconcile.NotFoundError{Entity: "related field", Key: name}
	}
	return f, nil
}

// RelatedList lists the children of a word field, optionally filtered by search.
func (s *Service) RelatedList(ctx context.Context, authorID, wordID uint, field, search string) (any, error) {
	f, err := s.related(field)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		out, err = f.list(uow, in, word, search)
		return err
	})
	return out, err
}

// RelatedAppend adds children to a word field, keeping the existing ones.
// raw is a JSON list of child payloads.
func (s *Service) RelatedAppend(ctx context.Context, authorID, wordID uint, field string, raw []byte) (any, error) {
	f, err := s.related(field)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		out, err = f.append(uow, in, word, raw)
		return err
	})
	return out, err
}

// RelatedGet returns one child of a word field.
func (s *Service) RelatedGet(ctx context.Context, authorID, wordID uint, field string, id uint) (any, error) {
	f, err := s.related(field)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		out, err = f.get(uow, in, word, id)
		return err
	})
	return out, err
}

// RelatedPatch updates one child of a word field in place.
func (s *Service) RelatedPatch(ctx context.Context, authorID, wordID uint, field string, id uint, raw []byte) (any, error) {
	f, err := s.related(field)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		out, err = f.patch(uow, in, word, id, raw)
		return err
	})
	return out, err
}

// RelatedRemove detaches one child from a word. Owned children are deleted,
// shared ones only when no other word uses them.
func (s *Service) RelatedRemove(ctx context.Context, authorID, wordID uint, field string, id uint) error {
	f, err := s.related(field)
	if err != nil {
		return err
	}
	return s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		return f.remove(uow, in, word, id)
	})
}
