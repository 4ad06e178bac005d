package vocabulary

import (
	"strings"

	"vocab-manager/core/reconcile"
)

func identity[T any](_ *reconcile.UnitOfWork, _ *wordIn, items []T) ([]T, error) {
	return items, nil
}

func sharedScope(in *wordIn) reconcile.Scope {
	return authorScope(in.authorID)
}

// wordFields declares how each nested field of a word is resolved and reconciled.
func (s *Service) wordFields() []related {
	fields := []related{
		&relatedField[WordType, string, string]{
			svc:         s,
			field:       mustField(FieldTypes),
			association: "Types",
			search:      "name",
			items:       func(c *WordChildren) *[]string { return c.Types },
			resolve:     identity[string],
			adapter:     func(*wordIn) reconcile.Adapter[WordType, string] { return typeAdapter{} },
			scope:       func(*wordIn) reconcile.Scope { return nil },
		},
		&relatedField[Tag, TagInput, TagInput]{
			svc:         s,
			field:       mustField(FieldTags),
			association: "Tags",
			search:      "name",
			items:       func(c *WordChildren) *[]TagInput { return c.Tags },
			resolve: func(_ *reconcile.UnitOfWork, _ *wordIn, items []TagInput) ([]TagInput, error) {
				out := make([]TagInput, len(items))
				for i, it := range items {
					out[i] = TagInput{ID: it.ID, Name: strings.TrimSpace(it.Name)}
				}
				return out, nil
			},
			adapter: func(in *wordIn) reconcile.Adapter[Tag, TagInput] { return tagAdapter{authorID: in.authorID} },
			scope:   sharedScope,
		},
		&relatedField[FormGroup, FormGroupInput, formGroupIn]{
			svc:         s,
			field:       mustField(FieldFormGroups),
			association: "FormGroups",
			search:      "name",
			items:       func(c *WordChildren) *[]FormGroupInput { return c.FormGroups },
			resolve: func(uow *reconcile.UnitOfWork, in *wordIn, items []FormGroupInput) ([]formGroupIn, error) {
				out := make([]formGroupIn, len(items))
				for i, it := range items {
					langID, err := s.childLanguage(uow, in, FieldFormGroups, it.ID, it.Language)
					if err != nil {
						return nil, err
					}
					out[i] = formGroupIn{ID: it.ID, Name: strings.TrimSpace(it.Name), Color: strings.ToUpper(it.Color), LanguageID: langID}
				}
				return out, nil
			},
			adapter: func(in *wordIn) reconcile.Adapter[FormGroup, formGroupIn] {
				return formGroupAdapter{authorID: in.authorID}
			},
			scope: sharedScope,
		},
		&relatedField[Translation, TranslationInput, translationIn]{
			svc:         s,
			field:       mustField(FieldTranslations),
			association: "Translations",
			search:      "text",
			items:       func(c *WordChildren) *[]TranslationInput { return c.Translations },
			resolve: func(uow *reconcile.UnitOfWork, _ *wordIn, items []TranslationInput) ([]translationIn, error) {
				out := make([]translationIn, len(items))
				for i, it := range items {
					p := translationIn{ID: it.ID, Text: strings.TrimSpace(it.Text)}
					if it.Language != "" {
						lang, err := s.langs.Resolve(uow, it.Language)
						if err != nil {
							return nil, err
						}
						p.LanguageID = lang.ID
					}
					out[i] = p
				}
				return out, nil
			},
			adapter: func(in *wordIn) reconcile.Adapter[Translation, translationIn] {
				return translationAdapter{authorID: in.authorID}
			},
			scope: sharedScope,
		},
		&relatedField[Definition, TextInput, textIn]{
			svc:         s,
			field:       mustField(FieldDefinitions),
			association: "Definitions",
			search:      "text",
			items:       func(c *WordChildren) *[]TextInput { return c.Definitions },
			resolve:     s.resolveTexts(FieldDefinitions),
			adapter: func(in *wordIn) reconcile.Adapter[Definition, textIn] {
				return definitionAdapter{authorID: in.authorID}
			},
			scope: sharedScope,
		},
		&relatedField[UsageExample, TextInput, textIn]{
			svc:         s,
			field:       mustField(FieldExamples),
			association: "Examples",
			search:      "text",
			items:       func(c *WordChildren) *[]TextInput { return c.Examples },
			resolve:     s.resolveTexts(FieldExamples),
			adapter: func(in *wordIn) reconcile.Adapter[UsageExample, textIn] {
				return exampleAdapter{authorID: in.authorID}
			},
			scope: sharedScope,
		},
		&relatedField[Note, NoteInput, NoteInput]{
			svc:    s,
			field:  mustField(FieldNotes),
			search: "text",
			items:  func(c *WordChildren) *[]NoteInput { return c.Notes },
			resolve: func(_ *reconcile.UnitOfWork, _ *wordIn, items []NoteInput) ([]NoteInput, error) {
				out := make([]NoteInput, len(items))
				for i, it := range items {
					out[i] = NoteInput{ID: it.ID, Text: strings.TrimSpace(it.Text)}
				}
				return out, nil
			},
			adapter: func(in *wordIn) reconcile.Adapter[Note, NoteInput] { return noteAdapter{wordID: in.word.ID} },
			scope:   func(in *wordIn) reconcile.Scope { return reconcile.Scope{"word_id": in.word.ID} },
			existing: func(uow *reconcile.UnitOfWork, word *Word) ([]*Note, error) {
				var notes []*Note
				err := uow.Tx.Where("word_id = ?", word.ID).Order("id").Find(&notes).Error
				return notes, err
			},
		},
		&relatedField[ImageAssociation, ImageInput, ImageInput]{
			svc:         s,
			field:       mustField(FieldImageAssociations),
			association: "ImageAssociations",
			items:       func(c *WordChildren) *[]ImageInput { return c.ImageAssociations },
			resolve:     identity[ImageInput],
			adapter: func(in *wordIn) reconcile.Adapter[ImageAssociation, ImageInput] {
				return imageAdapter{svc: s, authorID: in.authorID}
			},
			scope: sharedScope,
		},
		&relatedField[QuoteAssociation, QuoteInput, QuoteInput]{
			svc:         s,
			field:       mustField(FieldQuoteAssociations),
			association: "QuoteAssociations",
			search:      "text",
			items:       func(c *WordChildren) *[]QuoteInput { return c.QuoteAssociations },
			resolve: func(_ *reconcile.UnitOfWork, _ *wordIn, items []QuoteInput) ([]QuoteInput, error) {
				out := make([]QuoteInput, len(items))
				for i, it := range items {
					out[i] = QuoteInput{ID: it.ID, Text: strings.TrimSpace(it.Text), Author: strings.TrimSpace(it.Author)}
				}
				return out, nil
			},
			adapter: func(in *wordIn) reconcile.Adapter[QuoteAssociation, QuoteInput] {
				return quoteAdapter{authorID: in.authorID}
			},
			scope: sharedScope,
		},
	}
	for _, kind := range RelationKinds {
		fields = append(fields, s.relationField(kind))
	}
	return fields
}

func (s *Service) resolveTexts(field string) func(*reconcile.UnitOfWork, *wordIn, []TextInput) ([]textIn, error) {
	return func(uow *reconcile.UnitOfWork, in *wordIn, items []TextInput) ([]textIn, error) {
		out := make([]textIn, len(items))
		for i, it := range items {
			langID, err := s.childLanguage(uow, in, field, it.ID, it.Language)
			if err != nil {
				return nil, err
			}
			out[i] = textIn{ID: it.ID, Text: strings.TrimSpace(it.Text), LanguageID: langID}
		}
		return out, nil
	}
}

func (s *Service) relationField(kind RelationKind) related {
	return &relatedField[Relation, RelationInput, RelationInput]{
		svc:     s,
		field:   mustField(RelationField(kind)),
		items:   func(c *WordChildren) *[]RelationInput { return c.relations(kind) },
		resolve: s.pinRelationWords(kind),
		adapter: func(in *wordIn) reconcile.Adapter[Relation, RelationInput] {
			return relationAdapter{svc: s, kind: kind, in: in}
		},
		scope: func(in *wordIn) reconcile.Scope {
			return reconcile.Scope{"kind": kind, "to_word_id": in.word.ID}
		},
		existing: func(uow *reconcile.UnitOfWork, word *Word) ([]*Relation, error) {
			var rels []*Relation
			err := uow.Tx.Where("kind = ? AND (from_word_id = ? OR to_word_id = ?)", kind, word.ID, word.ID).
				Order("id").Find(&rels).Error
			return rels, err
		},
		view: func(uow *reconcile.UnitOfWork, word *Word, rows []*Relation) (any, error) {
			return relationViews(uow.Tx, word.ID, rows)
		},
	}
}
