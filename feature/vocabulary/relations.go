package vocabulary

import (
	"errors"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/utils"

	"gorm.io/gorm"
)

// WordSummary is the short form of a word used inside other objects.
type WordSummary struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	LanguageID uint   `json:"language_id"`
}

// RelatedWord is a relation seen from one of its words.
type RelatedWord struct {
	ID   uint        `json:"id"`
	Note string      `json:"note,omitempty"`
	Word WordSummary `json:"word"`
}

// WordDetail is a word with its relations and favorite flag.
type WordDetail struct {
	*Word
	Synonyms []RelatedWord `json:"synonyms"`
	Antonyms []RelatedWord `json:"antonyms"`
	Forms    []RelatedWord `json:"forms"`
	Similars []RelatedWord `json:"similars"`
	Favorite bool          `json:"favorite"`
}

// relationViews renders rels from the side of wordID, keeping their order.
func relationViews(db *gorm.DB, wordID uint, rels []*Relation) ([]RelatedWord, error) {
	out := make([]RelatedWord, 0, len(rels))
	if len(rels) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Other(wordID))
	}
	var words []WordSummary
	if err := db.Model(&Word{}).Select("id", "text", "language_id").Where("id IN ?", ids).Find(&words).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]WordSummary, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	for _, r := range rels {
		out = append(out, RelatedWord{ID: r.ID, Note: r.Note, Word: byID[r.Other(wordID)]})
	}
	return out, nil
}

// relationIn is the payload of one relation row. The row is created children
// first: the from word is resolved or created, then the row referencing it.
type relationIn struct {
	kind     RelationKind
	authorID uint
	to       *Word
	from     WordRef
	note     string

	fromWord       *Word
	fromLanguageID uint
}

type relationWriter struct{}

func (relationWriter) Build(_ *reconcile.UnitOfWork, in *relationIn) (*Relation, error) {
	return &Relation{AuthorID: in.authorID, Kind: in.kind, ToWordID: in.to.ID, Note: in.note}, nil
}

func (relationWriter) Assign(_ *reconcile.UnitOfWork, rel *Relation, in *relationIn) error {
	rel.Note = in.note
	return nil
}

// fromWordBinding validates and injects the from word of a relation.
func (s *Service) fromWordBinding() reconcile.Binding[Relation, *relationIn] {
	return reconcile.Binding[Relation, *relationIn]{
		Field:   FieldFromWord,
		Present: func(*relationIn) bool { return true },
		Validate: func(uow *reconcile.UnitOfWork, in *relationIn) error {
			langID := in.to.LanguageID
			switch {
			case in.from.ID != 0:
				w, err := loadWord(uow, in.authorID, in.from.ID)
				if err != nil {
					return err
				}
				in.fromWord = w
				langID = w.LanguageID
			case in.from.Language != "":
				lang, err := s.langs.Resolve(uow, in.from.Language)
				if err != nil {
					return err
				}
				langID = lang.ID
			}
			if langID != in.to.LanguageID {
				return reconcile.Invalid(CodeSameLanguage, FieldFromWord, "Both words must be in the same language.")
			}
			in.fromLanguageID = langID

			same := in.fromWord != nil && in.fromWord.ID == in.to.ID
			if in.fromWord == nil && utils.Slugify(in.from.Text) == in.to.Slug {
				same = true
			}
			if same {
				return reconcile.Invalid(CodeSameWords, FieldFromWord, "A word cannot be related to itself.")
			}
			return nil
		},
		Inject: func(uow *reconcile.UnitOfWork, field reconcile.NestedFieldSpec, rel *Relation, in *relationIn) error {
			from := in.fromWord
			if from == nil {
				w, _, err := reconcile.CreateOne[Word, wordKey](uow, wordKeyAdapter{authorID: in.authorID, create: true},
					field.ConflictDetail, wordKey{Text: in.from.Text, LanguageID: in.fromLanguageID}, authorScope(in.authorID))
				if err != nil {
					return err
				}
				from = w
			}
			existing, err := findRelation(uow, in.kind, from.ID, in.to.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return reconcile.NewAlreadyExist("This "+string(in.kind)+" already exists.", existing, in.from)
			}
			rel.FromWordID = from.ID
			return nil
		},
	}
}

// findRelation returns the relation of kind between a and b in either direction.
func findRelation(uow *reconcile.UnitOfWork, kind RelationKind, a, b uint) (*Relation, error) {
	var rel Relation
	err := uow.Tx.Where("kind = ? AND ((from_word_id = ? AND to_word_id = ?) OR (from_word_id = ? AND to_word_id = ?))",
		kind, a, b, b, a).Take(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// lookupWord finds the word ref points at without creating it. References by
// key that match nothing return nil.
func (s *Service) lookupWord(uow *reconcile.UnitOfWork, authorID uint, ref WordRef, defaultLanguage uint) (*Word, error) {
	if ref.ID != 0 {
		return loadWord(uow, authorID, ref.ID)
	}
	langID := defaultLanguage
	if ref.Language != "" {
		lang, err := s.langs.Resolve(uow, ref.Language)
		if err != nil {
			return nil, err
		}
		langID = lang.ID
	}
	var w Word
	err := uow.Tx.Where("author_id = ? AND language_id = ? AND slug = ?", authorID, langID, utils.Slugify(ref.Text)).Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// pinRelationWords rejects a payload that addresses a stored relation by id but
// names another from word. The word of a relation is never reassigned.
func (s *Service) pinRelationWords(kind RelationKind) func(*reconcile.UnitOfWork, *wordIn, []RelationInput) ([]RelationInput, error) {
	return func(uow *reconcile.UnitOfWork, in *wordIn, items []RelationInput) ([]RelationInput, error) {
		if in.word == nil {
			return items, nil
		}
		for _, it := range items {
			if it.ID == 0 || it.FromWord == nil {
				continue
			}
			var rel Relation
			err := uow.Tx.Where("kind = ? AND (from_word_id = ? OR to_word_id = ?)", kind, in.word.ID, in.word.ID).
				Take(&rel, it.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			other, err := s.lookupWord(uow, in.authorID, *it.FromWord, in.word.LanguageID)
			if err != nil {
				return nil, err
			}
			if other == nil || other.ID != rel.Other(in.word.ID) {
				return nil, reconcile.Invalid(CodeRelationWord, RelationField(kind),
					"The word of an existing relation cannot be changed.")
			}
		}
		return items, nil
	}
}

// relationAdapter reconciles the relations of one kind of the word in in.word.
type relationAdapter struct {
	svc  *Service
	kind RelationKind
	in   *wordIn
}

func (a relationAdapter) Entity() string               { return string(a.kind) }
func (relationAdapter) RowID(r *Relation) uint         { return r.ID }
func (relationAdapter) PayloadID(p RelationInput) uint { return p.ID }

// NaturalKey only fingerprints repeated payloads; stored rows are found by Match.
func (relationAdapter) NaturalKey(p RelationInput) map[string]any {
	switch {
	case p.FromWord == nil:
		return nil
	case p.FromWord.ID != 0:
		return map[string]any{"from_word_id": p.FromWord.ID}
	default:
		return map[string]any{"from_slug": utils.Slugify(p.FromWord.Text), "from_language": strings.ToLower(p.FromWord.Language)}
	}
}

func (a relationAdapter) Equal(r *Relation, p RelationInput) bool {
	if p.FromWord != nil && p.FromWord.ID != 0 && p.FromWord.ID != r.Other(a.in.word.ID) {
		return false
	}
	return r.Note == p.Note
}

func (a relationAdapter) Build(p RelationInput) *Relation {
	return &Relation{AuthorID: a.in.authorID, Kind: a.kind, ToWordID: a.in.word.ID, Note: p.Note}
}

func (relationAdapter) Assign(r *Relation, p RelationInput) {
	r.Note = p.Note
}

func (a relationAdapter) Match(uow *reconcile.UnitOfWork, p RelationInput, _ reconcile.Scope) (*Relation, error) {
	if p.FromWord == nil {
		return nil, nil
	}
	other, err := a.svc.lookupWord(uow, a.in.authorID, *p.FromWord, a.in.word.LanguageID)
	if err != nil || other == nil {
		return nil, err
	}
	return findRelation(uow, a.kind, other.ID, a.in.word.ID)
}

func (a relationAdapter) Create(uow *reconcile.UnitOfWork, p RelationInput) (*Relation, error) {
	if p.FromWord == nil {
		return nil, reconcile.Invalid("", RelationField(a.kind), "from_word is required")
	}
	return a.svc.relations[a.kind].Create(uow, &relationIn{
		kind:     a.kind,
		authorID: a.in.authorID,
		to:       a.in.word,
		from:     *p.FromWord,
		note:     p.Note,
	})
}
