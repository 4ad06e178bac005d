package vocabulary

import (
	"errors"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/utils"

	"gorm.io/gorm"
)

// Resolved child payloads. Language references are already turned into ids.
type (
	formGroupIn struct {
		ID         uint
		Name       string
		Color      string
		LanguageID uint
	}
	translationIn struct {
		ID         uint
		Text       string
		LanguageID uint
	}
	textIn struct {
		ID         uint
		Text       string
		LanguageID uint
	}
	wordKey struct {
		ID         uint
		Text       string
		LanguageID uint
	}
)

func authorScope(authorID uint) reconcile.Scope {
	return reconcile.Scope{"author_id": authorID}
}

type typeAdapter struct{}

func (typeAdapter) Entity() string               { return "word_type" }
func (typeAdapter) RowID(r *WordType) uint       { return r.ID }
func (typeAdapter) PayloadID(string) uint        { return 0 }
func (typeAdapter) Equal(*WordType, string) bool { return true }
func (typeAdapter) Build(name string) *WordType  { return &WordType{Name: name} }
func (typeAdapter) Assign(*WordType, string)     {}
func (typeAdapter) NaturalKey(name string) map[string]any {
	return map[string]any{"name": strings.ToLower(strings.TrimSpace(name))}
}

func (typeAdapter) Match(uow *reconcile.UnitOfWork, name string, _ reconcile.Scope) (*WordType, error) {
	var t WordType
	err := uow.Tx.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (typeAdapter) Create(_ *reconcile.UnitOfWork, name string) (*WordType, error) {
	return nil, reconcile.Invalid(CodeUnknownType, FieldTypes, "Unknown word type "+name+".")
}

type tagAdapter struct{ authorID uint }

func (tagAdapter) Entity() string            { return "tag" }
func (tagAdapter) RowID(r *Tag) uint         { return r.ID }
func (tagAdapter) PayloadID(p TagInput) uint { return p.ID }
func (a tagAdapter) NaturalKey(p TagInput) map[string]any {
	return map[string]any{"author_id": a.authorID, "folded": utils.Fold(p.Name)}
}
func (tagAdapter) Equal(r *Tag, p TagInput) bool {
	return p.Name == "" || r.Name == p.Name
}
func (a tagAdapter) Build(p TagInput) *Tag {
	return &Tag{AuthorID: a.authorID, Name: p.Name, Folded: utils.Fold(p.Name)}
}
func (tagAdapter) Assign(r *Tag, p TagInput) {
	if p.Name != "" {
		r.Name = p.Name
		r.Folded = utils.Fold(p.Name)
	}
}

type formGroupAdapter struct{ authorID uint }

func (formGroupAdapter) Entity() string               { return "form_group" }
func (formGroupAdapter) RowID(r *FormGroup) uint      { return r.ID }
func (formGroupAdapter) PayloadID(p formGroupIn) uint { return p.ID }
func (a formGroupAdapter) NaturalKey(p formGroupIn) map[string]any {
	return map[string]any{"author_id": a.authorID, "language_id": p.LanguageID, "folded": utils.Fold(p.Name)}
}
func (formGroupAdapter) Equal(r *FormGroup, p formGroupIn) bool {
	if p.Name == "" {
		return true
	}
	return r.Name == p.Name && r.Color == p.Color && r.LanguageID == p.LanguageID
}
func (a formGroupAdapter) Build(p formGroupIn) *FormGroup {
	return &FormGroup{AuthorID: a.authorID, LanguageID: p.LanguageID, Name: p.Name, Folded: utils.Fold(p.Name), Color: p.Color}
}
func (formGroupAdapter) Assign(r *FormGroup, p formGroupIn) {
	if p.Name == "" {
		return
	}
	r.Name = p.Name
	r.Folded = utils.Fold(p.Name)
	r.Color = p.Color
	r.LanguageID = p.LanguageID
}

type translationAdapter struct{ authorID uint }

func (translationAdapter) Entity() string                 { return "translation" }
func (translationAdapter) RowID(r *Translation) uint      { return r.ID }
func (translationAdapter) PayloadID(p translationIn) uint { return p.ID }
func (a translationAdapter) NaturalKey(p translationIn) map[string]any {
	return map[string]any{"author_id": a.authorID, "slug": utils.Slugify(p.Text)}
}
func (translationAdapter) Equal(r *Translation, p translationIn) bool {
	return (p.Text == "" || r.Text == p.Text) && (p.LanguageID == 0 || r.LanguageID == p.LanguageID)
}
func (a translationAdapter) Build(p translationIn) *Translation {
	return &Translation{AuthorID: a.authorID, LanguageID: p.LanguageID, Text: p.Text, Slug: utils.Slugify(p.Text)}
}
func (translationAdapter) Assign(r *Translation, p translationIn) {
	if p.Text != "" {
		r.Text = p.Text
		r.Slug = utils.Slugify(p.Text)
	}
	if p.LanguageID != 0 {
		r.LanguageID = p.LanguageID
	}
}

func (a translationAdapter) Create(uow *reconcile.UnitOfWork, p translationIn) (*Translation, error) {
	if p.LanguageID == 0 {
		return nil, reconcile.Invalid("", FieldTranslations, "A new translation needs a language.")
	}
	t := a.Build(p)
	if err := uow.Tx.Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

type definitionAdapter struct{ authorID uint }

func (definitionAdapter) Entity() string           { return "definition" }
func (definitionAdapter) RowID(r *Definition) uint { return r.ID }
func (definitionAdapter) PayloadID(p textIn) uint  { return p.ID }
func (a definitionAdapter) NaturalKey(p textIn) map[string]any {
	return map[string]any{"author_id": a.authorID, "folded": utils.Fold(p.Text)}
}
func (definitionAdapter) Equal(r *Definition, p textIn) bool {
	return (p.Text == "" || r.Text == p.Text) && (p.LanguageID == 0 || r.LanguageID == p.LanguageID)
}
func (a definitionAdapter) Build(p textIn) *Definition {
	return &Definition{AuthorID: a.authorID, LanguageID: p.LanguageID, Text: p.Text, Folded: utils.Fold(p.Text)}
}
func (definitionAdapter) Assign(r *Definition, p textIn) {
	if p.Text != "" {
		r.Text = p.Text
		r.Folded = utils.Fold(p.Text)
	}
	if p.LanguageID != 0 {
		r.LanguageID = p.LanguageID
	}
}

type exampleAdapter struct{ authorID uint }

func (exampleAdapter) Entity() string             { return "example" }
func (exampleAdapter) RowID(r *UsageExample) uint { return r.ID }
func (exampleAdapter) PayloadID(p textIn) uint    { return p.ID }
func (a exampleAdapter) NaturalKey(p textIn) map[string]any {
	return map[string]any{"author_id": a.authorID, "folded": utils.Fold(p.Text)}
}
func (exampleAdapter) Equal(r *UsageExample, p textIn) bool {
	return (p.Text == "" || r.Text == p.Text) && (p.LanguageID == 0 || r.LanguageID == p.LanguageID)
}
func (a exampleAdapter) Build(p textIn) *UsageExample {
	return &UsageExample{AuthorID: a.authorID, LanguageID: p.LanguageID, Text: p.Text, Folded: utils.Fold(p.Text)}
}
func (exampleAdapter) Assign(r *UsageExample, p textIn) {
	if p.Text != "" {
		r.Text = p.Text
		r.Folded = utils.Fold(p.Text)
	}
	if p.LanguageID != 0 {
		r.LanguageID = p.LanguageID
	}
}

// noteAdapter builds notes owned by one word.
type noteAdapter struct{ wordID uint }

func (noteAdapter) Entity() string             { return "note" }
func (noteAdapter) RowID(r *Note) uint         { return r.ID }
func (noteAdapter) PayloadID(p NoteInput) uint { return p.ID }
func (a noteAdapter) NaturalKey(p NoteInput) map[string]any {
	return map[string]any{"word_id": a.wordID, "text": p.Text}
}
func (noteAdapter) Equal(r *Note, p NoteInput) bool { return p.Text == "" || r.Text == p.Text }
func (a noteAdapter) Build(p NoteInput) *Note       { return &Note{WordID: a.wordID, Text: p.Text} }
func (noteAdapter) Assign(r *Note, p NoteInput) {
	if p.Text != "" {
		r.Text = p.Text
	}
}

type quoteAdapter struct{ authorID uint }

func (quoteAdapter) Entity() string                 { return "quote" }
func (quoteAdapter) RowID(r *QuoteAssociation) uint { return r.ID }
func (quoteAdapter) PayloadID(p QuoteInput) uint    { return p.ID }
func (a quoteAdapter) NaturalKey(p QuoteInput) map[string]any {
	return map[string]any{"author_id": a.authorID, "folded": utils.Fold(p.Text)}
}
func (quoteAdapter) Equal(r *QuoteAssociation, p QuoteInput) bool {
	return p.Text == "" || (r.Text == p.Text && r.QuoteAuthor == p.Author)
}
func (a quoteAdapter) Build(p QuoteInput) *QuoteAssociation {
	return &QuoteAssociation{AuthorID: a.authorID, Text: p.Text, Folded: utils.Fold(p.Text), QuoteAuthor: p.Author}
}
func (quoteAdapter) Assign(r *QuoteAssociation, p QuoteInput) {
	if p.Text != "" {
		r.Text = p.Text
		r.Folded = utils.Fold(p.Text)
		r.QuoteAuthor = p.Author
	}
}

// imageAdapter has no natural key: every payload without id uploads a new image.
type imageAdapter struct {
	svc      *Service
	authorID uint
}

func (imageAdapter) Entity() string                           { return "image" }
func (imageAdapter) RowID(r *ImageAssociation) uint           { return r.ID }
func (imageAdapter) PayloadID(p ImageInput) uint              { return p.ID }
func (imageAdapter) NaturalKey(ImageInput) map[string]any     { return nil }
func (imageAdapter) Equal(*ImageAssociation, ImageInput) bool { return true }
func (imageAdapter) Assign(*ImageAssociation, ImageInput)     {}
func (a imageAdapter) Build(ImageInput) *ImageAssociation {
	return &ImageAssociation{AuthorID: a.authorID}
}

func (a imageAdapter) Create(uow *reconcile.UnitOfWork, p ImageInput) (*ImageAssociation, error) {
	return a.svc.storeImage(uow, a.authorID, p.Image)
}

// wordKeyAdapter resolves word references. A reference carries nothing but the
// key, so a key match is always reused. Unknown words are created only when
// create is set.
type wordKeyAdapter struct {
	authorID uint
	create   bool
}

func (wordKeyAdapter) Entity() string           { return "word" }
func (wordKeyAdapter) RowID(r *Word) uint       { return r.ID }
func (wordKeyAdapter) PayloadID(p wordKey) uint { return p.ID }
func (a wordKeyAdapter) NaturalKey(p wordKey) map[string]any {
	return map[string]any{"author_id": a.authorID, "slug": utils.Slugify(p.Text)}
}
func (wordKeyAdapter) Equal(*Word, wordKey) bool { return true }
func (a wordKeyAdapter) Build(p wordKey) *Word {
	return &Word{
		AuthorID:       a.authorID,
		LanguageID:     p.LanguageID,
		Text:           strings.TrimSpace(p.Text),
		Slug:           utils.Slugify(p.Text),
		ActivityStatus: StatusActive,
	}
}
func (wordKeyAdapter) Assign(*Word, wordKey) {}

func (a wordKeyAdapter) Create(uow *reconcile.UnitOfWork, p wordKey) (*Word, error) {
	if !a.create {
		return nil, &reconcile.NotFoundError{Entity: "word", Key: p.Text}
	}
	w := a.Build(p)
	if err := uow.Tx.Omit("Language").Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// wordAdapter detects duplicates of top-level words. A match is reused only
// when the scalars are equal and no nested children were submitted.
type wordAdapter struct{ authorID uint }

func (wordAdapter) Entity() string         { return "word" }
func (wordAdapter) RowID(r *Word) uint     { return r.ID }
func (wordAdapter) PayloadID(*wordIn) uint { return 0 }
func (a wordAdapter) NaturalKey(in *wordIn) map[string]any {
	return map[string]any{"author_id": a.authorID, "language_id": in.languageID, "slug": utils.Slugify(*in.text)}
}
func (wordAdapter) Equal(r *Word, in *wordIn) bool {
	return r.Text == *in.text && r.ActivityStatus == in.status() && r.IsProblematic == in.problematicOr(false) &&
		in.children.Empty()
}
func (a wordAdapter) Build(in *wordIn) *Word {
	return &Word{
		AuthorID:       a.authorID,
		LanguageID:     in.languageID,
		Text:           strings.TrimSpace(*in.text),
		Slug:           utils.Slugify(*in.text),
		ActivityStatus: in.status(),
		IsProblematic:  in.problematicOr(false),
	}
}
func (wordAdapter) Assign(*Word, *wordIn) {}
