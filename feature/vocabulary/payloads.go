package vocabulary

// WordRef points at a word by id or by its natural key.
type WordRef struct {
	ID       uint   `json:"id,omitempty"`
	Text     string `json:"text,omitempty" validate:"required_without=ID,omitempty,notblank,max=256"`
	Language string `json:"language,omitempty" validate:"omitempty,max=64"`
}

// TagInput is a nested tag.
type TagInput struct {
	ID   uint   `json:"id,omitempty"`
	Name string `json:"name" validate:"required_without=ID,omitempty,notblank,max=32"`
}

// FormGroupInput is a nested form group. Language defaults to the word language.
type FormGroupInput struct {
	ID       uint   `json:"id,omitempty"`
	Name     string `json:"name" validate:"required_without=ID,omitempty,notblank,max=64"`
	Language string `json:"language,omitempty" validate:"omitempty,max=64"`
	Color    string `json:"color,omitempty" validate:"omitempty,hexcolor,len=7"`
}

// TranslationInput is a nested translation. Language is required for new translations.
type TranslationInput struct {
	ID       uint   `json:"id,omitempty"`
	Text     string `json:"text" validate:"required_without=ID,omitempty,notblank,max=256"`
	Language string `json:"language,omitempty" validate:"omitempty,max=64"`
}

// TextInput is a nested definition or usage example. Language defaults to the word language.
type TextInput struct {
	ID       uint   `json:"id,omitempty"`
	Text     string `json:"text" validate:"required_without=ID,omitempty,notblank,min=2,max=512"`
	Language string `json:"language,omitempty" validate:"omitempty,max=64"`
}

// NoteInput is a nested note.
type NoteInput struct {
	ID   uint   `json:"id,omitempty"`
	Text string `json:"text" validate:"required_without=ID,omitempty,notblank,max=256"`
}

// ImageInput references a stored image by id or carries a new one as base64.
type ImageInput struct {
	ID    uint   `json:"id,omitempty"`
	Image []byte `json:"image,omitempty" validate:"required_without=ID"`
}

// QuoteInput is a nested quote association.
type QuoteInput struct {
	ID     uint   `json:"id,omitempty"`
	Text   string `json:"text" validate:"required_without=ID,omitempty,notblank,max=256"`
	Author string `json:"quote_author,omitempty" validate:"omitempty,max=64"`
}

// RelationInput links the current word with another one.
type RelationInput struct {
	ID       uint    `json:"id,omitempty"`
	FromWord *WordRef `json:"from_word,omitempty" validate:"required_without=ID,omitempty"`
	Note     string  `json:"note,omitempty" validate:"omitempty,max=256"`
}

// WordChildren holds the nested fields of a word. A nil list leaves the
// relation untouched on update; an empty list removes every child.
type WordChildren struct {
	Types             *[]string           `json:"types,omitempty" validate:"omitempty,dive,required,max=32"`
	Tags              *[]TagInput         `json:"tags,omitempty" validate:"omitempty,dive"`
	FormGroups        *[]FormGroupInput   `json:"form_groups,omitempty" validate:"omitempty,dive"`
	Translations      *[]TranslationInput `json:"translations,omitempty" validate:"omitempty,dive"`
	Definitions       *[]TextInput        `json:"definitions,omitempty" validate:"omitempty,dive"`
	Examples          *[]TextInput        `json:"examples,omitempty" validate:"omitempty,dive"`
	Notes             *[]NoteInput        `json:"notes,omitempty" validate:"omitempty,dive"`
	ImageAssociations *[]ImageInput       `json:"image_associations,omitempty" validate:"omitempty,dive"`
	QuoteAssociations *[]QuoteInput       `json:"quote_associations,omitempty" validate:"omitempty,dive"`
	Synonyms          *[]RelationInput    `json:"synonyms,omitempty" validate:"omitempty,dive"`
	Antonyms          *[]RelationInput    `json:"antonyms,omitempty" validate:"omitempty,dive"`
	Forms             *[]RelationInput    `json:"forms,omitempty" validate:"omitempty,dive"`
	Similars          *[]RelationInput    `json:"similars,omitempty" validate:"omitempty,dive"`
}

// Empty reports whether no nested field is present.
func (c WordChildren) Empty() bool {
	return c.Types == nil && c.Tags == nil && c.FormGroups == nil && c.Translations == nil &&
		c.Definitions == nil && c.Examples == nil && c.Notes == nil && c.ImageAssociations == nil &&
		c.QuoteAssociations == nil && c.Synonyms == nil && c.Antonyms == nil && c.Forms == nil &&
		c.Similars == nil
}

func (c *WordChildren) relations(kind RelationKind) *[]RelationInput {
	switch kind {
	case KindSynonym:
		return c.Synonyms
	case KindAntonym:
		return c.Antonyms
	case KindForm:
		return c.Forms
	default:
		return c.Similars
	}
}

// WordInput creates a word.
type WordInput struct {
	Text           string         `json:"text" validate:"required,notblank,max=256"`
	Language       string         `json:"language" validate:"required,max=64"`
	ActivityStatus ActivityStatus `json:"activity_status,omitempty" validate:"omitempty,oneof=active inactive mastered"`
	IsProblematic  bool           `json:"is_problematic,omitempty"`
	WordChildren
}

// WordPatch partially updates a word. Nil fields are left as they are.
type WordPatch struct {
	Text           *string         `json:"text,omitempty" validate:"omitempty,notblank,max=256"`
	Language       *string         `json:"language,omitempty" validate:"omitempty,max=64"`
	ActivityStatus *ActivityStatus `json:"activity_status,omitempty" validate:"omitempty,oneof=active inactive mastered"`
	IsProblematic  *bool           `json:"is_problematic,omitempty"`
	WordChildren
}

// WordsInput creates several words at once.
type WordsInput struct {
	Words []WordInput `json:"words" validate:"required,min=1,max=100,dive"`
}

// CollectionInput creates a collection.
type CollectionInput struct {
	Title       string     `json:"title" validate:"required,notblank,max=32"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=128"`
	Words       *[]WordRef `json:"words,omitempty" validate:"omitempty,dive"`
}

// CollectionPatch partially updates a collection.
type CollectionPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,notblank,max=32"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=128"`
	Words       *[]WordRef `json:"words,omitempty" validate:"omitempty,dive"`
}

// WordFilter narrows the word list.
type WordFilter struct {
	Search         string
	Language       string
	Tag            string
	ActivityStatus ActivityStatus
	Favorite       bool
	Limit          int
	Offset         int
}
