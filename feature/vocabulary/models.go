package vocabulary

import (
	"time"

	"vocab-manager/feature/languages"

	"gorm.io/gorm"
)

// ActivityStatus tracks how well a word is learned.
type ActivityStatus string

const (
	StatusActive   ActivityStatus = "active"
	StatusInactive ActivityStatus = "inactive"
	StatusMastered ActivityStatus = "mastered"
)

// RelationKind discriminates the synonym-like links between two words.
type RelationKind string

const (
	KindSynonym RelationKind = "synonym"
	KindAntonym RelationKind = "antonym"
	KindForm    RelationKind = "form"
	KindSimilar RelationKind = "similar"
)

// RelationKinds lists every relation kind in display order.
var RelationKinds = []RelationKind{KindSynonym, KindAntonym, KindForm, KindSimilar}

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	for _, known := range RelationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// WordType is a part of speech. Types are reference data and never created by users.
type WordType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

// Tag labels words of one author.
type Tag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"index:idx_tag_key;not null" json:"-"`
	Name     string `gorm:"size:32;not null" json:"name"`
	Folded   string `gorm:"size:32;index:idx_tag_key;not null" json:"-"`
}

// FormGroup groups word forms (e.g. "past tense") of one language.
type FormGroup struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AuthorID   uint   `gorm:"index:idx_form_group_key;not null" json:"-"`
	LanguageID uint   `gorm:"index:idx_form_group_key;not null" json:"language_id"`
	Name       string `gorm:"size:64;not null" json:"name"`
	Folded     string `gorm:"size:64;index:idx_form_group_key;not null" json:"-"`
	Color      string `gorm:"size:7" json:"color,omitempty"`
}

// Translation is a rendering of a word in another language. Shared between words.
type Translation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"index:idx_translation_key;not null" json:"-"`
	LanguageID uint      `gorm:"not null" json:"language_id"`
	Text       string    `gorm:"size:256;not null" json:"text"`
	Slug       string    `gorm:"size:256;index:idx_translation_key;not null" json:"-"`
	CreatedAt  time.Time `json:"created"`
}

// Definition explains a word.
type Definition struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"index:idx_definition_key;not null" json:"-"`
	LanguageID uint      `gorm:"not null" json:"language_id"`
	Text       string    `gorm:"size:512;not null" json:"text"`
	Folded     string    `gorm:"size:512;index:idx_definition_key;not null" json:"-"`
	CreatedAt  time.Time `json:"created"`
}

// UsageExample shows a word in a sentence.
type UsageExample struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"index:idx_example_key;not null" json:"-"`
	LanguageID uint      `gorm:"not null" json:"language_id"`
	Text       string    `gorm:"size:512;not null" json:"text"`
	Folded     string    `gorm:"size:512;index:idx_example_key;not null" json:"-"`
	CreatedAt  time.Time `json:"created"`
}

// Note is a free-form remark owned by exactly one word.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WordID    uint      `gorm:"index;not null" json:"-"`
	Text      string    `gorm:"size:256;not null" json:"text"`
	CreatedAt time.Time `json:"created"`
}

// ImageAssociation is a picture stored in object storage.
type ImageAssociation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"index;not null" json:"-"`
	ObjectKey   string    `gorm:"size:128;uniqueIndex;not null" json:"key"`
	ContentType string    `gorm:"size:32;not null" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `json:"created"`
}

// QuoteAssociation is a citation featuring a word.
type QuoteAssociation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"index:idx_quote_key;not null" json:"-"`
	Text        string    `gorm:"size:256;not null" json:"text"`
	Folded      string    `gorm:"size:256;index:idx_quote_key;not null" json:"-"`
	QuoteAuthor string    `gorm:"size:64" json:"quote_author,omitempty"`
	CreatedAt   time.Time `json:"created"`
}

// Word is the root of the vocabulary. Its natural key is (author, language, slug).
type Word struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	AuthorID       uint               `gorm:"uniqueIndex:idx_word_key;not null" json:"-"`
	LanguageID     uint               `gorm:"uniqueIndex:idx_word_key;not null" json:"-"`
	Language       languages.Language `gorm:"foreignKey:LanguageID" json:"language"`
	Text           string             `gorm:"size:256;not null" json:"text"`
	Slug           string             `gorm:"size:256;uniqueIndex:idx_word_key;not null" json:"slug"`
	ActivityStatus ActivityStatus     `gorm:"size:16;not null;default:active" json:"activity_status"`
	IsProblematic  bool               `gorm:"not null;default:false" json:"is_problematic"`

	Types             []*WordType         `gorm:"many2many:word_type_links;" json:"types,omitempty"`
	Tags              []*Tag              `gorm:"many2many:word_tags;" json:"tags,omitempty"`
	FormGroups        []*FormGroup        `gorm:"many2many:word_form_groups;" json:"form_groups,omitempty"`
	Translations      []*Translation      `gorm:"many2many:word_translations;" json:"translations,omitempty"`
	Definitions       []*Definition       `gorm:"many2many:word_definitions;" json:"definitions,omitempty"`
	Examples          []*UsageExample     `gorm:"many2many:word_examples;" json:"examples,omitempty"`
	Notes             []*Note             `gorm:"foreignKey:WordID" json:"notes,omitempty"`
	ImageAssociations []*ImageAssociation `gorm:"many2many:word_image_associations;" json:"image_associations,omitempty"`
	QuoteAssociations []*QuoteAssociation `gorm:"many2many:word_quote_associations;" json:"quote_associations,omitempty"`

	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"last_modified"`
}

// Relation links two words of the same language. A pair is stored once and
// read from both sides.
type Relation struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	AuthorID   uint         `gorm:"index;not null" json:"-"`
	Kind       RelationKind `gorm:"size:16;uniqueIndex:idx_relation_pair;not null" json:"kind"`
	FromWordID uint         `gorm:"uniqueIndex:idx_relation_pair;not null" json:"from_word_id"`
	ToWordID   uint         `gorm:"uniqueIndex:idx_relation_pair;not null" json:"to_word_id"`
	Note       string       `gorm:"size:256" json:"note,omitempty"`
	CreatedAt  time.Time    `json:"created"`
}

// Other returns the id of the word on the opposite side of wordID.
func (r *Relation) Other(wordID uint) uint {
	if r.FromWordID == wordID {
		return r.ToWordID
	}
	return r.FromWordID
}

// Collection is a named list of words.
type Collection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"uniqueIndex:idx_collection_key;not null" json:"-"`
	Title       string    `gorm:"size:32;not null" json:"title"`
	Folded      string    `gorm:"size:32;uniqueIndex:idx_collection_key;not null" json:"-"`
	Description string    `gorm:"size:128" json:"description"`
	Words       []*Word   `gorm:"many2many:collection_words;" json:"words,omitempty"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"last_modified"`
}

// FavoriteWord marks a word as favorite for its author.
type FavoriteWord struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_favorite_word;not null"`
	WordID    uint `gorm:"uniqueIndex:idx_favorite_word;not null"`
	CreatedAt time.Time
}

// FavoriteCollection marks a collection as favorite for its author.
type FavoriteCollection struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"uniqueIndex:idx_favorite_collection;not null"`
	CollectionID uint `gorm:"uniqueIndex:idx_favorite_collection;not null"`
	CreatedAt    time.Time
}

// DefaultTypes is the part-of-speech list written by SeedTypes.
var DefaultTypes = []string{
	"noun", "verb", "adjective", "adverb", "pronoun", "preposition",
	"conjunction", "interjection", "numeral", "article", "particle", "phrase", "idiom",
}

// Models returns every table of the feature in migration order.
func Models() []any {
	return []any{
		&WordType{}, &Tag{}, &FormGroup{}, &Translation{}, &Definition{}, &UsageExample{},
		&ImageAssociation{}, &QuoteAssociation{}, &Word{}, &Note{}, &Relation{},
		&Collection{}, &FavoriteWord{}, &FavoriteCollection{},
	}
}

// Migrate creates the vocabulary tables and seeds the word types.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return SeedTypes(db)
}

// SeedTypes inserts missing word types.
func SeedTypes(db *gorm.DB) error {
	for _, name := range DefaultTypes {
		t := WordType{Name: name}
		if err := db.Where(WordType{Name: name}).FirstOrCreate(&t).Error; err != nil {
			return err
		}
	}
	return nil
}
