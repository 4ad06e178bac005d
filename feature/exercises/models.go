package exercises

import (
	"time"

	"vocab-manager/feature/vocabulary"

	"gorm.io/gorm"
)

// Exercise is the slug of an exercise.
type Exercise string

const (
	ExerciseTranslator Exercise = "translator"
	ExerciseAssociate  Exercise = "associate"
)

// Exercises lists every exercise in display order.
var Exercises = []Info{
	{Slug: ExerciseTranslator, Name: "Translator", Description: "Translate words from or into the language you learn."},
	{Slug: ExerciseAssociate, Name: "Associate", Description: "Match words with their images and quotes."},
}

// Info describes an exercise.
type Info struct {
	Slug        Exercise `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// InfoOf returns the description of e.
func InfoOf(e Exercise) Info {
	for _, info := range Exercises {
		if info.Slug == e {
			return info
		}
	}
	return Info{Slug: e}
}

// Valid reports whether e is a known exercise.
func (e Exercise) Valid() bool {
	return e == ExerciseTranslator || e == ExerciseAssociate
}

// Amount limits.
const (
	MaxWordSets    = 50
	MaxSetWords    = 100
	MinRepetitions = 1
	MaxRepetitions = 10
)

// Answer time limits of the translator.
const (
	MinAnswerTime = 30 * time.Second
	MaxAnswerTime = 5 * time.Minute
)

// WordSet is a named selection of words for one exercise.
type WordSet struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	AuthorID   uint               `gorm:"uniqueIndex:idx_word_set_key;not null" json:"-"`
	Exercise   Exercise           `gorm:"size:16;uniqueIndex:idx_word_set_key;not null" json:"exercise"`
	Name       string             `gorm:"size:64;not null" json:"name"`
	Folded     string             `gorm:"size:64;uniqueIndex:idx_word_set_key;not null" json:"-"`
	Words      []*vocabulary.Word `gorm:"many2many:word_set_words;" json:"words,omitempty"`
	WordsCount int64              `gorm:"-" json:"words_count"`
	CreatedAt  time.Time          `json:"created"`
	UpdatedAt  time.Time          `json:"last_modified"`
}

// FavoriteExercise marks an exercise as favorite for a user.
type FavoriteExercise struct {
	ID        uint     `gorm:"primaryKey"`
	UserID    uint     `gorm:"uniqueIndex:idx_favorite_exercise;not null"`
	Exercise  Exercise `gorm:"size:16;uniqueIndex:idx_favorite_exercise;not null"`
	CreatedAt time.Time
}

// AvailableCollection is a collection with the number of its words usable in an exercise.
type AvailableCollection struct {
	*vocabulary.Collection
	AvailableWords int64 `json:"available_words_count"`
}

// TranslatorMode is how answers are given in the translator.
type TranslatorMode string

const (
	ModeFreeInput    TranslatorMode = "free_input"
	ModeFreeInputMax TranslatorMode = "free_input_max"
	ModeVariants     TranslatorMode = "variants"
)

// Direction is the language a translator question is asked in.
type Direction string

const (
	FromLearning         Direction = "learning_to_native"
	FromNative           Direction = "native_to_learning"
	LearningToLearning   Direction = "learning_to_learning"
	DirectionAlternately Direction = "alternately"
)

// TranslatorSettings holds the defaults of one user for the translator.
// AnswerTimeLimit is in seconds; nil means no limit.
type TranslatorSettings struct {
	UserID          uint           `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Mode            TranslatorMode `gorm:"size:16;not null" json:"mode"`
	AnswerTimeLimit *int           `json:"answer_time_limit"`
	Repetitions     int            `gorm:"not null" json:"repetitions_amount"`
	FromLanguage    Direction      `gorm:"size:32;not null" json:"from_language"`
	UpdatedAt       time.Time      `json:"last_modified"`
}

// TableName overrides the table name used by TranslatorSettings.
func (TranslatorSettings) TableName() string {
	return "translator_settings"
}

// DefaultTranslatorSettings returns the settings of a user who never changed them.
func DefaultTranslatorSettings(userID uint) *TranslatorSettings {
	return &TranslatorSettings{
		UserID:       userID,
		Mode:         ModeFreeInput,
		Repetitions:  MinRepetitions,
		FromLanguage: FromLearning,
	}
}

// Models returns every model of the package.
func Models() []any {
	return []any{&WordSet{}, &TranslatorSettings{}, &FavoriteExercise{}}
}

// Migrate creates the exercise tables. The vocabulary tables must exist.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
