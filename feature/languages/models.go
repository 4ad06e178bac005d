package languages

import "time"

// Kind distinguishes native and learning languages of a user.
type Kind string

const (
	KindNative   Kind = "native"
	KindLearning Kind = "learning"
)

// Amount limits per user.
const (
	NativeLimit   = 2
	LearningLimit = 5
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindNative || k == KindLearning
}

// Limit returns the per-user ceiling for the kind.
func (k Kind) Limit() int {
	if k == KindNative {
		return NativeLimit
	}
	return LearningLimit
}

// Language is reference data seeded by the migrate command.
type Language struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:64;not null" json:"name"`
	IsoCode string `gorm:"size:8;uniqueIndex;not null" json:"isocode"`
}

// UserLanguage links a user to a native or learning language.
type UserLanguage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_user_language;not null" json:"-"`
	LanguageID uint      `gorm:"uniqueIndex:idx_user_language;not null" json:"-"`
	Kind       Kind      `gorm:"size:16;not null" json:"kind"`
	Language   Language  `gorm:"foreignKey:LanguageID" json:"language"`
	CreatedAt  time.Time `json:"created"`
}

// Defaults is the reference set written by Seed.
var Defaults = []Language{
	{Name: "English", IsoCode: "en"},
	{Name: "Russian", IsoCode: "ru"},
	{Name: "German", IsoCode: "de"},
	{Name: "French", IsoCode: "fr"},
	{Name: "Spanish", IsoCode: "es"},
	{Name: "Italian", IsoCode: "it"},
	{Name: "Portuguese", IsoCode: "pt"},
	{Name: "Japanese", IsoCode: "ja"},
	{Name: "Chinese", IsoCode: "zh"},
	{Name: "Korean", IsoCode: "ko"},
	{Name: "Turkish", IsoCode: "tr"},
	{Name: "Polish", IsoCode: "pl"},
}
