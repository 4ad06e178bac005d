package vocabulary

import "vocab-manager/core/reconcile"

// Nested field names of a word.
const (
	FieldTypes             = "types"
	FieldTags              = "tags"
	FieldFormGroups        = "form_groups"
	FieldTranslations      = "translations"
	FieldDefinitions       = "definitions"
	FieldExamples          = "examples"
	FieldNotes             = "notes"
	FieldImageAssociations = "image_associations"
	FieldQuoteAssociations = "quote_associations"
	FieldCollectionWords   = "words"
	FieldFromWord          = "from_word"
)

// Error codes of cross-field rules.
const (
	CodeSameLanguage     = "same_language_detail"
	CodeSameWords        = "same_words_detail"
	CodeLanguageMismatch = "language_mismatch_detail"
	CodeUnknownType      = "unknown_word_type"
	CodeRelationWord     = "relation_word_changed"
)

const wordConflictDetail = "This word already exists."

// RelationField returns the word field holding relations of kind.
func RelationField(kind RelationKind) string {
	return string(kind) + "s"
}

func relationSpec(kind RelationKind) reconcile.EntitySpec {
	return reconcile.EntitySpec{
		Entity: string(kind),
		Order:  reconcile.ChildrenFirst,
		Fields: []reconcile.NestedFieldSpec{
			{Name: FieldFromWord, Entity: "word", Kind: reconcile.KindReference, ConflictDetail: wordConflictDetail},
		},
	}
}

func relationField(kind RelationKind, limit int) reconcile.NestedFieldSpec {
	return reconcile.NestedFieldSpec{
		Name:           RelationField(kind),
		Entity:         string(kind),
		Kind:           reconcile.KindOwned,
		Limit:          limit,
		LimitDetail:    "Word " + RelationField(kind) + " amount limit exceeded.",
		ConflictDetail: "This " + string(kind) + " already exists.",
	}
}

// Registry declares the nested fields of every vocabulary entity.
var Registry = reconcile.MustRegistry(
	reconcile.EntitySpec{
		Entity: "word",
		Order:  reconcile.ParentFirst,
		Fields: []reconcile.NestedFieldSpec{
			{Name: FieldTypes, Entity: "word_type", Kind: reconcile.KindShared, Limit: 3,
				LimitDetail: "Word types amount limit exceeded."},
			{Name: FieldTags, Entity: "tag", Kind: reconcile.KindShared, Limit: 10,
				LimitDetail: "Word tags amount limit exceeded.", ConflictDetail: "This tag already exists."},
			{Name: FieldFormGroups, Entity: "form_group", Kind: reconcile.KindShared, Limit: 4,
				LimitDetail: "Word form groups amount limit exceeded.", ConflictDetail: "This form group already exists."},
			{Name: FieldTranslations, Entity: "translation", Kind: reconcile.KindShared, Limit: 24,
				LimitDetail: "Word translations amount limit exceeded.", ConflictDetail: "This translation already exists."},
			{Name: FieldDefinitions, Entity: "definition", Kind: reconcile.KindShared, Limit: 10,
				LimitDetail: "Word definitions amount limit exceeded.", ConflictDetail: "This definition already exists."},
			{Name: FieldExamples, Entity: "example", Kind: reconcile.KindShared, Limit: 10,
				LimitDetail: "Word examples amount limit exceeded.", ConflictDetail: "This example already exists."},
			{Name: FieldNotes, Entity: "note", Kind: reconcile.KindOwned, Limit: 10,
				LimitDetail: "Word notes amount limit exceeded.", ConflictDetail: "This note already exists."},
			{Name: FieldImageAssociations, Entity: "image", Kind: reconcile.KindShared, Limit: 10,
				LimitDetail: "Word image associations amount limit exceeded."},
			{Name: FieldQuoteAssociations, Entity: "quote", Kind: reconcile.KindShared, Limit: 10,
				LimitDetail: "Word quote associations amount limit exceeded.", ConflictDetail: "This quote already exists."},
			relationField(KindSynonym, 16),
			relationField(KindAntonym, 16),
			relationField(KindForm, 10),
			relationField(KindSimilar, 16),
		},
	},
	relationSpec(KindSynonym),
	relationSpec(KindAntonym),
	relationSpec(KindForm),
	relationSpec(KindSimilar),
	reconcile.EntitySpec{
		Entity: "collection",
		Order:  reconcile.ParentFirst,
		Fields: []reconcile.NestedFieldSpec{
			{Name: FieldCollectionWords, Entity: "word", Kind: reconcile.KindReference},
		},
	},
)

// orphanRules declares when shared word children are deleted. onImages runs
// before image rows are swept.
func orphanRules(onImages func(uow *reconcile.UnitOfWork, ids []uint) error) []reconcile.OrphanRule {
	return []reconcile.OrphanRule{
		{Entity: "tag", Table: "tags", JoinTables: []reconcile.JoinRef{{Table: "word_tags", Column: "tag_id"}}},
		{Entity: "form_group", Table: "form_groups", JoinTables: []reconcile.JoinRef{{Table: "word_form_groups", Column: "form_group_id"}}},
		{Entity: "translation", Table: "translations", JoinTables: []reconcile.JoinRef{{Table: "word_translations", Column: "translation_id"}}},
		{Entity: "definition", Table: "definitions", JoinTables: []reconcile.JoinRef{{Table: "word_definitions", Column: "definition_id"}}},
		{Entity: "example", Table: "usage_examples", JoinTables: []reconcile.JoinRef{{Table: "word_examples", Column: "usage_example_id"}}},
		{Entity: "quote", Table: "quote_associations", JoinTables: []reconcile.JoinRef{{Table: "word_quote_associations", Column: "quote_association_id"}}},
		{
			Entity:     "image",
			Table:      "image_associations",
			JoinTables: []reconcile.JoinRef{{Table: "word_image_associations", Column: "image_association_id"}},
			OnSweep:    onImages,
		},
	}
}
