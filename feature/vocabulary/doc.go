// Package vocabulary stores words together with their nested children:
// types, tags, form groups, translations, definitions, usage examples, notes,
// image and quote associations, and the synonym family of relations.
//
// Every write goes through the reconcile engine. A word payload may carry any
// subset of its nested fields; each present field is reconciled against the
// stored rows inside one transaction, omitted fields are left alone, and
// shared children that lose their last word are swept before commit.
//
// Collections group existing words. They reference words by id or by text and
// language and never create them.
package vocabulary
