// Package exercises keeps the word sets and default settings of the
// vocabulary exercises.
//
// A word set is a named selection of the author's own words for one exercise.
// Its words go through the same reconciliation as collection words, so they
// can be referenced by id or by text and language but are never created here.
//
// Exercises can be marked as favorite per user, and the words and collections
// usable in an exercise are listed under its available-words and
// available-collections endpoints.
package exercises
