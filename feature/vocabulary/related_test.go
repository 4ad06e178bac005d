package vocabulary

import (
	"context"
	"net/http"
	"testing"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelated_Translations(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	out, err := svc.RelatedAppend(ctx, author, cat.ID, FieldTranslations, []byte(`[{"text":"кот","language":"ru"},{"text":"кошка","language":"ru"}]`))
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Appending an existing translation again links nothing new.
	_, err = svc.RelatedAppend(ctx, author, cat.ID, FieldTranslations, []byte(`[{"text":"кот","language":"ru"}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, db, &Translation{}))

	out, err = svc.RelatedList(ctx, author, cat.ID, FieldTranslations, "ШК")
	require.NoError(t, err)
	found := out.([]*Translation)
	require.Len(t, found, 1)
	koshka := found[0]
	assert.Equal(t, "кошка", koshka.Text)

	one, err := svc.RelatedGet(ctx, author, cat.ID, FieldTranslations, koshka.ID)
	require.NoError(t, err)
	assert.Equal(t, koshka.ID, one.(*Translation).ID)

	patched, err := svc.RelatedPatch(ctx, author, cat.ID, FieldTranslations, koshka.ID, []byte(`{"text":"киска"}`))
	require.NoError(t, err)
	assert.Equal(t, "киска", patched.(*Translation).Text)
	assert.Equal(t, koshka.LanguageID, patched.(*Translation).LanguageID)

	require.NoError(t, svc.RelatedRemove(ctx, author, cat.ID, FieldTranslations, koshka.ID))
	assert.Zero(t, countRows(t, db, &Translation{}, "id = ?", koshka.ID))

	err = svc.RelatedRemove(ctx, author, cat.ID, FieldTranslations, koshka.ID)
	assert.Equal(t, http.StatusNotFound, reconcile.Status(err))
}

func TestRelated_NewTranslationNeedsLanguage(t *testing.T) {
	svc, _ := newService(t, nil)
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	_, err := svc.RelatedAppend(context.Background(), author, cat.ID, FieldTranslations, []byte(`[{"text":"кот"}]`))
	assert.Equal(t, reconcile.CodeInvalid, reconcile.Code(err))
}

func TestRelated_NotesLimit(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	notes := make([]NoteInput, 9)
	for i := range notes {
		notes[i] = NoteInput{Text: string(rune('a' + i))}
	}
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en", WordChildren: WordChildren{Notes: &notes}})

	_, err := svc.RelatedAppend(ctx, author, cat.ID, FieldNotes, []byte(`[{"text":"x"},{"text":"y"}]`))
	var lim *reconcile.AmountLimitExceeded
	require.ErrorAs(t, err, &lim)
	assert.Equal(t, 10, lim.Limit)
	assert.Equal(t, int64(9), countRows(t, db, &Note{}))

	out, err := svc.RelatedAppend(ctx, author, cat.ID, FieldNotes, []byte(`[{"text":"x"}]`))
	require.NoError(t, err)
	added := out.([]*Note)
	require.Len(t, added, 1)

	require.NoError(t, svc.RelatedRemove(ctx, author, cat.ID, FieldNotes, added[0].ID))
	assert.Equal(t, int64(9), countRows(t, db, &Note{}))
}

func TestRelated_InvalidPayloads(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	_, err := svc.RelatedAppend(ctx, author, cat.ID, FieldNotes, []byte(`{"text":"x"}`))
	assert.Equal(t, reconcile.CodeInvalid, reconcile.Code(err))

	_, err = svc.RelatedAppend(ctx, author, cat.ID, FieldNotes, []byte(`[{"text":" "}]`))
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].text", verr.Fields[0].Field)

	_, err = svc.RelatedList(ctx, author, cat.ID, "pronunciations", "")
	assert.Equal(t, http.StatusNotFound, reconcile.Status(err))

	_, err = svc.RelatedList(ctx, author+1, cat.ID, FieldNotes, "")
	assert.Equal(t, http.StatusNotFound, reconcile.Status(err))
}

func TestRelated_Synonyms(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	happy := mustCreate(t, svc, WordInput{Text: "happy", Language: "en"})

	out, err := svc.RelatedAppend(ctx, author, happy.ID, RelationField(KindSynonym), []byte(`[{"from_word":{"text":"glad"}},{"from_word":{"text":"joyful"}}]`))
	require.NoError(t, err)
	views := out.([]RelatedWord)
	require.Len(t, views, 2)
	assert.Equal(t, "glad", views[0].Word.Text)

	out, err = svc.RelatedList(ctx, author, happy.ID, RelationField(KindSynonym), "")
	require.NoError(t, err)
	assert.Len(t, out.([]RelatedWord), 2)

	require.NoError(t, svc.RelatedRemove(ctx, author, happy.ID, RelationField(KindSynonym), views[0].ID))
	assert.Equal(t, int64(1), countRows(t, db, &Relation{}))
	assert.Equal(t, int64(3), countRows(t, db, &Word{}))
}
