package vocabulary

import (
	"context"
	"net/http"
	"testing"

	"vocab-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections_CRUD(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})
	dog := mustCreate(t, svc, WordInput{Text: "dog", Language: "en"})
	bird := mustCreate(t, svc, WordInput{Text: "bird", Language: "en"})

	c, err := svc.CreateCollection(ctx, author, CollectionInput{
		Title: "Animals",
		Words: &[]WordRef{{ID: cat.ID}, {Text: "Dog", Language: "en"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Animals", c.Title)
	assert.Equal(t, int64(2), c.WordsCount)
	require.Len(t, c.Words, 2)
	assert.Equal(t, []uint{cat.ID, dog.ID}, []uint{c.Words[0].ID, c.Words[1].ID})

	_, err = svc.CreateCollection(ctx, author, CollectionInput{Title: " animals "})
	assert.Equal(t, http.StatusConflict, reconcile.Status(err))

	c, err = svc.AppendCollectionWords(ctx, author, c.ID, []WordRef{{ID: bird.ID}, {ID: cat.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.WordsCount)

	c, err = svc.UpdateCollection(ctx, author, c.ID, CollectionPatch{Title: ptr("Pets"), Words: &[]WordRef{{ID: dog.ID}}})
	require.NoError(t, err)
	assert.Equal(t, "Pets", c.Title)
	require.Len(t, c.Words, 1)
	assert.Equal(t, dog.ID, c.Words[0].ID)
	assert.Equal(t, int64(3), countRows(t, db, &Word{}), "collections never delete words")

	c, err = svc.UpdateCollection(ctx, author, c.ID, CollectionPatch{Description: ptr("four legs")})
	require.NoError(t, err)
	assert.Equal(t, "four legs", c.Description)
	assert.Len(t, c.Words, 1)

	require.NoError(t, svc.RemoveCollectionWord(ctx, author, c.ID, dog.ID))
	assert.Equal(t, http.StatusNotFound, reconcile.Status(svc.RemoveCollectionWord(ctx, author, c.ID, dog.ID)))

	list, total, err := svc.ListCollections(ctx, author, "PET", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].WordsCount)

	require.NoError(t, svc.DeleteCollection(ctx, author, c.ID))
	_, err = svc.GetCollection(ctx, author, c.ID)
	assert.Equal(t, reconcile.CodeObjectNotExist, reconcile.Code(err))
}

// TestCollections_UnknownWord tests that references never create words.
func TestCollections_UnknownWord(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	_, err := svc.CreateCollection(ctx, author, CollectionInput{
		Title: "Animals",
		Words: &[]WordRef{{ID: cat.ID}, {Text: "unicorn", Language: "en"}},
	})
	var nf *reconcile.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "unicorn", nf.Key)
	assert.Zero(t, countRows(t, db, &Collection{}))
	assert.Equal(t, int64(1), countRows(t, db, &Word{}))

	_, err = svc.CreateCollection(ctx, author, CollectionInput{Title: "Animals", Words: &[]WordRef{{Text: "cat"}}})
	assert.Equal(t, reconcile.CodeInvalid, reconcile.Code(err))

	_, err = svc.CreateCollection(ctx, author+1, CollectionInput{Title: "Stolen", Words: &[]WordRef{{ID: cat.ID}}})
	assert.Equal(t, http.StatusNotFound, reconcile.Status(err))
}

func TestCollections_Favorites(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})
	c, err := svc.CreateCollection(ctx, author, CollectionInput{Title: "Animals", Words: &[]WordRef{{ID: cat.ID}}})
	require.NoError(t, err)

	require.NoError(t, svc.AddFavoriteCollection(ctx, author, c.ID))
	assert.Equal(t, http.StatusConflict, reconcile.Status(svc.AddFavoriteCollection(ctx, author, c.ID)))

	got, err := svc.GetCollection(ctx, author, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	require.NoError(t, svc.RemoveFavoriteCollection(ctx, author, c.ID))
	assert.Equal(t, http.StatusNotFound, reconcile.Status(svc.RemoveFavoriteCollection(ctx, author, c.ID)))

	// Deleting a word takes it out of every collection.
	_, err = svc.Delete(ctx, author, cat.ID)
	require.NoError(t, err)
	got, err = svc.GetCollection(ctx, author, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Words)
	assert.Zero(t, countRows(t, db, &FavoriteCollection{}))
}
