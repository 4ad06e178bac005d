package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNested_CreateParentFirst tests that the parent is inserted before its children are attached.
func TestNested_CreateParentFirst(t *testing.T) {
	db := openTestDB(t)
	nested := newPostNested()

	var post *testPost
	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		var err error
		post, err = nested.Create(uow, postIn{
			Title: "cat",
			Tags:  tags(tagIn{Name: "animal"}, tagIn{Name: "pet"}),
			Notes: notes(noteIn{Text: "meows"}),
		})
		return err
	}))

	require.NotZero(t, post.ID)
	assert.Len(t, postTags(t, db, post), 2)
	var stored []testNote
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "meows", stored[0].Text)
}

// TestNested_CreateRollsBackOnLimit tests that a child limit failure leaves no parent behind.
func TestNested_CreateRollsBackOnLimit(t *testing.T) {
	db := openTestDB(t)
	nested := newPostNested()

	err := atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Create(uow, postIn{
			Title: "cat",
			Tags:  tags(tagIn{Name: "a"}),
			Notes: notes(noteIn{Text: "1"}, noteIn{Text: "2"}, noteIn{Text: "3"}),
		})
		return err
	})

	assert.Equal(t, CodeAmountLimitExceeded, Code(err))
	assert.Equal(t, int64(0), countRows(t, db, &testPost{}))
	assert.Equal(t, int64(0), countRows(t, db, &testTag{}))
}

// TestNested_UpdateKeepsAndAdds mirrors adding a second translation next to an existing one.
func TestNested_UpdateKeepsAndAdds(t *testing.T) {
	db := openTestDB(t)
	kot := &testTag{Name: "кот"}
	post := seedPost(t, db, "cat", kot)
	nested := newPostNested()

	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Update(uow, post, postIn{
			Title: "cat",
			Tags:  tags(tagIn{ID: kot.ID, Name: "кот"}, tagIn{Name: "кошка"}),
		})
		return err
	}))

	got := postTags(t, db, post)
	require.Len(t, got, 2)
	names := map[uint]string{}
	for _, tag := range got {
		names[tag.ID] = tag.Name
	}
	assert.Equal(t, "кот", names[kot.ID])
	assert.Contains(t, names, kot.ID)
	assert.Equal(t, int64(2), countRows(t, db, &testTag{}))
}

// TestNested_UpdateOmittedFieldUntouched tests that a nil nested field leaves the relation as is.
func TestNested_UpdateOmittedFieldUntouched(t *testing.T) {
	db := openTestDB(t)
	post := seedPost(t, db, "cat", &testTag{Name: "a"})
	nested := newPostNested()

	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Update(uow, post, postIn{Title: "renamed"})
		return err
	}))

	assert.Len(t, postTags(t, db, post), 1)
	var stored testPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "renamed", stored.Title)
}

// TestNested_UpdateEmptyListRemovesAll tests that an empty list clears the relation and sweeps orphans.
func TestNested_UpdateEmptyListRemovesAll(t *testing.T) {
	db := openTestDB(t)
	post := seedPost(t, db, "cat", &testTag{Name: "a"}, &testTag{Name: "b"})
	nested := newPostNested()

	var report *SweepReport
	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		var err error
		report, err = nested.Update(uow, post, postIn{Title: "cat", Tags: tags()})
		return err
	}))

	assert.Empty(t, postTags(t, db, post))
	assert.Equal(t, 2, report.Total())
	assert.Equal(t, int64(0), countRows(t, db, &testTag{}))
}

// TestNested_UpdateDropOrphan tests that a dropped child with no other parent is deleted.
func TestNested_UpdateDropOrphan(t *testing.T) {
	db := openTestDB(t)
	one := &testTag{Name: "1"}
	two := &testTag{Name: "2"}
	post := seedPost(t, db, "cat", one, two)
	nested := newPostNested()

	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Update(uow, post, postIn{Title: "cat", Tags: tags(tagIn{ID: one.ID, Name: "1"})})
		return err
	}))

	got := postTags(t, db, post)
	require.Len(t, got, 1)
	assert.Equal(t, one.ID, got[0].ID)
	var n int64
	require.NoError(t, db.Model(&testTag{}).Where("id = ?", two.ID).Count(&n).Error)
	assert.Zero(t, n)
}

// TestNested_UpdateDropShared tests that a dropped child still used elsewhere survives.
func TestNested_UpdateDropShared(t *testing.T) {
	db := openTestDB(t)
	one := &testTag{Name: "1"}
	two := &testTag{Name: "2"}
	post := seedPost(t, db, "cat", one, two)
	other := seedPost(t, db, "dog", two)
	nested := newPostNested()

	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Update(uow, post, postIn{Title: "cat", Tags: tags(tagIn{ID: one.ID, Name: "1"})})
		return err
	}))

	assert.Len(t, postTags(t, db, post), 1)
	otherTags := postTags(t, db, other)
	require.Len(t, otherTags, 1)
	assert.Equal(t, two.ID, otherTags[0].ID)
	assert.Equal(t, int64(2), countRows(t, db, &testTag{}))
}

// TestNested_CreateChildrenFirst tests that the referenced child is created before the join row.
func TestNested_CreateChildrenFirst(t *testing.T) {
	db := openTestDB(t)
	post := seedPost(t, db, "happy")
	nested := newLinkNested()

	var link *testLink
	require.NoError(t, atomic(t, db, func(uow *UnitOfWork) error {
		var err error
		link, err = nested.Create(uow, linkIn{From: tagIn{Name: "glad"}, ToPost: post.ID})
		return err
	}))

	var glad testTag
	require.NoError(t, db.Where("name = ?", "glad").Take(&glad).Error)
	assert.Equal(t, glad.ID, link.FromTagID)
	assert.Equal(t, post.ID, link.ToPostID)
	assert.Equal(t, int64(1), countRows(t, db, &testLink{}))
}

// TestNested_CreateChildrenFirstValidation tests that a rejected child aborts with nothing created.
func TestNested_CreateChildrenFirstValidation(t *testing.T) {
	db := openTestDB(t)
	post := seedPost(t, db, "happy")
	nested := newLinkNested()

	err := atomic(t, db, func(uow *UnitOfWork) error {
		_, err := nested.Create(uow, linkIn{From: tagIn{Name: "glad", Color: "forbidden"}, ToPost: post.ID})
		return err
	})

	assert.Equal(t, "same_language_detail", Code(err))
	assert.Equal(t, int64(0), countRows(t, db, &testTag{}))
	assert.Equal(t, int64(0), countRows(t, db, &testLink{}))
}

// TestNewNested_Validation tests that bindings must match the declared fields.
func TestNewNested_Validation(t *testing.T) {
	present := func(postIn) bool { return true }
	apply := func(*UnitOfWork, NestedFieldSpec, *testPost, postIn) error { return nil }

	tests := []struct {
		name     string
		entity   string
		bindings []Binding[testPost, postIn]
	}{
		{name: "unknown entity", entity: "nope"},
		{name: "unbound field", entity: "post", bindings: []Binding[testPost, postIn]{
			{Field: "tags", Present: present, Apply: apply},
		}},
		{name: "unknown field", entity: "post", bindings: []Binding[testPost, postIn]{
			{Field: "tags", Present: present, Apply: apply},
			{Field: "notes", Present: present, Apply: apply},
			{Field: "extra", Present: present, Apply: apply},
		}},
		{name: "missing presence", entity: "post", bindings: []Binding[testPost, postIn]{
			{Field: "tags", Apply: apply},
			{Field: "notes", Present: present, Apply: apply},
		}},
		{name: "parent first needs apply", entity: "post", bindings: []Binding[testPost, postIn]{
			{Field: "tags", Present: present, Inject: apply},
			{Field: "notes", Present: present, Apply: apply},
		}},
		{name: "bound twice", entity: "post", bindings: []Binding[testPost, postIn]{
			{Field: "tags", Present: present, Apply: apply},
			{Field: "tags", Present: present, Apply: apply},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNested[testPost, postIn](testRegistry, tt.entity, postWriter{}, nil, tt.bindings...)
			assert.Error(t, err)
		})
	}

	assert.NotPanics(t, func() { newPostNested() })
}
