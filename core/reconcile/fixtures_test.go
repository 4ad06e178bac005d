package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testTag struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Color    string
	AuthorID uint
}

type testNote struct {
	ID     uint `gorm:"primaryKey"`
	PostID uint
	Text   string
}

type testPost struct {
	ID    uint `gorm:"primaryKey"`
	Title string
	Tags  []*testTag  `gorm:"many2many:test_post_tags;"`
	Notes []*testNote `gorm:"foreignKey:PostID"`
}

type testLink struct {
	ID        uint `gorm:"primaryKey"`
	FromTagID uint
	ToPostID  uint
}

type tagIn struct {
	ID    uint
	Name  string
	Color string
}

type noteIn struct {
	ID   uint
	Text string
}

type postIn struct {
	Title string
	Tags  *[]tagIn
	Notes *[]noteIn
}

type linkIn struct {
	From   tagIn
	ToPost uint
}

const testAuthor = 1

type tagAdapter struct{}

func (tagAdapter) Entity() string         { return "tag" }
func (tagAdapter) RowID(r *testTag) uint  { return r.ID }
func (tagAdapter) PayloadID(p tagIn) uint { return p.ID }
func (tagAdapter) Equal(r *testTag, p tagIn) bool {
	return r.Name == p.Name && r.Color == p.Color
}
func (tagAdapter) NaturalKey(p tagIn) map[string]any {
	return map[string]any{"name": p.Name, "author_id": testAuthor}
}
func (tagAdapter) Build(p tagIn) *testTag {
	return &testTag{Name: p.Name, Color: p.Color, AuthorID: testAuthor}
}
func (tagAdapter) Assign(r *testTag, p tagIn) {
	r.Name = p.Name
	r.Color = p.Color
}

type noteAdapter struct{ postID uint }

func (noteAdapter) Entity() string          { return "note" }
func (noteAdapter) RowID(r *testNote) uint  { return r.ID }
func (noteAdapter) PayloadID(p noteIn) uint { return p.ID }
func (a noteAdapter) NaturalKey(p noteIn) map[string]any {
	return map[string]any{"post_id": a.postID, "text": p.Text}
}
func (noteAdapter) Equal(r *testNote, p noteIn) bool { return r.Text == p.Text }
func (a noteAdapter) Build(p noteIn) *testNote {
	return &testNote{PostID: a.postID, Text: p.Text}
}
func (noteAdapter) Assign(r *testNote, p noteIn) { r.Text = p.Text }

var tagScope = Scope{"author_id": testAuthor}

var testRegistry = MustRegistry(
	EntitySpec{
		Entity: "post",
		Order:  ParentFirst,
		Fields: []NestedFieldSpec{
			{Name: "tags", Entity: "tag", Kind: KindShared, Limit: 3, LimitDetail: "too many tags", ConflictDetail: "tag already exists"},
			{Name: "notes", Entity: "note", Kind: KindOwned, Limit: 2, LimitDetail: "too many notes"},
		},
	},
	EntitySpec{
		Entity: "link",
		Order:  ChildrenFirst,
		Fields: []NestedFieldSpec{
			{Name: "from_tag", Entity: "tag", Kind: KindReference, ConflictDetail: "tag already exists"},
		},
	},
)

var testSweeper = MustSweeper(OrphanRule{
	Entity:     "tag",
	Table:      "test_tags",
	JoinTables: []JoinRef{{Table: "test_post_tags", Column: "test_tag_id"}, {Table: "test_links", Column: "from_tag_id"}},
})

type postWriter struct{}

func (postWriter) Build(_ *UnitOfWork, in postIn) (*testPost, error) {
	return &testPost{Title: in.Title}, nil
}

func (postWriter) Assign(_ *UnitOfWork, p *testPost, in postIn) error {
	p.Title = in.Title
	return nil
}

func newPostNested() *Nested[testPost, postIn] {
	return MustNested[testPost, postIn](testRegistry, "post", postWriter{}, testSweeper,
		Binding[testPost, postIn]{
			Field:   "tags",
			Present: func(in postIn) bool { return in.Tags != nil },
			Apply: func(uow *UnitOfWork, field NestedFieldSpec, post *testPost, in postIn) error {
				var existing []*testTag
				if err := uow.Tx.Model(post).Association("Tags").Find(&existing); err != nil {
					return err
				}
				res, err := ReconcileAndApply[testTag, tagIn](uow, tagAdapter{}, field, existing, *in.Tags, tagScope, Options{})
				if err != nil {
					return err
				}
				post.Tags = res.Rows
				return Associate(uow, post, "Tags", res.Rows)
			},
		},
		Binding[testPost, postIn]{
			Field:   "notes",
			Present: func(in postIn) bool { return in.Notes != nil },
			Apply: func(uow *UnitOfWork, field NestedFieldSpec, post *testPost, in postIn) error {
				var existing []*testNote
				if err := uow.Tx.Where("post_id = ?", post.ID).Find(&existing).Error; err != nil {
					return err
				}
				res, err := ReconcileAndApply[testNote, noteIn](uow, noteAdapter{postID: post.ID}, field, existing, *in.Notes, Scope{"post_id": post.ID}, Options{})
				if err != nil {
					return err
				}
				post.Notes = res.Rows
				return nil
			},
		},
	)
}

type linkWriter struct{}

func (linkWriter) Build(_ *UnitOfWork, in linkIn) (*testLink, error) {
	return &testLink{ToPostID: in.ToPost}, nil
}

func (linkWriter) Assign(_ *UnitOfWork, l *testLink, in linkIn) error {
	l.ToPostID = in.ToPost
	return nil
}

func newLinkNested() *Nested[testLink, linkIn] {
	return MustNested[testLink, linkIn](testRegistry, "link", linkWriter{}, testSweeper,
		Binding[testLink, linkIn]{
			Field:   "from_tag",
			Present: func(linkIn) bool { return true },
			Validate: func(_ *UnitOfWork, in linkIn) error {
				if in.From.Color == "forbidden" {
					return Invalid("same_language_detail", "from_tag", "color is not allowed")
				}
				return nil
			},
			Inject: func(uow *UnitOfWork, field NestedFieldSpec, l *testLink, in linkIn) error {
				tag, _, err := CreateOne[testTag, tagIn](uow, tagAdapter{}, field.ConflictDetail, in.From, tagScope)
				if err != nil {
					return err
				}
				l.FromTagID = tag.ID
				return nil
			},
		},
	)
}

// openTestDB opens an isolated in-memory database with the fixture schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&testTag{}, &testNote{}, &testPost{}, &testLink{}))
	return db
}

// seedPost stores a post with the given tags attached.
func seedPost(t *testing.T, db *gorm.DB, title string, tags ...*testTag) *testPost {
	t.Helper()
	post := &testPost{Title: title}
	require.NoError(t, db.Create(post).Error)
	for _, tag := range tags {
		if tag.ID == 0 {
			tag.AuthorID = testAuthor
			require.NoError(t, db.Create(tag).Error)
		}
	}
	if len(tags) > 0 {
		require.NoError(t, db.Model(post).Association("Tags").Append(tags))
	}
	return post
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func postTags(t *testing.T, db *gorm.DB, post *testPost) []*testTag {
	t.Helper()
	var tags []*testTag
	require.NoError(t, db.Model(post).Association("Tags").Find(&tags))
	return tags
}

func atomic(t *testing.T, db *gorm.DB, fn func(uow *UnitOfWork) error) error {
	t.Helper()
	return Atomic(context.Background(), db, fn)
}

func tags(in ...tagIn) *[]tagIn { return &in }

func notes(in ...noteIn) *[]noteIn { return &in }
