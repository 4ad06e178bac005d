package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		specs   []EntitySpec
		wantErr bool
	}{
		{name: "empty"},
		{name: "valid", specs: []EntitySpec{{Entity: "word", Fields: []NestedFieldSpec{{Name: "tags", Limit: 10}}}}},
		{name: "unnamed", specs: []EntitySpec{{}}, wantErr: true},
		{name: "duplicate entity", specs: []EntitySpec{{Entity: "word"}, {Entity: "word"}}, wantErr: true},
		{name: "duplicate field", specs: []EntitySpec{{Entity: "word", Fields: []NestedFieldSpec{{Name: "tags"}, {Name: "tags"}}}}, wantErr: true},
		{name: "negative limit", specs: []EntitySpec{{Entity: "word", Fields: []NestedFieldSpec{{Name: "tags", Limit: -1}}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.specs...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	f, err := testRegistry.Field("post", "tags")
	require.NoError(t, err)
	assert.Equal(t, 3, f.Limit)
	assert.Equal(t, KindShared, f.Kind)

	_, err = testRegistry.Field("post", "missing")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = testRegistry.Spec("missing")
	assert.ErrorIs(t, err, ErrUnknownEntity)

	assert.ElementsMatch(t, []string{"post", "link"}, testRegistry.Entities())
	assert.Panics(t, func() { MustRegistry(EntitySpec{}) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "shared", KindShared.String())
	assert.Equal(t, "owned", KindOwned.String())
	assert.Equal(t, "reference", KindReference.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
