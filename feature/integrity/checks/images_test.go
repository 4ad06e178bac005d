package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	keys []string
	err  error
}

func (l staticLister) List(_ context.Context, prefix string) ([]string, error) {
	if prefix != ImagePrefix {
		return nil, errors.New("unexpected prefix " + prefix)
	}
	return l.keys, l.err
}

func TestCompareKeys(t *testing.T) {
	tests := []struct {
		name     string
		recorded []string
		stored   []string
		missing  []string
		stray    []string
	}{
		{"empty", nil, nil, []string{}, []string{}},
		{"in sync", []string{"images/1/a.png"}, []string{"images/1/a.png"}, []string{}, []string{}},
		{"missing object", []string{"images/1/b.png", "images/1/a.png"}, nil, []string{"images/1/a.png", "images/1/b.png"}, []string{}},
		{"stray object", nil, []string{"images/2/z.png", "images/2/c.png"}, []string{}, []string{"images/2/c.png", "images/2/z.png"}},
		{"both", []string{"images/1/a.png", "images/1/b.png"}, []string{"images/1/b.png", "images/3/x.gif"}, []string{"images/1/a.png"}, []string{"images/3/x.gif"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, stray := CompareKeys(tt.recorded, tt.stored)
			assert.Equal(t, tt.missing, missing)
			assert.Equal(t, tt.stray, stray)
		})
	}
}

func TestListImages(t *testing.T) {
	keys, err := ListImages(context.Background(), staticLister{keys: []string{"images/1/a.png"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"images/1/a.png"}, keys)

	_, err = ListImages(context.Background(), staticLister{err: errors.New("offline")})
	assert.ErrorContains(t, err, "offline")
}
