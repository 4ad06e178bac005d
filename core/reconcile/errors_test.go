package reconcile

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"limit", &AmountLimitExceeded{Limit: 24}, CodeAmountLimitExceeded, http.StatusConflict},
		{"exists", NewAlreadyExist("dup", nil, nil), CodeAlreadyExist, http.StatusConflict},
		{"wrapped exists", fmt.Errorf("tags: %w", NewAlreadyExist("dup", nil, nil)), CodeAlreadyExist, http.StatusConflict},
		{"not found", &NotFoundError{Entity: "translation", ID: 2}, CodeObjectNotExist, http.StatusNotFound},
		{"invalid default", Invalid("", "text", "required"), CodeInvalid, http.StatusBadRequest},
		{"invalid custom", Invalid("same_words_detail", "from_word", "same word"), "same_words_detail", http.StatusBadRequest},
		{"other", errors.New("boom"), "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(tt.err))
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.code != "", IsClientError(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "amount limit exceeded (3)", (&AmountLimitExceeded{Limit: 3}).Error())
	assert.Equal(t, "too many", (&AmountLimitExceeded{Limit: 3, Detail: "too many"}).Error())
	assert.Equal(t, "object already exists", (&ObjectAlreadyExist{}).Error())
	assert.Equal(t, "word with id=7 not found", (&NotFoundError{Entity: "word", ID: 7}).Error())
	assert.Equal(t, `word "glad" not found`, (&NotFoundError{Entity: "word", Key: "glad"}).Error())
	assert.Equal(t, "text: required", Invalid("", "text", "required").Error())
	assert.Equal(t, "required", Invalid("", "", "required").Error())
}

func TestCheckAmountLimit(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		adding   int
		limit    int
		exceeded bool
	}{
		{"unbounded", 100, 100, 0, false},
		{"under", 1, 1, 24, false},
		{"exactly at limit", 23, 1, 24, false},
		{"over", 24, 1, 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAmountLimit(tt.current, tt.adding, tt.limit, "detail")
			if tt.exceeded {
				if assert.NotNil(t, err) {
					assert.Equal(t, tt.limit, err.Limit)
					assert.Equal(t, "detail", err.Detail)
				}
				return
			}
			assert.Nil(t, err)
		})
	}
}
