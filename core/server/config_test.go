package server_test

import (
	"testing"

	"vocab-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Default", 0, 4 << 20},
		{"Negative", -1, 4 << 20},
		{"Custom", 10, 10 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{"Wildcard", "*", []string{"*"}},
		{"List", "https://a.example, https://b.example ,", []string{"https://a.example", "https://b.example"}},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{CORSOrigins: tt.origins}
			assert.Equal(t, tt.want, c.AllowedOrigins())
		})
	}
}
