package integrity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const apiKey = "integrity-key"

func checkImages(t *testing.T, f *fixture, query string, key string) (int, ImageCheckResponse) {
	t.Helper()
	app := server.NewApp(server.Config{}, zap.NewNop())
	app.Use(auth.New(auth.Config{ApiKey: apiKey}))
	require.NoError(t, NewFeature(f.svc).Load(app))

	req := httptest.NewRequest(http.MethodGet, "/integrity/images"+query, nil)
	if key != "" {
		req.Header.Set(auth.APIKeyHeader, key)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body ImageCheckResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestHandleImageCheck(t *testing.T) {
	f := newFixture(t)
	_, lost := f.upload(t, "cat")
	f.stored("images/7/orphan.png")

	status, _ := checkImages(t, f, "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := checkImages(t, f, "", apiKey)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "checked", body.Status)
	assert.Equal(t, []string{lost}, body.Missing)
	assert.Equal(t, []string{"images/7/orphan.png"}, body.Stray)

	var removed []string
	f.recordRemovals(&removed)
	status, body = checkImages(t, f, "?fix=true", apiKey)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fixed", body.Status)
	assert.Equal(t, []string{"images/7/orphan.png"}, removed)

	status, body = checkImages(t, f, "", apiKey)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, body.Checked)
	assert.Empty(t, body.Missing)
}

func TestLoader(t *testing.T) {
	f := newFixture(t)
	feature := NewFeature(f.svc)
	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	assert.False(t, NewFeature(NewService(nil, nil, zap.NewNop())).IsEnabled())
}
