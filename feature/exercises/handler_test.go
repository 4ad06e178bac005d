package exercises

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/server"
	"vocab-manager/feature/vocabulary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jwtSecret = "exercises-secret"

type fiberApp struct {
	t     *testing.T
	token string
	do    func(req *http.Request, msTimeout ...int) (*http.Response, error)
}

func newTestApp(t *testing.T) (*fiberApp, *fixture) {
	t.Helper()
	f := newFixture(t)
	app := server.NewApp(server.Config{}, zap.NewNop())
	app.Use(auth.New(auth.Config{JWTSecret: jwtSecret}))
	require.NoError(t, NewFeature(f.svc).Load(app))

	token, err := auth.GenerateToken(author, jwtSecret, time.Hour)
	require.NoError(t, err)
	return &fiberApp{t: t, token: token, do: app.Test}, f
}

func (a *fiberApp) request(method, path, body string) (int, []byte) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.do(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, raw
}

func TestHandler_WordSetFlow(t *testing.T) {
	app, f := newTestApp(t)
	cat := f.word(t, "cat", "кошка")

	status, body := app.request(http.MethodGet, "/exercises", "")
	require.Equal(t, http.StatusOK, status)
	var infos []Info
	require.NoError(t, json.Unmarshal(body, &infos))
	assert.Len(t, infos, len(Exercises))

	status, body = app.request(http.MethodPost, "/exercises/translator/word-sets", fmt.Sprintf(`{"name":"Pets","words":[{"id":%d}]}`, cat.ID))
	require.Equal(t, http.StatusCreated, status, string(body))
	var ws WordSet
	require.NoError(t, json.Unmarshal(body, &ws))
	assert.Equal(t, int64(1), ws.WordsCount)

	status, body = app.request(http.MethodPost, "/exercises/translator/word-sets", `{"name":"pets"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), `"already_exist"`)

	status, body = app.request(http.MethodPost, "/exercises/translator/word-sets", `{"name":"Zoo","words":[{"text":"unicorn","language":"en"}]}`)
	assert.Equal(t, http.StatusNotFound, status, string(body))

	status, body = app.request(http.MethodPost, "/exercises/translator/word-sets", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"name"`)

	status, _ = app.request(http.MethodGet, "/exercises/crossword/word-sets", "")
	assert.Equal(t, http.StatusNotFound, status)

	path := fmt.Sprintf("/exercises/translator/word-sets/%d", ws.ID)
	status, body = app.request(http.MethodPatch, path, `{"name":"Animals","words":[]}`)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &ws))
	assert.Equal(t, "Animals", ws.Name)
	assert.Zero(t, ws.WordsCount)

	status, body = app.request(http.MethodGet, "/exercises/translator/word-sets?search=anim", "")
	require.Equal(t, http.StatusOK, status)
	var page vocabulary.Page[WordSet]
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, int64(1), page.Count)

	status, body = app.request(http.MethodGet, "/exercises/translator/available-words", "")
	require.Equal(t, http.StatusOK, status)
	var words vocabulary.Page[vocabulary.Word]
	require.NoError(t, json.Unmarshal(body, &words))
	require.Len(t, words.Results, 1)
	assert.Equal(t, "cat", words.Results[0].Text)

	status, _ = app.request(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = app.request(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_Favorites(t *testing.T) {
	app, f := newTestApp(t)
	cat := f.word(t, "cat", "кошка")
	_, err := f.words.CreateCollection(context.Background(), author, vocabulary.CollectionInput{Title: "Pets", Words: refs(cat.ID)})
	require.NoError(t, err)

	status, body := app.request(http.MethodPost, "/exercises/translator/favorite", "")
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"slug":"translator"`)

	status, _ = app.request(http.MethodPost, "/exercises/translator/favorite", "")
	assert.Equal(t, http.StatusConflict, status)

	status, body = app.request(http.MethodGet, "/exercises/favorites", "")
	require.Equal(t, http.StatusOK, status)
	var favs []Info
	require.NoError(t, json.Unmarshal(body, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, ExerciseTranslator, favs[0].Slug)

	status, body = app.request(http.MethodGet, "/exercises/translator/available-collections", "")
	require.Equal(t, http.StatusOK, status)
	var cols vocabulary.Page[AvailableCollection]
	require.NoError(t, json.Unmarshal(body, &cols))
	require.Len(t, cols.Results, 1)
	assert.Equal(t, "Pets", cols.Results[0].Title)
	assert.Equal(t, int64(1), cols.Results[0].AvailableWords)

	status, _ = app.request(http.MethodDelete, "/exercises/translator/favorite", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = app.request(http.MethodDelete, "/exercises/translator/favorite", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = app.request(http.MethodPost, "/exercises/crossword/favorite", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_Settings(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := app.request(http.MethodGet, "/exercises/translator/settings", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"mode":"free_input"`)

	status, body = app.request(http.MethodPatch, "/exercises/translator/settings", `{"mode":"variants","repetitions_amount":2}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var st TranslatorSettings
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, ModeVariants, st.Mode)
	assert.Equal(t, 2, st.Repetitions)

	status, body = app.request(http.MethodPatch, "/exercises/translator/settings", `{"answer_time_limit":10}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), CodeTimeLimit)

	status, _ = app.request(http.MethodPatch, "/exercises/translator/settings", `{"mode":"guessing"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	app.token = ""
	status, _ = app.request(http.MethodGet, "/exercises/translator/settings", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
