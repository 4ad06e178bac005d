package vocabulary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jwtSecret = "vocabulary-secret"

type testApp struct {
	t     *testing.T
	token string
	do    func(req *http.Request, msTimeout ...int) (*http.Response, error)
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	svc, _ := newService(t, nil)
	app := server.NewApp(server.Config{}, zap.NewNop())
	app.Use(auth.New(auth.Config{JWTSecret: jwtSecret}))
	require.NoError(t, NewFeature(svc).Load(app))

	token, err := auth.GenerateToken(author, jwtSecret, time.Hour)
	require.NoError(t, err)
	return &testApp{t: t, token: token, do: app.Test}
}

func (a *testApp) send(req *http.Request) (int, []byte) {
	a.t.Helper()
	req.Header.Set("Authorization", "Bearer "+a.token)
	resp, err := a.do(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, raw
}

func (a *testApp) request(method, path, body string) (int, []byte) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.send(req)
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestHandler_WordFlow(t *testing.T) {
	app := newTestApp(t)

	status, body := app.request(http.MethodPost, "/words", `{"text":"cat","language":"en","translations":[{"text":"кошка","language":"ru"}]}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	cat := decode[WordDetail](t, body)
	require.Len(t, cat.Translations, 1)

	status, _ = app.request(http.MethodPost, "/words", `{"text":"cat","language":"en"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body = app.request(http.MethodPost, "/words", `{"text":"Cat","language":"en"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), `"already_exist"`)

	status, body = app.request(http.MethodPost, "/words", `{"text":"","language":"en"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"text"`)

	path := fmt.Sprintf("/words/%d", cat.ID)
	status, body = app.request(http.MethodPatch, path, `{"translations":[]}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Empty(t, decode[WordDetail](t, body).Translations)

	status, body = app.request(http.MethodPost, path+"/relations/synonym", `[{"from_word":{"text":"kitty"}}]`)
	require.Equal(t, http.StatusCreated, status, string(body))
	views := decode[[]RelatedWord](t, body)
	require.Len(t, views, 1)
	assert.Equal(t, "kitty", views[0].Word.Text)

	status, body = app.request(http.MethodPost, path+"/relations/synonym", `[{"from_word":{"text":"Katze","language":"de"}}]`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"same_language_detail"`)

	status, _ = app.request(http.MethodGet, path+"/relations/cousin", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = app.request(http.MethodPost, path+"/notes", `[{"text":"meows"}]`)
	require.Equal(t, http.StatusCreated, status, string(body))
	notes := decode[[]Note](t, body)
	require.Len(t, notes, 1)

	status, body = app.request(http.MethodPatch, fmt.Sprintf("%s/notes/%d", path, notes[0].ID), `{"text":"purrs"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "purrs", decode[Note](t, body).Text)

	status, _ = app.request(http.MethodGet, path+"/secrets", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = app.request(http.MethodPost, path+"/favorite", "")
	assert.Equal(t, http.StatusCreated, status)
	status, body = app.request(http.MethodPost, path+"/favorite", "")
	assert.Equal(t, http.StatusConflict, status, string(body))

	status, body = app.request(http.MethodGet, "/words?favorite=true", "")
	require.Equal(t, http.StatusOK, status)
	page := decode[Page[Word]](t, body)
	assert.Equal(t, int64(1), page.Count)

	status, _ = app.request(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, body = app.request(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), `"object_not_exist"`)

	status, _ = app.request(http.MethodGet, "/words/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandler_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	app.token = ""

	status, _ := app.request(http.MethodGet, "/words", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = app.request(http.MethodGet, "/collections", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHandler_CollectionFlow(t *testing.T) {
	app := newTestApp(t)
	status, body := app.request(http.MethodPost, "/words/multiple", `{"words":[{"text":"cat","language":"en"},{"text":"dog","language":"en"}]}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	words := decode[[]WordDetail](t, body)
	require.Len(t, words, 2)

	status, body = app.request(http.MethodPost, "/collections", fmt.Sprintf(`{"title":"Animals","words":[{"id":%d}]}`, words[0].ID))
	require.Equal(t, http.StatusCreated, status, string(body))
	col := decode[CollectionDetail](t, body)
	assert.Equal(t, int64(1), col.WordsCount)

	path := fmt.Sprintf("/collections/%d", col.ID)
	status, body = app.request(http.MethodPost, path+"/words", `{"words":[{"text":"dog","language":"en"}]}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, int64(2), decode[CollectionDetail](t, body).WordsCount)

	status, body = app.request(http.MethodPost, path+"/words", `{"words":[{"text":"unicorn","language":"en"}]}`)
	assert.Equal(t, http.StatusNotFound, status, string(body))

	status, body = app.request(http.MethodGet, "/collections?search=anim", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[Page[CollectionDetail]](t, body).Count)

	status, _ = app.request(http.MethodPost, path+"/favorite", "")
	assert.Equal(t, http.StatusCreated, status)
	status, _ = app.request(http.MethodDelete, path+"/favorite", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = app.request(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestHandler_UploadWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	status, body := app.request(http.MethodPost, "/words", `{"text":"cat","language":"en"}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	cat := decode[WordDetail](t, body)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = part.Write(pngData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/words/%d/images/upload", cat.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, body = app.send(req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), CodeImageStorageDisabled)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/words/%d/images/upload", cat.ID), strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	status, _ = app.send(req)
	assert.Equal(t, http.StatusBadRequest, status)
}
