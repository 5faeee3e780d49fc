package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcrobe/postview/config"
	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/viewtest"
)

func quiet(t *testing.T) {
	t.Helper()
	prev := console.SetLogger(slog.New(slog.DiscardHandler))
	t.Cleanup(func() { console.SetLogger(prev) })
}

func TestParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 3s\nlisten: \":9000\"\n"), 0o644))

	var c cli
	parser, err := newParser(&c, path)
	require.NoError(t, err)
	kctx, err := parser.Parse([]string{"render", "--user", "2", "--listen", ":7000"})
	require.NoError(t, err)

	assert.Equal(t, "render", kctx.Command())
	assert.Equal(t, 2, c.Render.User)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, ":7000", c.Listen)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", c.BaseURL)
}

func TestParser_RejectsBadBaseURL(t *testing.T) {
	var c cli
	parser, err := newParser(&c, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"serve", "--base-url", "file:///tmp"})
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("\x00asm"), 0o644))
	srv := httptest.NewServer(newRouter(dir))
	t.Cleanup(srv.Close)

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(body)
	}

	resp, body := get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<select id="selectMenu">`)

	resp, _ = get("/main.wasm")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/wasm", resp.Header.Get("Content-Type"))

	resp, _ = get("/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := srv.Client().Post(srv.URL+"/", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServe_StopsOnCancel(t *testing.T) {
	quiet(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&serveCmd{}).Run(ctx, &config.Config{Listen: "127.0.0.1:0", Dir: t.TempDir()})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func renderConfig(srv *viewtest.Server) *config.Config {
	return &config.Config{BaseURL: srv.URL, Timeout: 10 * time.Second}
}

func TestRender_Main(t *testing.T) {
	quiet(t)
	srv := viewtest.NewServer(t, viewtest.Fixture())

	var out bytes.Buffer
	require.NoError(t, render(context.Background(), renderConfig(srv), 2, false, &out))

	html := out.String()
	assert.True(t, strings.HasPrefix(html, "<main>"), html)
	assert.Equal(t, 2, strings.Count(html, "<button"))
	assert.Contains(t, html, `<section data-post-id="11" class="comments hide">`)
	assert.Contains(t, html, "Author: Ervin Howell with Deckow-Crist")
	assert.NotContains(t, html, "default-text")
}

func TestRender_Page(t *testing.T) {
	quiet(t)
	srv := viewtest.NewServer(t, viewtest.Fixture())

	var out bytes.Buffer
	require.NoError(t, render(context.Background(), renderConfig(srv), 1, true, &out))

	html := out.String()
	assert.Contains(t, html, `value="1" selected="">Leanne Graham</option>`)
	assert.Contains(t, html, `value="2">Ervin Howell</option>`)
	assert.Equal(t, 2, strings.Count(html, "<button"))
}

func TestRender_Errors(t *testing.T) {
	quiet(t)
	ctx := context.Background()

	srv := viewtest.NewServer(t, viewtest.Fixture())
	err := render(ctx, renderConfig(srv), 9, false, io.Discard)
	assert.ErrorContains(t, err, "no author with id 9")

	srv.Fail("/users/1/posts", http.StatusInternalServerError)
	err = render(ctx, renderConfig(srv), 1, false, io.Discard)
	assert.ErrorContains(t, err, "no posts for author 1")

	srv.Fail("/users", http.StatusInternalServerError)
	err = render(ctx, renderConfig(srv), 1, false, io.Discard)
	assert.ErrorContains(t, err, "no authors loaded")
}
