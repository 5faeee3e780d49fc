//go:build !wasm

package placeholder

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcrobe/postview/console"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	return c, &hits
}

func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := console.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { console.SetLogger(prev) })
	return &buf
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func TestNew(t *testing.T) {
	c, err := New("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL.String())
	assert.NotNil(t, c.HTTP)

	_, err = New("not a url", nil)
	assert.Error(t, err)
}

func TestClient_Paths(t *testing.T) {
	var gotPath, gotAccept string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		switch r.URL.Path {
		case "/users/3":
			writeJSON(w, `{"id":3,"name":"Clementine Bauch","company":{"name":"Romaguera-Jacobson","catchPhrase":"Face to face bifurcated interface"}}`)
		default:
			writeJSON(w, `[]`)
		}
	})
	ctx := context.Background()

	tests := []struct {
		name string
		call func()
		path string
	}{
		{"users", func() { c.Users(ctx) }, "/users"},
		{"posts of", func() { c.PostsOf(ctx, 3) }, "/users/3/posts"},
		{"user", func() { c.User(ctx, 3) }, "/users/3"},
		{"comments of", func() { c.CommentsOf(ctx, 12) }, "/posts/12/comments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, "application/json", gotAccept)
		})
	}
}

func TestClient_DecodesEntities(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/1":
			writeJSON(w, `{"id":1,"name":"Leanne Graham","username":"Bret","address":{"city":"Gwenborough","geo":{"lat":"-37.3159"}},"company":{"name":"Romaguera-Crona","catchPhrase":"Multi-layered client-server neural-net","bs":"harness real-time e-markets"}}`)
		case "/users/1/posts":
			writeJSON(w, `[{"userId":1,"id":1,"title":"sunt aut facere","body":"quia et suscipit"}]`)
		case "/posts/1/comments":
			writeJSON(w, `[{"postId":1,"id":1,"name":"id labore ex et quam laborum","email":"Eliseo@gardner.biz","body":"laudantium"}]`)
		}
	})
	ctx := context.Background()

	user := c.User(ctx, 1)
	require.NotNil(t, user)
	assert.Equal(t, "Leanne Graham", user.Name)
	assert.Equal(t, "Romaguera-Crona", user.Company.Name)
	assert.Equal(t, "Multi-layered client-server neural-net", user.Company.CatchPhrase)
	assert.Equal(t, "-37.3159", user.Address.Geo.Lat)

	posts := c.PostsOf(ctx, 1)
	require.Len(t, posts, 1)
	assert.Equal(t, Post{ID: 1, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"}, posts[0])

	comments := c.CommentsOf(ctx, 1)
	require.Len(t, comments, 1)
	assert.Equal(t, "Eliseo@gardner.biz", comments[0].Email)
	assert.Equal(t, 1, comments[0].PostID)
}

func TestClient_EmptyIsNotNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})
	posts := c.PostsOf(context.Background(), 5)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestClient_InvalidIDSkipsNetwork(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})
	ctx := context.Background()

	assert.Nil(t, c.PostsOf(ctx, 0))
	assert.Nil(t, c.User(ctx, 0))
	assert.Nil(t, c.CommentsOf(ctx, -1))
	assert.Equal(t, int32(0), hits.Load())

	_, err := c.FetchUser(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestClient_FailuresAreLoggedAndSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: "non-2xx status code",
		},
		{
			name: "media type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
			want: "unexpected media type",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, `[{"id":`)
			},
			want: "decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureConsole(t)
			c, _ := newTestClient(t, tt.handler)
			ctx := context.Background()

			assert.Nil(t, c.Users(ctx))
			assert.Nil(t, c.User(ctx, 1))
			assert.Contains(t, logs.String(), tt.want)
			assert.Contains(t, logs.String(), "level=ERROR")
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	logs := captureConsole(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	assert.Nil(t, c.Users(context.Background()))
	assert.Contains(t, logs.String(), "list users")
}

func TestClient_ContextCanceled(t *testing.T) {
	captureConsole(t)
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchUsers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}
