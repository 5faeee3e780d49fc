// Package viewtest is a test harness for the post view: a fake placeholder
// service backed by httptest, fixture data, and the static shell parsed into
// an in-memory document. No browser or WASM is needed.
package viewtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/vcrobe/postview/dom/memdom"
	"github.com/vcrobe/postview/placeholder"
	"github.com/vcrobe/postview/shell"
)

// Data is what the fake service serves.
type Data struct {
	Users    []placeholder.User
	Posts    []placeholder.Post
	Comments []placeholder.Comment
}

// Fixture returns two users with two posts each and two comments per post.
func Fixture() Data {
	users := []placeholder.User{
		{
			ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz",
			Company: placeholder.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"},
		},
		{
			ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv",
			Company: placeholder.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency"},
		},
	}
	var posts []placeholder.Post
	var comments []placeholder.Comment
	for _, u := range users {
		for i := 1; i <= 2; i++ {
			id := (u.ID-1)*10 + i
			posts = append(posts, placeholder.Post{
				ID: id, UserID: u.ID,
				Title: "post " + strconv.Itoa(id) + " by " + u.Username,
				Body:  "body of post " + strconv.Itoa(id),
			})
			for j := 1; j <= 2; j++ {
				cid := id*10 + j
				comments = append(comments, placeholder.Comment{
					ID: cid, PostID: id,
					Name:  "comment " + strconv.Itoa(cid),
					Email: "c" + strconv.Itoa(cid) + "@example.com",
					Body:  "comment body " + strconv.Itoa(cid),
				})
			}
		}
	}
	return Data{Users: users, Posts: posts, Comments: comments}
}

// Server is a fake placeholder service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	data     Data
	requests []string
	failures map[string]int
}

// NewServer starts a fake service serving data. It is closed when the test ends.
func NewServer(t testing.TB, data Data) *Server {
	t.Helper()
	s := &Server{data: data, failures: make(map[string]int)}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/users", func(w http.ResponseWriter, req *http.Request) {
		s.writeJSON(w, s.data.Users)
	}).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(req)["id"])
		i := slices.IndexFunc(s.data.Users, func(u placeholder.User) bool { return u.ID == id })
		if i < 0 {
			s.writeJSON(w, struct{}{}, http.StatusNotFound)
			return
		}
		s.writeJSON(w, s.data.Users[i])
	}).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/posts", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(req)["id"])
		posts := []placeholder.Post{}
		for _, p := range s.data.Posts {
			if p.UserID == id {
				posts = append(posts, p)
			}
		}
		s.writeJSON(w, posts)
	}).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}/comments", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(req)["id"])
		comments := []placeholder.Comment{}
		for _, c := range s.data.Comments {
			if c.PostID == id {
				comments = append(comments, c)
			}
		}
		s.writeJSON(w, comments)
	}).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every request for path answer with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns the paths requested so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestCount returns how many requests were made for paths with the given prefix.
func (s *Server) RequestCount(prefix string) int {
	n := 0
	for _, p := range s.Requests() {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

// Reset forgets the recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Client returns a placeholder client pointed at the server.
func (s *Server) Client(t testing.TB) *placeholder.Client {
	t.Helper()
	c, err := placeholder.New(s.URL, s.Server.Client())
	require.NoError(t, err)
	return c
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, req.URL.Path)
		status, fail := s.failures[req.URL.Path]
		s.mu.Unlock()
		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any, status ...int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if len(status) > 0 {
		w.WriteHeader(status[0])
	}
	_ = json.NewEncoder(w).Encode(v)
}

// NewDocument returns the static shell as an in-memory document.
func NewDocument(t testing.TB) *memdom.Document {
	t.Helper()
	doc, err := shell.Document()
	require.NoError(t, err)
	return doc
}

// Element asserts that el is a memdom element and returns it.
func Element(t testing.TB, el any) *memdom.Element {
	t.Helper()
	m, ok := el.(*memdom.Element)
	require.Truef(t, ok, "expected *memdom.Element, got %T", el)
	return m
}
