// Package placeholder is a read-only client for the JSONPlaceholder REST service.
//
// The Fetch* methods return errors. Users, PostsOf, User and CommentsOf are the
// view-facing forms: they log failures to the console and return nil instead,
// and they never issue a request for an id that is not positive.
package placeholder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/vcrobe/postview/console"
	"golang.org/x/net/context/ctxhttp"
)

// DefaultBaseURL is the public placeholder service.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// ErrInvalidID is returned by the Fetch methods for ids that are not positive.
var ErrInvalidID = errors.New("placeholder: id must be positive")

// Client is a placeholder service client that targets the service at BaseURL.
type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

// New returns a client for baseURL. An empty baseURL means DefaultBaseURL.
// A nil httpClient means a client with default transport.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	transport := httpClient.Transport
	hc := *httpClient
	hc.Transport = jsonTransport{base: transport}
	return &Client{BaseURL: u, HTTP: &hc}, nil
}

// jsonTransport sets the Accept header on every request.
type jsonTransport struct {
	base http.RoundTripper
}

func (t jsonTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", "application/json")
	}
	return base.RoundTrip(clone)
}

// FetchUsers fetches /users.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.get(ctx, "/users", &users)
	return users, err
}

// FetchPostsOf fetches /users/{userID}/posts.
func (c *Client) FetchPostsOf(ctx context.Context, userID int) ([]Post, error) {
	if userID <= 0 {
		return nil, ErrInvalidID
	}
	var posts []Post
	err := c.get(ctx, fmt.Sprintf("/users/%d/posts", userID), &posts)
	return posts, err
}

// FetchUser fetches /users/{userID}.
func (c *Client) FetchUser(ctx context.Context, userID int) (*User, error) {
	if userID <= 0 {
		return nil, ErrInvalidID
	}
	var user User
	if err := c.get(ctx, fmt.Sprintf("/users/%d", userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchCommentsOf fetches /posts/{postID}/comments.
func (c *Client) FetchCommentsOf(ctx context.Context, postID int) ([]Comment, error) {
	if postID <= 0 {
		return nil, ErrInvalidID
	}
	var comments []Comment
	err := c.get(ctx, fmt.Sprintf("/posts/%d/comments", postID), &comments)
	return comments, err
}

// Users returns all users, or nil on failure.
func (c *Client) Users(ctx context.Context) []User {
	users, err := c.FetchUsers(ctx)
	if err != nil {
		console.Error("placeholder: list users:", err)
		return nil
	}
	return nonNil(users)
}

// PostsOf returns the posts of userID, or nil on failure or when userID is not positive.
func (c *Client) PostsOf(ctx context.Context, userID int) []Post {
	if userID <= 0 {
		return nil
	}
	posts, err := c.FetchPostsOf(ctx, userID)
	if err != nil {
		console.Error("placeholder: list posts of user", userID, err)
		return nil
	}
	return nonNil(posts)
}

// User returns the user with userID, or nil on failure or when userID is not positive.
func (c *Client) User(ctx context.Context, userID int) *User {
	if userID <= 0 {
		return nil
	}
	user, err := c.FetchUser(ctx, userID)
	if err != nil {
		console.Error("placeholder: get user", userID, err)
		return nil
	}
	return user
}

// CommentsOf returns the comments on postID, or nil on failure or when postID is not positive.
func (c *Client) CommentsOf(ctx context.Context, postID int) []Comment {
	if postID <= 0 {
		return nil
	}
	comments, err := c.FetchCommentsOf(ctx, postID)
	if err != nil {
		console.Error("placeholder: list comments of post", postID, err)
		return nil
	}
	return nonNil(comments)
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	u := c.BaseURL.JoinPath(path).String()
	resp, err := ctxhttp.Get(ctx, c.HTTP, u)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: non-2xx status code: %v body: %q", u, resp.Status, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/json" {
			return fmt.Errorf("GET %s: unexpected media type %q", u, mt)
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", u, err)
	}
	return nil
}

// nonNil keeps "empty result" distinct from the nil failure sentinel.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
