// Package controller drives the post view: it boots the page, reacts to author
// selection and rebuilds <main> with the selected author's posts.
package controller

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
	"github.com/vcrobe/postview/signals"
	"github.com/vcrobe/postview/view"
)

// DefaultUserID is shown when the selection carries no usable id.
const DefaultUserID = 1

// State is the controller's lifecycle state.
type State int

const (
	Booting State = iota
	Idle
	Refreshing
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// RefreshResult holds what each step of a refresh returned.
type RefreshResult struct {
	Detached []dom.Element // buttons whose handlers were removed
	Main     dom.Element   // the cleared <main>
	Rendered dom.Node      // what was appended to <main>
	Attached []dom.Element // buttons that received a handler
}

// Controller owns the page's event handling.
type Controller struct {
	doc       dom.Document
	src       view.Source
	view      *view.View
	listeners *view.Listeners

	state    *signals.Signal[State]
	selected *signals.Signal[int]

	bootOnce   sync.Once
	menu       dom.Element
	loadedL    dom.Listener
	changeL    dom.Listener
	refreshMu  sync.Mutex
	generation atomic.Uint64 // bumped on every selection
	inflight   sync.WaitGroup
	background context.Context
}

// New returns a controller for doc reading from src. Nothing happens until Start or Boot.
func New(doc dom.Document, src view.Source) *Controller {
	v := view.New(doc, src)
	return &Controller{
		doc:        doc,
		src:        src,
		view:       v,
		listeners:  view.NewListeners(v),
		state:      signals.New(Booting),
		selected:   signals.New(0),
		background: context.Background(),
	}
}

// View returns the view the controller renders with.
func (c *Controller) View() *view.View {
	return c.view
}

// Listeners returns the toggle listener manager.
func (c *Controller) Listeners() *view.Listeners {
	return c.listeners
}

// State returns the lifecycle signal.
func (c *Controller) State() *signals.Signal[State] {
	return c.state
}

// Selected returns the signal holding the last selected user id (0 before any selection).
func (c *Controller) Selected() *signals.Signal[int] {
	return c.selected
}

// Start boots the page once the document has loaded. Event-triggered work
// runs on its own goroutine because browser callbacks must not block; ctx is
// used for all of it. Wait blocks until that work is done.
func (c *Controller) Start(ctx context.Context) {
	c.background = ctx
	if c.doc.ReadyState() != "loading" {
		c.spawn(func() { c.Boot(ctx) })
		return
	}
	c.loadedL = c.doc.AddEventListener(dom.EventDOMContentLoaded, func(dom.Event) {
		c.doc.RemoveEventListener(dom.EventDOMContentLoaded, c.loadedL)
		c.spawn(func() { c.Boot(ctx) })
	})
}

// Boot fetches the users, fills the select menu and starts listening for
// selection changes. Only the first call does anything; every call returns the
// menu (nil when it could not be populated).
func (c *Controller) Boot(ctx context.Context) dom.Element {
	c.bootOnce.Do(func() {
		c.state.Set(Booting)
		defer c.state.Set(Idle)

		users := c.src.Users(ctx)
		c.menu = c.view.PopulateSelect(users)
		if c.menu == nil {
			console.Warn("controller: select menu not populated")
			return
		}
		c.changeL = c.menu.AddEventListener(dom.EventChange, func(event dom.Event) {
			// Read the selection before handing off; the DOM is not touched
			// concurrently with a running refresh.
			userID, gen := c.selectUser(event)
			c.spawn(func() { c.show(c.background, userID, gen) })
		})
		console.Log("controller: loaded", len(users), "users")
	})
	return c.menu
}

// HandleSelection shows the posts of the user picked in the select menu.
// An empty or unusable value falls back to DefaultUserID.
func (c *Controller) HandleSelection(ctx context.Context, event dom.Event) *RefreshResult {
	userID, gen := c.selectUser(event)
	return c.show(ctx, userID, gen)
}

func (c *Controller) selectUser(event dom.Event) (userID int, gen uint64) {
	userID = DefaultUserID
	if event != nil {
		if target := event.Target(); target != nil {
			if id, err := strconv.Atoi(target.Value()); err == nil && id > 0 {
				userID = id
			}
		}
	}
	c.selected.Set(userID)
	return userID, c.generation.Add(1)
}

// show fetches and renders the posts of userID unless a later selection has
// been made in the meantime.
func (c *Controller) show(ctx context.Context, userID int, gen uint64) *RefreshResult {
	posts := c.src.PostsOf(ctx, userID)
	if posts == nil {
		return nil
	}
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if gen != c.generation.Load() {
		console.Log("controller: skipping superseded selection of user", userID)
		return nil
	}
	return c.refresh(ctx, posts)
}

// Refresh replaces the content of <main> with posts: it detaches the toggle
// handlers, clears <main>, renders the posts and attaches handlers to the new
// buttons. Refreshes never interleave; when selections race, only the most
// recent selection is rendered.
// A nil posts does nothing and returns nil.
func (c *Controller) Refresh(ctx context.Context, posts []placeholder.Post) *RefreshResult {
	if posts == nil {
		return nil
	}
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refresh(ctx, posts)
}

// refresh runs the four refresh steps. c.refreshMu must be held.
func (c *Controller) refresh(ctx context.Context, posts []placeholder.Post) *RefreshResult {
	c.state.Set(Refreshing)
	defer c.state.Set(Idle)

	res := &RefreshResult{}
	res.Detached = c.listeners.Detach()
	res.Main = view.ClearChildren(c.view.Main())
	res.Rendered = c.view.RenderMain(ctx, posts)
	res.Attached = c.listeners.Attach()
	console.Log("controller: rendered", len(posts), "posts,", c.listeners.Bound(), "toggles bound")
	return res
}

// Stop removes the controller's document and menu listeners.
func (c *Controller) Stop() {
	if c.loadedL != nil {
		c.doc.RemoveEventListener(dom.EventDOMContentLoaded, c.loadedL)
		c.loadedL.Release()
		c.loadedL = nil
	}
	if c.changeL != nil && c.menu != nil {
		c.menu.RemoveEventListener(dom.EventChange, c.changeL)
		c.changeL.Release()
		c.changeL = nil
	}
}

// Wait blocks until all event-triggered work has finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) spawn(fn func()) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		fn()
	}()
}
