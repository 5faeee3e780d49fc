//go:build !wasm

package controller

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
	"github.com/vcrobe/postview/view"
	"github.com/vcrobe/postview/viewtest"
)

// gatedSource holds back the posts of one user until release is closed.
type gatedSource struct {
	*placeholder.Client
	userID  int
	release chan struct{}
}

func (g *gatedSource) PostsOf(ctx context.Context, userID int) []placeholder.Post {
	if userID == g.userID {
		<-g.release
	}
	return g.Client.PostsOf(ctx, userID)
}

func assertShowsUser2(t *testing.T, f *fixture) {
	t.Helper()
	assert.Equal(t, 2, f.ctrl.Selected().Get())
	assert.Equal(t, Idle, f.ctrl.State().Get())

	buttons := f.doc.QuerySelectorAll(view.ButtonsSelector)
	var ids []string
	for _, b := range buttons {
		ids = append(ids, b.GetAttribute(view.AttrPostID))
		assert.Equal(t, 1, viewtest.Element(t, b).ListenerCount(dom.EventClick))
	}
	assert.Equal(t, []string{"11", "12"}, ids)
	assert.Equal(t, len(buttons), f.ctrl.Listeners().Bound())
	assert.Len(t, f.doc.QuerySelectorAll("main > article"), 2)
}

func TestChangeEvent_LatestSelectionWins(t *testing.T) {
	var logs bytes.Buffer
	prev := console.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { console.SetLogger(prev) })

	srv := viewtest.NewServer(t, viewtest.Fixture())
	doc := viewtest.NewDocument(t)
	src := &gatedSource{Client: srv.Client(t), userID: 1, release: make(chan struct{})}
	f := &fixture{srv: srv, doc: doc, ctrl: New(doc, src)}
	t.Cleanup(f.ctrl.Stop)

	menu := f.ctrl.Boot(context.Background())
	require.NotNil(t, menu)

	// User 1 is picked first but its posts arrive after user 2 is rendered.
	menu.SetValue("1")
	f.menu(t).Dispatch(dom.EventChange)
	menu.SetValue("2")
	f.menu(t).Dispatch(dom.EventChange)

	require.Eventually(t, func() bool {
		return doc.QuerySelector(`button[data-post-id="12"]`) != nil
	}, 5*time.Second, 5*time.Millisecond)
	close(src.release)
	f.ctrl.Wait()

	assertShowsUser2(t, f)
	assert.Contains(t, logs.String(), "skipping superseded selection of user 1")
	assert.Equal(t, 1, srv.RequestCount("/users/1/posts"))
	assert.Zero(t, srv.RequestCount("/posts/1/comments"), "the stale selection is never rendered")
}

func TestChangeEvent_RapidSelections(t *testing.T) {
	f := newFixture(t)
	require.NotNil(t, f.ctrl.Boot(context.Background()))
	menu := f.menu(t)

	// No Wait between changes: refreshes overlap with later selections.
	for i := range 40 {
		menu.SetValue(strconv.Itoa(i%2 + 1))
		menu.Dispatch(dom.EventChange)
	}
	f.ctrl.Wait()

	assertShowsUser2(t, f)
}
