// Package view builds and updates the post list: author options in the select
// menu, one article per post with a collapsible comments section, and the
// click handlers that expand and collapse those sections.
//
// Every builder returns nil when its input is nil or its target is missing.
package view

import (
	"context"

	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
)

// Element ids, selectors and texts shared with the static page and its stylesheet.
const (
	SelectMenuID = "selectMenu"

	MainSelector    = "main"
	ButtonsSelector = "main button"

	AttrPostID = "data-post-id"

	ClassComments    = "comments"
	ClassHide        = "hide"
	ClassDefaultText = "default-text"

	ShowComments = "Show Comments"
	HideComments = "Hide Comments"

	DefaultText = "Select an Employee to display their posts."
)

// Source is the data the view reads. *placeholder.Client implements it.
// Methods return nil when the data is unavailable.
type Source interface {
	Users(ctx context.Context) []placeholder.User
	PostsOf(ctx context.Context, userID int) []placeholder.Post
	User(ctx context.Context, userID int) *placeholder.User
	CommentsOf(ctx context.Context, postID int) []placeholder.Comment
}

var _ Source = (*placeholder.Client)(nil)

// View renders placeholder data into a document.
type View struct {
	doc dom.Document
	src Source
}

// New returns a View rendering into doc with data from src.
func New(doc dom.Document, src Source) *View {
	return &View{doc: doc, src: src}
}

// Main returns the page's <main> element, or nil.
func (v *View) Main() dom.Element {
	return v.doc.QuerySelector(MainSelector)
}
