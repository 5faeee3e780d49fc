package view

import (
	"context"
	"strconv"

	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
)

// BuildPosts returns a detached fragment with one article per post, in input
// order. Each article waits for its author and its comments before the next
// post is started.
func (v *View) BuildPosts(ctx context.Context, posts []placeholder.Post) dom.Fragment {
	if posts == nil {
		return nil
	}
	fragment := v.doc.CreateDocumentFragment()
	for _, p := range posts {
		article := v.doc.CreateElement("article")
		author := v.src.User(ctx, p.UserID)

		article.AppendChild(v.Make("h2", p.Title, ""))
		article.AppendChild(v.Make("p", p.Body, ""))
		article.AppendChild(v.Make("p", "Post ID: "+strconv.Itoa(p.ID), ""))
		if author != nil {
			article.AppendChild(v.Make("p", "Author: "+author.Name+" with "+author.Company.Name, ""))
			article.AppendChild(v.Make("p", author.Company.CatchPhrase, ""))
		}

		button := v.Make("button", ShowComments, "")
		button.SetAttribute(AttrPostID, strconv.Itoa(p.ID))
		article.AppendChild(button)

		if section := v.DisplayComments(ctx, p.ID); section != nil {
			article.AppendChild(section)
		}
		fragment.AppendChild(article)
	}
	return fragment
}

// DisplayComments returns the hidden comments section for postID.
// The section is empty when the comments cannot be fetched.
func (v *View) DisplayComments(ctx context.Context, postID int) dom.Element {
	if postID <= 0 {
		return nil
	}
	section := v.doc.CreateElement("section")
	section.SetAttribute(AttrPostID, strconv.Itoa(postID))
	section.SetClassName(ClassComments + " " + ClassHide)
	if fragment := v.BuildComments(v.src.CommentsOf(ctx, postID)); fragment != nil {
		section.AppendChild(fragment)
	}
	return section
}

// RenderMain appends the posts to <main> and returns what was appended: the
// posts fragment (empty once appended), or the default-text paragraph when
// posts is nil.
func (v *View) RenderMain(ctx context.Context, posts []placeholder.Post) dom.Node {
	main := v.Main()
	if main == nil {
		console.Error("view: <main> not found")
		return nil
	}
	var content dom.Node
	if posts != nil {
		content = v.BuildPosts(ctx, posts)
	} else {
		content = v.Make("p", DefaultText, ClassDefaultText)
	}
	main.AppendChild(content)
	return content
}
