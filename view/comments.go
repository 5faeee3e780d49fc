package view

import (
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
)

// BuildComments returns a detached fragment with one article per comment.
func (v *View) BuildComments(comments []placeholder.Comment) dom.Fragment {
	if comments == nil {
		return nil
	}
	fragment := v.doc.CreateDocumentFragment()
	for _, c := range comments {
		article := v.doc.CreateElement("article")
		article.AppendChild(v.Make("h3", c.Name, ""))
		article.AppendChild(v.Make("p", c.Body, ""))
		article.AppendChild(v.Make("p", "From: "+c.Email, ""))
		fragment.AppendChild(article)
	}
	return fragment
}
