package view

import "github.com/vcrobe/postview/dom"

// Make creates a tag element with the given text and class attribute.
// An empty tag means "p".
func (v *View) Make(tag, text, class string) dom.Element {
	if tag == "" {
		tag = "p"
	}
	el := v.doc.CreateElement(tag)
	el.SetTextContent(text)
	el.SetClassName(class)
	return el
}

// ClearChildren removes every child of node, last first, and returns node.
// A nil node yields nil.
func ClearChildren(node dom.Element) dom.Element {
	if node == nil || node.TagName() == "" {
		return nil
	}
	for child := node.LastChild(); child != nil; child = node.LastChild() {
		node.RemoveChild(child)
	}
	return node
}
