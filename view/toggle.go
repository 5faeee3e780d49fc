package view

import (
	"fmt"

	"github.com/vcrobe/postview/dom"
)

// ListenerProperty is set to true on the target of every handled toggle click.
const ListenerProperty = "listener"

// ToggleSection flips the hide class of the comments section for postID and
// returns the section.
func (v *View) ToggleSection(postID int) dom.Element {
	if postID <= 0 {
		return nil
	}
	section := v.doc.QuerySelector(fmt.Sprintf(`section[%s="%d"]`, AttrPostID, postID))
	if section == nil {
		return nil
	}
	section.ToggleClass(ClassHide)
	return section
}

// ToggleButton swaps the label of the toggle button for postID and returns the button.
func (v *View) ToggleButton(postID int) dom.Element {
	if postID <= 0 {
		return nil
	}
	button := v.doc.QuerySelector(fmt.Sprintf(`button[%s="%d"]`, AttrPostID, postID))
	if button == nil {
		return nil
	}
	if button.TextContent() == ShowComments {
		button.SetTextContent(HideComments)
	} else {
		button.SetTextContent(ShowComments)
	}
	return button
}

// OnToggleClick handles a click on the toggle button of postID: it tags the
// event target, then toggles the section and the button.
func (v *View) OnToggleClick(event dom.Event, postID int) (section, button dom.Element) {
	if event != nil {
		if target := event.Target(); target != nil {
			target.SetProperty(ListenerProperty, true)
		}
	}
	return v.ToggleSection(postID), v.ToggleButton(postID)
}
