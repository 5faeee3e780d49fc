package view

import (
	"strconv"

	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/placeholder"
)

// BuildOptions returns one <option> per user, in order, valued by the user id.
func (v *View) BuildOptions(users []placeholder.User) []dom.Element {
	if users == nil {
		return nil
	}
	options := make([]dom.Element, 0, len(users))
	for _, u := range users {
		option := v.Make("option", u.Name, "")
		option.SetAttribute("value", strconv.Itoa(u.ID))
		options = append(options, option)
	}
	return options
}

// PopulateSelect appends the users' options to the select menu and returns it.
func (v *View) PopulateSelect(users []placeholder.User) dom.Element {
	if users == nil {
		return nil
	}
	menu := v.doc.GetElementByID(SelectMenuID)
	if menu == nil {
		console.Error("view: select menu not found:", "#"+SelectMenuID)
		return nil
	}
	for _, option := range v.BuildOptions(users) {
		menu.AppendChild(option)
	}
	return menu
}
