package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shurcooL/htmlg"
	"github.com/vcrobe/postview/config"
	"github.com/vcrobe/postview/controller"
	"github.com/vcrobe/postview/dom"
	"github.com/vcrobe/postview/dom/memdom"
	"github.com/vcrobe/postview/placeholder"
	"github.com/vcrobe/postview/shell"
	"github.com/vcrobe/postview/view"
)

type renderCmd struct {
	User int  `kong:"help='Id of the author to show',default='1'"`
	Page bool `kong:"help='Print the whole page instead of <main>'"`
}

func (r *renderCmd) Run(ctx context.Context, cfg *config.Config) error {
	return render(ctx, cfg, r.User, r.Page, os.Stdout)
}

// render boots the shell page in memory, selects userID in the menu the way a
// user would and writes the result to w.
func render(ctx context.Context, cfg *config.Config, userID int, page bool, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := placeholder.New(cfg.BaseURL, nil)
	if err != nil {
		return err
	}
	doc, err := shell.Document()
	if err != nil {
		return err
	}

	ctrl := controller.New(doc, client)
	defer ctrl.Stop()

	menu := ctrl.Boot(ctx)
	if menu == nil {
		return errors.New("render: no authors loaded")
	}
	menu.SetValue(strconv.Itoa(userID))
	if menu.Value() != strconv.Itoa(userID) {
		return fmt.Errorf("render: no author with id %d", userID)
	}
	if ctrl.HandleSelection(ctx, memdom.NewEvent(dom.EventChange, menu)) == nil {
		return fmt.Errorf("render: no posts for author %d", userID)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if page {
		return doc.Render(w)
	}
	mainEl, ok := doc.QuerySelector(view.MainSelector).(*memdom.Element)
	if !ok {
		return errors.New("render: <main> not found")
	}
	_, err = io.WriteString(w, htmlg.Render(mainEl.Node())+"\n")
	return err
}
