// Package shell holds the static page the post view runs in: a <select
// id="selectMenu"> and a <main> container.
package shell

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/vcrobe/postview/dom/memdom"
)

// IndexHTML is the page served at "/".
//
//go:embed index.html
var IndexHTML []byte

// Document parses IndexHTML into a fresh in-memory document.
func Document() (*memdom.Document, error) {
	doc, err := memdom.Parse(bytes.NewReader(IndexHTML))
	if err != nil {
		return nil, fmt.Errorf("parse shell: %w", err)
	}
	return doc, nil
}
