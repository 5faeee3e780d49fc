//go:build js && wasm

package main

import (
	"context"

	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/controller"
	"github.com/vcrobe/postview/dom/jsdom"
	"github.com/vcrobe/postview/placeholder"
)

func main() {
	client, err := placeholder.New(placeholder.DefaultBaseURL, nil)
	if err != nil {
		console.Error("postview:", err)
		return
	}

	ctrl := controller.New(jsdom.New(), client)
	ctrl.Start(context.Background())

	// Keep the Go runtime alive so the event handlers stay registered.
	select {}
}
