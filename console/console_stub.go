//go:build !(js && wasm)

package console

// Native builds (tests, the postview CLI) send diagnostics to log/slog.
// The browser implementation is in console.go.

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// SetLogger replaces the logger used by Log, Warn and Error.
// It returns the previous logger so tests can restore it.
func SetLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return logger.Swap(l)
}

// Log writes an info record.
func Log(args ...any) {
	logger.Load().Info(join(args))
}

// Warn writes a warning record.
func Warn(args ...any) {
	logger.Load().Warn(join(args))
}

// Error writes an error record.
func Error(args ...any) {
	logger.Load().Error(join(args))
}

// join mimics the browser console, which separates arguments with a space.
func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}
