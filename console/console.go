//go:build js && wasm

package console

import (
	"fmt"
	"syscall/js"
)

func Log(args ...any) {
	call("log", args)
}

func Warn(args ...any) {
	call("warn", args)
}

func Error(args ...any) {
	call("error", args)
}

func call(method string, args []any) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return
	}
	console.Call(method, jsArgs(args)...)
}

// jsArgs converts values js.ValueOf would panic on (errors, structs) to strings.
func jsArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case nil, bool, string, int, int32, int64, uint, uint32, uint64, float32, float64, js.Value:
			out[i] = v
		case error:
			out[i] = v.Error()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
