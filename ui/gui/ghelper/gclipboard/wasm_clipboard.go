//go:build js && wasm
// +build js,wasm

package gclipboard

import (
	"errors"
	"syscall/js"
)

func clipboardAPI() js.Value {
	nav := js.Global().Get("navigator")
	if !nav.Truthy() {
		return js.Undefined()
	}
	return nav.Get("clipboard")
}

// await blocks until the promise settles; the browser resolves it on its own loop.
func await(promise js.Value) (js.Value, error) {
	type res struct {
		v   js.Value
		err error
	}
	ch := make(chan res, 1)
	then := js.FuncOf(func(this js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- res{v: v}
		return nil
	})
	catch := js.FuncOf(func(this js.Value, args []js.Value) any {
		msg := "clipboard promise rejected"
		if len(args) > 0 {
			msg = args[0].String()
		}
		ch <- res{err: errors.New(msg)}
		return nil
	})
	defer then.Release()
	defer catch.Release()

	promise.Call("then", then).Call("catch", catch)
	r := <-ch
	return r.v, r.err
}

func ReadAll() (string, error) {
	cb := clipboardAPI()
	if !cb.Truthy() || !cb.Get("readText").Truthy() {
		return "", errors.New("navigator.clipboard.readText not available")
	}
	v, err := await(cb.Call("readText"))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func WriteAll(text string) error {
	cb := clipboardAPI()
	if !cb.Truthy() || !cb.Get("writeText").Truthy() {
		return errors.New("navigator.clipboard.writeText not available")
	}
	_, err := await(cb.Call("writeText", text))
	return err
}

func Supported() bool {
	cb := clipboardAPI()
	return cb.Truthy() && cb.Get("writeText").Truthy()
}
