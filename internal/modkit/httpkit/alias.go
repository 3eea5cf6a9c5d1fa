// Package httpkit re-exports the platform http helpers modules mount with
// so module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "shoof/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Page is the list window metadata
	Page = phttp.Page

	// Response is what return style handlers produce
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response whose status comes from the error code
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response carrying a page block
func List(items any, p Page) Response { return phttp.List(items, p) }

// Call adapts a handler that reads nothing but the path
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.NoBodyHandler(fn) }

// PathID parses a positive int64 path parameter
func PathID(r *http.Request, name string) (int64, error) { return phttp.PathID(r, name) }
