// Package site serves the embedded ticket upload page.
package site

import (
	"net/http"
)

// Register attaches the upload page to mux. It answers GET requests no
// other route claims, so it must share a mux with method-qualified routes.
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
