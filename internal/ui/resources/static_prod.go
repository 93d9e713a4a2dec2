//go:build !dev

package resources

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

//go:embed static/*
var staticFS embed.FS

// bootTime is the modification time reported for embedded assets.
var bootTime = time.Now()

var minified = sync.OnceValue(func() map[string][]byte {
	out := make(map[string][]byte)
	entries, err := fs.ReadDir(staticFS, "static")
	if err != nil {
		return out
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src, err := staticFS.ReadFile("static/" + entry.Name())
		if err != nil {
			continue
		}
		code, err := Minify(entry.Name(), src)
		if err != nil {
			slog.Warn("serving asset unminified", "asset", entry.Name(), "error", err)
			code = src
		}
		out[entry.Name()] = code
	}
	return out
})

// DevMode reports whether assets are served from the source tree.
const DevMode = false

// Handler returns an HTTP handler for serving static files.
// In production mode, files are embedded in the binary and minified once.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := assetName(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		content, ok := minified()[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Cache embedded static assets for 1 year (they never change in prod)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.ServeContent(w, r, name, bootTime, bytes.NewReader(content))
	})
}

// Has reports whether the asset behind a /static/ URL path exists.
func Has(urlPath string) bool {
	name, ok := assetName(urlPath)
	if !ok {
		return false
	}
	_, err := fs.Stat(staticFS, "static/"+name)
	return err == nil
}

// Read returns the minified content of an embedded asset.
func Read(name string) ([]byte, error) {
	content, ok := minified()[name]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", name)
	}
	return content, nil
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
