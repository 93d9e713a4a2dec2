//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// getStaticDir derives the absolute path to the static directory
// relative to this source file, regardless of where the binary is run from.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// DevMode reports whether assets are served from the source tree.
const DevMode = true

// Handler returns an HTTP handler for serving static files.
// In dev mode, files are served unminified from the filesystem for hot reloading.
func Handler() http.Handler {
	staticDir := getStaticDir()
	slog.Info("static assets served from filesystem", "path", staticDir)

	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir))))
}

// Has reports whether the asset behind a /static/ URL path exists.
func Has(urlPath string) bool {
	name, ok := assetName(urlPath)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(getStaticDir(), name))
	return err == nil
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
