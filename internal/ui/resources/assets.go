// Package resources provides static asset handling for the UI server.
package resources

import "strings"

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// URL paths of the assets the host document loads.
const (
	StylePath         = "/static/style.css"
	TooltipStylePath  = "/static/tooltip.css"
	TooltipScriptPath = "/static/tooltip.js"
)

// DatastarScriptURL is the datastar client matching the datastar-go SDK.
const DatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Names lists the files every build must ship.
func Names() []string {
	return []string{"style.css", "tooltip.css", "tooltip.js"}
}

// assetName converts a /static/ URL path into a file name.
func assetName(urlPath string) (string, bool) {
	name, ok := strings.CutPrefix(urlPath, "/static/")
	if !ok || name == "" || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}
