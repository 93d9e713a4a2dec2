package resources

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Minify shrinks a CSS or JavaScript asset. Other file types are returned
// unchanged.
func Minify(name string, src []byte) ([]byte, error) {
	var loader api.Loader
	switch filepath.Ext(name) {
	case ".css":
		loader = api.LoaderCSS
	case ".js":
		loader = api.LoaderJS
	default:
		return src, nil
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        name,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var errMsg strings.Builder
		for _, err := range result.Errors {
			if err.Location != nil {
				fmt.Fprintf(&errMsg, "%s:%d:%d: %s\n", err.Location.File, err.Location.Line, err.Location.Column, err.Text)
				continue
			}
			fmt.Fprintf(&errMsg, "%s: %s\n", name, err.Text)
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg.String())
	}

	return result.Code, nil
}
