package devtrace

import (
	"embed"
	"fmt"
	"io/fs"
)

// StylesheetName is the resource the markup renderer embeds in each page.
const StylesheetName = "trace.css"

//go:embed assets
var assets embed.FS

// ResourceLoader returns the raw content of a named resource.
type ResourceLoader interface {
	Load(name string) (string, error)
}

// FSLoader loads resources from a file system.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(name string) (string, error) {
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", fmt.Errorf("devtrace: load %s: %w", name, err)
	}
	return string(b), nil
}

// DefaultResources serves the stylesheet bundled with this package.
func DefaultResources() ResourceLoader {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return FSLoader{FS: sub}
}

func mustLoad(l ResourceLoader, name string) string {
	if l == nil {
		l = DefaultResources()
	}
	s, err := l.Load(name)
	if err != nil {
		panic(err)
	}
	return s
}
