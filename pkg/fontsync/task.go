package fontsync

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Task is a single download: where it comes from and where it lands.
type Task struct {
	Font string
	// URL is the source with the proxy prefix applied.
	URL  string
	Name string
	Ext  string
	// Dest is relative to the base directory.
	Dest string
}

// NewTask prepends proxy to rawURL by plain concatenation and derives the
// file name from the final path segment. Query and fragment are ignored.
func NewTask(font string, rawURL string, proxy string) Task {
	full := proxy + rawURL
	name := baseName(full)
	t := Task{Font: font, URL: full, Name: name}
	if name != "" {
		// leading dots belong to the name, so ".ttf" has no extension
		t.Ext = path.Ext(strings.TrimLeft(name, "."))
		t.Dest = filepath.Join(font, name)
	}
	return t
}

func baseName(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	name := path.Base(p)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
