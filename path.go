// Package tabfs implements the in-browser request router and virtual
// filesystem engine for a host-side FUSE adapter: a route table keyed by
// typed path patterns, a contents adapter that turns a whole-value
// getter/setter into chunked POSIX file operations, and a dispatcher that
// matches incoming requests against the table and replies over a transport.
package tabfs

import "strings"

// A Path is a slash-delimited filesystem path. It plays the role of a
// composite key: segments are always separated by a single slash regardless
// of how the path was originally written.
type Path string

// StartsWith tests whether the path begins with prefix.
func (p Path) StartsWith(prefix Path) bool {
	return strings.HasPrefix(string(p), string(prefix))
}

// Names splits the path by / and returns all non-empty segments.
func (p Path) Names() []string {
	tmp := strings.Split(string(p), "/")
	cleaned := make([]string, len(tmp))
	idx := 0
	for _, str := range tmp {
		str = strings.TrimSpace(str)
		if len(str) > 0 {
			cleaned[idx] = str
			idx++
		}
	}
	return cleaned[0:idx]
}

// Depth returns how many names are included in this path.
func (p Path) Depth() int {
	return len(p.Names())
}

// Name returns the last element in this path or the empty string if this
// path is the root.
func (p Path) Name() string {
	tmp := p.Names()
	if len(tmp) > 0 {
		return tmp[len(tmp)-1]
	}
	return ""
}

// Parent returns the parent path of this path.
func (p Path) Parent() Path {
	tmp := p.Names()
	if len(tmp) > 0 {
		return Path(strings.Join(tmp[:len(tmp)-1], "/"))
	}
	return ""
}

// String normalizes the slashes in Path.
func (p Path) String() string {
	return "/" + strings.Join(p.Names(), "/")
}

// Child returns a new Path with name appended as a child segment.
func (p Path) Child(name string) Path {
	if p.String() == "/" {
		return Path("/" + name)
	}
	return Path(p.String() + "/" + name)
}

// TrimPrefix returns the path without the given leading prefix.
func (p Path) TrimPrefix(prefix Path) Path {
	tmp := strings.TrimPrefix(p.String(), prefix.String())
	if !strings.HasPrefix(tmp, "/") {
		tmp = "/" + tmp
	}
	return Path(tmp)
}

// isAppleDoubleCompanion reports whether the final path segment is a macOS
// AppleDouble metadata companion file, e.g. "._foo".
func (p Path) isAppleDoubleCompanion() bool {
	return strings.HasPrefix(p.Name(), "._")
}
