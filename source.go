package tabfs

import (
	"embed"
	"sort"
)

// EngineSource embeds this package's own source files so the engine can
// serve them at /runtime/background.js. A write to that path cannot
// re-execute a running Go binary; the route accepts writes into the cached
// slot for parity with the wire protocol, but only a restart picks up a
// real code change.
//
//go:embed *.go
var EngineSource embed.FS

// ReadEngineSource concatenates every embedded source file, in name order,
// into the single text served at /runtime/background.js.
func ReadEngineSource() (string, error) {
	entries, err := EngineSource.ReadDir(".")
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []byte
	for _, name := range names {
		data, err := EngineSource.ReadFile(name)
		if err != nil {
			return "", err
		}
		out = append(out, []byte("// --- "+name+" ---\n")...)
		out = append(out, data...)
		out = append(out, '\n')
	}
	return string(out), nil
}
