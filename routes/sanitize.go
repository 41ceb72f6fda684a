// Package routes wires the engine's route table to a live (or fake) browser:
// tabs, windows, extensions, the debugger, DOM inputs, and the self-hosting
// background source.
package routes

import "strings"

const maxSanitizedLength = 200

var windowsReservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// sanitizeFilename turns arbitrary, possibly browser-controlled text (a tab
// title, a script URL, an extension name) into a name safe to use as one
// path segment: the illegal character set and C0/C1 control characters
// become "_", empty and pure-dot names become "_", Windows reserved names
// get a "_" prefix, trailing dots and spaces are trimmed, and the result is
// truncated to maxSanitizedLength characters.
func sanitizeFilename(s string) string {
	trimmed := strings.TrimRight(s, ". ")

	var b strings.Builder
	for _, r := range trimmed {
		if isIllegalFilenameRune(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()

	if out == "" || isAllDots(out) {
		out = "_"
	}
	if windowsReservedNames[strings.ToLower(out)] {
		out = "_" + out
	}
	if runes := []rune(out); len(runes) > maxSanitizedLength {
		out = string(runes[:maxSanitizedLength])
	}
	return out
}

func isIllegalFilenameRune(r rune) bool {
	switch r {
	case '/', '\\', '?', '*', '<', '>', ':', '|', '"', ' ':
		return true
	}
	if r <= 0x1f {
		return true
	}
	if r >= 0x7f && r <= 0x9f {
		return true
	}
	return false
}

func isAllDots(s string) bool {
	for _, r := range s {
		if r != '.' {
			return false
		}
	}
	return true
}
