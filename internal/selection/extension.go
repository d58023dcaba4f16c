// Package selection decides which files belong in the output artifact. It
// compiles the extension whitelist and blacklist into a Rule and walks
// configured directories, yielding every candidate file in deterministic
// traversal order.
package selection

import "strings"

// Extension returns the substring after the last dot in fileName. A name
// without a dot yields the whole name; a name ending in a dot yields the
// empty string. Comparison against configured extensions is literal, so the
// caller must not fold case.
func Extension(fileName string) string {
	return fileName[strings.LastIndex(fileName, ".")+1:]
}
