// Package fsutil holds small helpers for inspecting source files.
package fsutil

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen is how much of a file DetectContentType looks at.
const sniffLen = 512

// ExtensionTag returns the lowercased extension of path without its dot,
// or "" when path has none.
func ExtensionTag(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsText reports whether content looks like text rather than binary data.
// Empty content counts as text.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	head := content
	truncated := len(head) > sniffLen
	if truncated {
		head = head[:sniffLen]
	}
	if bytes.IndexByte(head, 0) != -1 {
		return false
	}

	sniffed := http.DetectContentType(head)
	if strings.HasPrefix(sniffed, "text/") {
		return true
	}

	if utf8.Valid(head) {
		return true
	}

	// A multi-byte rune may straddle the sniff boundary.
	if truncated {
		for i := 1; i < utf8.UTFMax && i < len(head); i++ {
			if utf8.Valid(head[:len(head)-i]) {
				return true
			}
		}
	}
	return false
}
