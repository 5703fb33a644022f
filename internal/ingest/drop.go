package ingest

import (
	"net/url"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ParseDropped splits the text a terminal pastes when files are dragged
// onto it. Paths are separated by whitespace or newlines, may be single or
// double quoted, may escape spaces with a backslash, and may be file:// URIs.
// Text that is not valid shell quoting (a lone apostrophe in a bare name) is
// split on whitespace instead.
func ParseDropped(text string) []string {
	text = strings.ReplaceAll(text, "\r", "\n")
	words, err := shellquote.Split(text)
	if err != nil {
		words = strings.Fields(text)
	}

	var paths []string
	for _, w := range words {
		if p := normalizeDropped(w); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func normalizeDropped(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Path
}
