package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxSegmentBytes keeps a single path segment well under common filesystem limits
const maxSegmentBytes = 200

// invalidChars are rejected by at least one of the filesystems a library may live on
const invalidChars = `<>:"\|?*`

// 🧹 SanitizePath cleans every segment of a slash separated path and drops the
// segments that end up empty
func SanitizePath(p string) string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s = SanitizeSegment(s); s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, "/")
}

// 🧹 SanitizeSegment makes s safe to use as a single file or directory name
func SanitizeSegment(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case strings.ContainsRune(invalidChars, r), unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}

	out := truncate(b.String(), maxSegmentBytes)
	out = strings.TrimRight(out, ". ")
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
