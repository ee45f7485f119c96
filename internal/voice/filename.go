package voice

import (
	"path/filepath"
	"strings"
	"unicode"
)

// AllowedExtensions lists the accepted audio extensions, lower-case without dot.
var AllowedExtensions = map[string]bool{
	"mp3": true,
	"wav": true,
	"ogg": true,
	"m4a": true,
}

// Extension returns the lower-cased final dot-segment of filename, or "" when
// there is none.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// Allowed reports whether filename carries an accepted audio extension.
func Allowed(filename string) bool {
	return AllowedExtensions[Extension(filename)]
}

// SanitizeFilename reduces a client-supplied name to a safe base name made of
// ASCII letters, digits, '.', '-' and '_'.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
