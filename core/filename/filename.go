package filename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSlugLength bounds the slug in characters, extension excluded.
	MaxSlugLength = 100
	// Placeholder replaces names that sanitize to nothing.
	Placeholder = "unnamed"
	// DefaultExtension is used when Allocate is given an empty extension.
	DefaultExtension = ".json"
)

// maxAttempts bounds the collision counter so a broken filesystem cannot spin forever.
const maxAttempts = 10000

// Sanitize turns a display name into a filesystem-safe slug.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastDash := false
	for _, r := range name {
		if illegal(r) {
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
			continue
		}
		if r == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		b.WriteRune(r)
	}

	slug := trim(b.String())
	if utf8.RuneCountInString(slug) > MaxSlugLength {
		slug = trim(truncate(slug, MaxSlugLength))
	}
	if slug == "" {
		return Placeholder
	}
	return slug
}

// Allocate returns a path in dir, not yet taken, whose base name is derived from
// desiredName. The first candidate is "<slug><ext>", then "<slug>-1<ext>" and so on.
// Safe against sequential callers within one process only.
func Allocate(dir, desiredName, ext string) (string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	slug := Sanitize(desiredName)
	for i := 0; i < maxAttempts; i++ {
		base := slug
		if i > 0 {
			base = fmt.Sprintf("%s-%d", slug, i)
		}
		candidate := filepath.Join(dir, base+ext)
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("no free filename for %q in %s", slug, dir)
}

func illegal(r rune) bool {
	if unicode.IsControl(r) || unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(`<>:"/\|?*`, r)
}

func trim(s string) string {
	return strings.Trim(s, "-_.")
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
