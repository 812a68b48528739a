package publish

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Slugify lower-cases name, turns every character outside [a-z0-9-] into a
// hyphen, collapses hyphen runs and trims hyphens from both ends.
func Slugify(name string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(name) {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			r = '-'
		}
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug returns base if nothing named base exists under dir, otherwise
// the first free base-2, base-3, ...
func UniqueSlug(dir, base string) (string, error) {
	slug := base
	for n := 2; ; n++ {
		_, err := os.Stat(filepath.Join(dir, slug))
		if errors.Is(err, fs.ErrNotExist) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}
