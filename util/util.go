// Package util is a set of utility variables or methods
package util

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSubject names exports of listings without a usable title.
const DefaultSubject = "imovel"

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".png", ".webp",
)

// SupportedImageURL reports whether the url path ends in a supported image
// extension. Query strings and fragments are ignored.
func SupportedImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return false
	}
	return SupportedExt.Contains(strings.ToLower(path.Ext(u.Path)))
}

// Fold lowercases s and strips diacritics, "Área" becomes "area".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Slug turns a title into a lowercase ascii file name prefix.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range Fold(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return DefaultSubject
	}
	return slug
}
