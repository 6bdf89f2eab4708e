package service

import (
	"path"
	"strings"
	"unicode"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// Slugify lowercases s, drops punctuation and joins words with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// PackageSlug derives a package slug from its category label and name,
// e.g. "digital-creator-basic".
func PackageSlug(category models.PackageCategory, name string) string {
	return Slugify(category.DisplayName() + "-" + name)
}

// TitleFromFilename turns "summer_shoot-01.jpg" into "Summer Shoot 01".
func TitleFromFilename(file string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	words := strings.Fields(base)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
