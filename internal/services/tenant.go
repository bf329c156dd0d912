package services

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NewTenantID derives a unique, human-readable tenant identifier from the
// clinic name: a slug plus the first 8 hex characters of a fresh UUID.
// "Clínica São Lucas" -> "clinica-sao-lucas-1a2b3c4d". The suffix makes
// collisions negligible; it is not a security token.
func NewTenantID(clinicName string) string {
	return Slugify(clinicName) + "-" + uuid.NewString()[:8]
}

// Slugify lowercases the name, strips accents, maps everything outside
// [a-z0-9] to hyphens and collapses runs. An empty input slugs to
// "clinic" so a tenant id never starts with the random suffix alone.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// Decompose accented characters and drop the combining marks.
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if b.Len() > 0 && !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "clinic"
	}
	return slug
}
