// Package normalize turns raw catalog text into the canonical token string
// ("soup") that feeds the vectorizer.
package normalize

import (
	"strings"

	"github.com/hana/reelmind/internal/domain"
)

// DefaultSoupFields are the movie fields concatenated into the soup, in order.
var DefaultSoupFields = []string{"genres", "cast", "director", "description"}

// Clean lower-cases s, replaces every character outside [a-z0-9 whitespace |]
// with a space, collapses whitespace runs, and trims the ends. The pipe is
// kept as a field-separator signal. Empty input yields the empty string.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '|':
			b.WriteRune(r)
		default:
			// whitespace and punctuation alike collapse below
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// BuildSoup concatenates the cleaned selected fields of m with single spaces,
// skipping fields that clean to empty. A nil or empty fields slice selects
// DefaultSoupFields.
func BuildSoup(m *domain.Movie, fields []string) string {
	if len(fields) == 0 {
		fields = DefaultSoupFields
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := Clean(fieldValue(m, f))
		if cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

// Normalize derives the NormalizedMovie for m using the default soup fields.
func Normalize(m domain.Movie) domain.NormalizedMovie {
	return domain.NormalizedMovie{Movie: m, Soup: BuildSoup(&m, nil)}
}

func fieldValue(m *domain.Movie, name string) string {
	switch name {
	case "title":
		return m.Title
	case "genres":
		return m.Genres
	case "cast":
		return m.Cast
	case "director":
		return m.Director
	case "description":
		return m.Description
	default:
		return ""
	}
}
