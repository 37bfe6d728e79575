package core

// diacritics.go renders registry names in the Romanian spelling convention a
// caller asks for.
//
// Names are stored in the post-1993 form: comma-below Ș/Ț and the Â-based
// circumflex rule. A DiacriticConfig selects, independently:
//
//   - Pre1993:    the older Î-based spelling (Â becomes Î, except in ROMÂNĂ)
//   - UseCedilla: Ş/Ţ with cedilla instead of Ș/Ț with comma below
//   - StripAll:   plain ASCII letters
//
// The transformations run in that order and Normalize is idempotent for any
// fixed configuration.

import (
	"fmt"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DiacriticConfig selects how names are rendered.
// The zero value returns names exactly as stored.
type DiacriticConfig struct {
	StripAll   bool
	UseCedilla bool
	Pre1993    bool
}

// IsNeutral reports whether the config leaves names untouched.
func (c DiacriticConfig) IsNeutral() bool {
	return c == DiacriticConfig{}
}

// String returns the config in the comma-separated form accepted by
// ParseDiacriticConfig.
func (c DiacriticConfig) String() string {
	var flags []string
	if c.StripAll {
		flags = append(flags, "strip")
	}
	if c.UseCedilla {
		flags = append(flags, "cedilla")
	}
	if c.Pre1993 {
		flags = append(flags, "pre1993")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ",")
}

// ParseDiacriticConfig parses a comma-separated flag list such as
// "cedilla,pre1993". Empty input and "none" yield the neutral config.
func ParseDiacriticConfig(s string) (DiacriticConfig, error) {
	var cfg DiacriticConfig
	for _, flag := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "", "none":
		case "strip", "ascii":
			cfg.StripAll = true
		case "cedilla":
			cfg.UseCedilla = true
		case "pre1993", "pre-1993":
			cfg.Pre1993 = true
		default:
			return DiacriticConfig{}, fmt.Errorf("%w: unknown diacritics flag %q", ErrInvalidDiacritics, flag)
		}
	}
	return cfg, nil
}

var (
	cedillaToComma = strings.NewReplacer("Ş", "Ș", "ş", "ș", "Ţ", "Ț", "ţ", "ț")
	commaToCedilla = strings.NewReplacer("Ș", "Ş", "ș", "ş", "Ț", "Ţ", "ț", "ţ")
	circumflexToI  = strings.NewReplacer("Â", "Î", "â", "î")
)

// romanianWords keeps "română" spelled with Â in the pre-1993 convention.
var romanianWords = map[string]string{
	"ROMÂNĂ": "ROMÂNĂ",
	"ROMÎNĂ": "ROMÂNĂ",
	"Română": "Română",
	"Romînă": "Română",
	"română": "română",
	"romînă": "română",
}

// CanonicalName converts cedilla letters to their comma-below forms, the
// spelling stored in the registry.
func CanonicalName(s string) string {
	return cedillaToComma.Replace(s)
}

// Normalize renders text according to cfg.
func Normalize(text string, cfg DiacriticConfig) string {
	if cfg.IsNeutral() {
		return text
	}

	if cfg.Pre1993 {
		text = toPre1993(text)
	}

	if cfg.UseCedilla {
		text = commaToCedilla.Replace(text)
	} else {
		text = cedillaToComma.Replace(text)
	}

	if cfg.StripAll {
		text = stripMarks(text)
	}

	return text
}

// toPre1993 applies the Î-based convention word by word. A word-final Ă
// followed by a space is written Î.
func toPre1993(text string) string {
	words := strings.Split(text, " ")
	last := len(words) - 1
	for i, w := range words {
		if kept, ok := romanianWords[w]; ok {
			words[i] = kept
			continue
		}
		w = circumflexToI.Replace(w)
		if i < last {
			switch {
			case strings.HasSuffix(w, "Ă"):
				w = strings.TrimSuffix(w, "Ă") + "Î"
			case strings.HasSuffix(w, "ă"):
				w = strings.TrimSuffix(w, "ă") + "î"
			}
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

// romanianMark reports the combining marks of the Romanian letters: circumflex
// (Â, Î), breve (Ă), comma below (Ș, Ț) and cedilla (Ş, Ţ).
func romanianMark(r rune) bool {
	switch r {
	case '\u0302', '\u0306', '\u0326', '\u0327':
		return true
	}
	return false
}

// stripMarks turns Ă, Â, Î, Ș, Ş, Ț and Ţ into their base letters. Other
// accented letters are left alone.
func stripMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(romanianMark)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
