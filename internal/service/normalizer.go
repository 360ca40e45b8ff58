package service

import (
	"strings"

	"github.com/noxss/roster-migrate/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// degreeSign is typed by mistake for the ordinal in labels like "1° ANO".
	degreeSign = "°"
	// ordinalIndicator is the correct masculine ordinal, as in "1º ANO".
	ordinalIndicator = "º"
)

// FixGlyph replaces every degree sign with the masculine ordinal indicator.
// Case and surrounding whitespace are left alone.
func FixGlyph(label string) string {
	return strings.ReplaceAll(label, degreeSign, ordinalIndicator)
}

// Normalizer builds CanonicalKeys. It is not safe for concurrent use.
type Normalizer struct {
	upper cases.Caser
}

// NewNormalizer creates a Normalizer using Portuguese case mapping.
func NewNormalizer() *Normalizer {
	return &Normalizer{upper: cases.Upper(language.Portuguese)}
}

// Key returns the CanonicalKey of a turma/turno pair. The label gets the
// glyph fix, both halves are trimmed, NFC-composed and upper-cased.
func (n *Normalizer) Key(turma, turno string) model.CanonicalKey {
	return model.JoinKey(n.part(FixGlyph(turma)), n.part(turno))
}

func (n *Normalizer) part(s string) string {
	return n.upper.String(norm.NFC.String(strings.TrimSpace(s)))
}
