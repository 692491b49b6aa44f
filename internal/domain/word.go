package domain

import "strings"

// MaxWordLen matches the VARCHAR(40) columns of source_words/target_words.
const MaxWordLen = 40

// Side selects one of the two vocabularies of a translation pair.
type Side string

const (
	// SideSource is the side the user learns from (e.g. English).
	SideSource Side = "source"
	// SideTarget is the translation side (e.g. Russian).
	SideTarget Side = "target"
)

// Opposite returns the other side of a pair.
func (s Side) Opposite() Side {
	if s == SideSource {
		return SideTarget
	}
	return SideSource
}

// Pair is one translation link between a source word and a target word.
type Pair struct {
	LinkID     int64
	SourceText string
	TargetText string
}

// LinkRefs carries the row identifiers of one link and its two words.
// The deletion path resolves a word text to LinkRefs, then removes the
// whole unit atomically.
type LinkRefs struct {
	LinkID       int64
	SourceWordID int64
	TargetWordID int64
}

// Text returns the pair's text on the given side.
func (p Pair) Text(side Side) string {
	if side == SideSource {
		return p.SourceText
	}
	return p.TargetText
}

// CleanWord prepares free-form user input for storage and lookup:
//   - trims leading/trailing whitespace
//   - compresses runs of spaces into one
//
// Case is preserved: answers are compared against choices exactly as
// they were displayed.
func CleanWord(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateWord checks that a cleaned word is storable.
func ValidateWord(field, text string) error {
	if text == "" {
		return NewValidationError(field, "must not be empty")
	}
	if len(text) > MaxWordLen {
		return NewValidationError(field, "too long")
	}
	return nil
}
