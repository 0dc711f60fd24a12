// Package audio is the integration point for pronunciation samples.
package audio

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Synthesizer produces a spoken sample of text and returns the id it was
// stored under. An empty id means no sample was produced.
type Synthesizer interface {
	Synthesize(ctx context.Context, id, text string) (string, error)
}

// Nop never produces samples.
type Nop struct{}

func (Nop) Synthesize(ctx context.Context, id, text string) (string, error) {
	return "", ctx.Err()
}

// SoundField renders id as a flashcard sound reference.
func SoundField(id string) string {
	if id == "" {
		return ""
	}
	return "[sound:" + id + ".mp3]"
}

// WordID is the sample id for the spoken vocabulary word.
func WordID(word string) string {
	return sampleID(word) + "+word"
}

// ConjugationID is the sample id for the spoken conjugation table.
func ConjugationID(word string) string {
	return sampleID(word) + "+conj"
}

func sampleID(word string) string {
	return strings.Join(strings.Fields(word), "-")
}

// Sentence turns a word or phrase into the text read aloud for it: the
// first letter upper-cased and a closing period, unless it is a question.
func Sentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	r, n := utf8.DecodeRuneInString(text)
	text = string(unicode.ToUpper(r)) + text[n:]
	if strings.HasSuffix(text, "?") || strings.HasSuffix(text, ".") {
		return text
	}
	return text + "."
}
