package conjugation

import (
	"errors"
	"fmt"
)

// ErrStructural matches every error caused by a document that breaks the
// expected conjugation markup.
var ErrStructural = errors.New("structural parse error")

var (
	ErrTenseNotFound   = errors.New("target tense not found")
	ErrInvalidPerson   = errors.New("invalid person")
	ErrAmbiguousSuffix = errors.New("ambiguous regular/irregular")
	ErrNoConjugation   = errors.New("no conjugation found")
	ErrDuplicatePerson = errors.New("duplicate person")
)

// ErrUnknownLanguage is returned by LookupLanguage for unregistered codes.
var ErrUnknownLanguage = errors.New("unknown language")

// ParseError reports a document that cannot be turned into a table.
type ParseError struct {
	// Vocabulary is the source-language key of the entry being parsed.
	Vocabulary string
	// Person is the rendered person label of the offending row, if any.
	Person string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Person != "" {
		return fmt.Sprintf("conjugation of %q: %v (person %q)", e.Vocabulary, e.Err, e.Person)
	}
	return fmt.Sprintf("conjugation of %q: %v", e.Vocabulary, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrStructural, e.Err}
}
