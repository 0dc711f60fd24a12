// Package conjugation extracts present-tense conjugation tables from
// conjugator HTML pages.
package conjugation

import (
	"github.com/japaniel/verbcards/pkg/vocab"
)

// Pronoun is one of the six grammatical persons a conjugation is indexed by.
type Pronoun int

const (
	FirstSingular Pronoun = iota
	SecondSingular
	ThirdSingular
	FirstPlural
	SecondPlural
	ThirdPlural
)

// Pronouns lists every person in canonical order.
var Pronouns = []Pronoun{
	FirstSingular,
	SecondSingular,
	ThirdSingular,
	FirstPlural,
	SecondPlural,
	ThirdPlural,
}

func (p Pronoun) String() string {
	switch p {
	case FirstSingular:
		return "1st singular"
	case SecondSingular:
		return "2nd singular"
	case ThirdSingular:
		return "3rd singular"
	case FirstPlural:
		return "1st plural"
	case SecondPlural:
		return "2nd plural"
	case ThirdPlural:
		return "3rd plural"
	}
	return "unknown"
}

// Valid reports whether p is one of the six defined persons.
func (p Pronoun) Valid() bool {
	return p >= FirstSingular && p <= ThirdPlural
}

// Suffix is the inflected ending of a form. It is sealed: the only
// implementations are Regular and Irregular.
type Suffix interface {
	Text() string
	isSuffix()
}

// Regular is an ending that follows the standard pattern.
type Regular struct{ text string }

// Irregular is an exception ending.
type Irregular struct{ text string }

func (s Regular) Text() string   { return s.text }
func (s Irregular) Text() string { return s.text }

func (Regular) isSuffix()   {}
func (Irregular) isSuffix() {}

// Form is one conjugated verb form: an optional root plus a tagged suffix.
type Form struct {
	Root   string
	Suffix Suffix
}

// NewRegular builds a form whose suffix follows the regular pattern.
func NewRegular(root, suffix string) Form {
	return Form{Root: root, Suffix: Regular{text: suffix}}
}

// NewIrregular builds a form with an irregular suffix.
func NewIrregular(root, suffix string) Form {
	return Form{Root: root, Suffix: Irregular{text: suffix}}
}

// IsIrregular reports whether the form's suffix is tagged irregular.
func (f Form) IsIrregular() bool {
	_, ok := f.Suffix.(Irregular)
	return ok
}

// Table is the present-tense conjugation of one vocabulary entry.
type Table struct {
	Vocabulary vocab.Entry
	Forms      map[Pronoun]Form
}

// NewTable returns an empty table for entry.
func NewTable(entry vocab.Entry) *Table {
	return &Table{
		Vocabulary: entry,
		Forms:      make(map[Pronoun]Form),
	}
}

// add inserts f for p. A pronoun that already has a form is rejected.
func (t *Table) add(p Pronoun, f Form) error {
	if _, exists := t.Forms[p]; exists {
		return ErrDuplicatePerson
	}
	t.Forms[p] = f
	return nil
}

// Pronouns returns the persons present in the table, in canonical order.
func (t *Table) Pronouns() []Pronoun {
	var out []Pronoun
	for _, p := range Pronouns {
		if _, ok := t.Forms[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Irregular reports whether any form in the table is irregular.
func (t *Table) Irregular() bool {
	for _, f := range t.Forms {
		if f.IsIrregular() {
			return true
		}
	}
	return false
}
