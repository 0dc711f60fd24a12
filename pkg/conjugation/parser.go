package conjugation

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/japaniel/verbcards/pkg/vocab"
)

// Selectors for the conjugator page layout. A page groups rows into tense
// blocks under its result area, and boxes elsewhere are not tenses. Each row
// carries a person label, an optional root and exactly one suffix marked
// regular or irregular by class.
var (
	tenseBlockSel   = cascadia.MustCompile("div.result-block-api > div.word-wrap-row > div.wrap-three-col > div.blue-box-wrap")
	rowSel          = cascadia.MustCompile("ul.wrap-verbs-listing > li")
	personSel       = cascadia.MustCompile("i.graytxt")
	rootSel         = cascadia.MustCompile("i.verbtxt")
	regularSuffix   = cascadia.MustCompile("i.verbtxt-term")
	irregularSuffix = cascadia.MustCompile("i.verbtxt-term-irr")
)

// Parser turns conjugator pages into tables for a single language.
type Parser struct {
	lang Language
}

// NewParser returns a parser for lang.
func NewParser(lang Language) *Parser {
	return &Parser{lang: lang}
}

// Parse extracts the Portuguese present tense from document.
func Parse(entry vocab.Entry, document string) (*Table, error) {
	return NewParser(Portuguese).Parse(entry, document)
}

// Parse extracts the present-tense table of entry from document.
//
// Any departure from the expected markup is returned as a *ParseError:
// a missing present block, an unknown person label, a row with both or
// neither suffix markers, or a person that appears twice. A block that
// lists fewer than six persons is accepted.
func (p *Parser) Parse(entry vocab.Entry, document string) (*Table, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse html for %q: %w", entry.Source, err)
	}

	block := p.findTense(root)
	if block == nil {
		return nil, &ParseError{Vocabulary: entry.Source, Err: ErrTenseNotFound}
	}

	table := NewTable(entry)
	for _, row := range rowSel.MatchAll(block) {
		label := text(personSel.MatchFirst(row))
		pronoun, ok := p.lang.Pronoun(label)
		if !ok {
			return nil, &ParseError{Vocabulary: entry.Source, Person: label, Err: ErrInvalidPerson}
		}

		form, err := extractForm(row)
		if err != nil {
			return nil, &ParseError{Vocabulary: entry.Source, Person: label, Err: err}
		}

		if err := table.add(pronoun, form); err != nil {
			return nil, &ParseError{Vocabulary: entry.Source, Person: label, Err: err}
		}
	}

	return table, nil
}

// findTense returns the first tense block labelled with the present tense.
func (p *Parser) findTense(root *html.Node) *html.Node {
	for _, block := range tenseBlockSel.MatchAll(root) {
		paragraphs := dom.GetElementsByTagName(block, "p")
		if len(paragraphs) == 0 {
			continue
		}
		if text(paragraphs[0]) == p.lang.PresentTense {
			return block
		}
	}
	return nil
}

func extractForm(row *html.Node) (Form, error) {
	root := text(rootSel.MatchFirst(row))
	regular := regularSuffix.MatchFirst(row)
	irregular := irregularSuffix.MatchFirst(row)

	switch {
	case regular != nil && irregular != nil:
		return Form{}, ErrAmbiguousSuffix
	case regular != nil:
		return NewRegular(root, text(regular)), nil
	case irregular != nil:
		return NewIrregular(root, text(irregular)), nil
	default:
		return Form{}, ErrNoConjugation
	}
}

// text returns the trimmed text content of n, or "" for nil.
func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(dom.TextContent(n))
}
