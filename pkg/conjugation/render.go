package conjugation

import (
	"fmt"
	"html"
	"strings"
)

// Text returns the form as plain text, root followed by suffix.
func (f Form) Text() string {
	if f.Suffix == nil {
		return f.Root
	}
	return f.Root + f.Suffix.Text()
}

// HTML renders the form for a flashcard. Regular endings are highlighted
// green; irregular forms are shown entirely in red.
func (f Form) HTML() string {
	switch s := f.Suffix.(type) {
	case Regular:
		return fmt.Sprintf(`%s<span style="color: green;">%s</span>`, html.EscapeString(f.Root), html.EscapeString(s.Text()))
	case Irregular:
		return fmt.Sprintf(`<span style="color: red;">%s</span>`, html.EscapeString(f.Text()))
	}
	return html.EscapeString(f.Root)
}

// Describe renders the table as one "Pronoun form." line per person,
// with forms in HTML.
func (t *Table) Describe(lang Language) string {
	return t.lines(lang, Form.HTML)
}

// SampleText renders the table as plain sentences for a spoken sample.
func (t *Table) SampleText(lang Language) string {
	return strings.ReplaceAll(t.lines(lang, Form.Text), "\n", " ")
}

func (t *Table) lines(lang Language, render func(Form) string) string {
	var b strings.Builder
	for i, p := range t.Pronouns() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s.", lang.Speaking(p), render(t.Forms[p]))
	}
	return b.String()
}
