package conjugation

import (
	"fmt"
	"strings"
)

// Language describes how a conjugator page labels tenses and persons for
// one language, and how forms are spoken back.
type Language struct {
	Code string
	// Name is the language name as it appears in conjugator URLs.
	Name string
	// Deck is the flashcard deck the language's verbs are filed under.
	Deck         string
	PresentTense string
	labels       [6]string
	speaking     [6]string
	// articles holds the definite article for masculine then feminine nouns.
	articles [2]string
}

// Portuguese is the layout used by the Portuguese conjugator pages.
var Portuguese = Language{
	Code:         "pt",
	Name:         "portuguese",
	Deck:         "Portuguese",
	PresentTense: "Presente",
	labels:       [6]string{"eu", "tu", "ele/ela/você", "nós", "vós", "eles/elas/vocês"},
	speaking:     [6]string{"Eu", "Tu", "Ele", "Nós", "Vós", "Eles"},
	articles:     [2]string{"O", "A"},
}

var languages = map[string]Language{
	Portuguese.Code: Portuguese,
}

// LookupLanguage resolves a language code such as "pt". Codes are
// case-insensitive.
func LookupLanguage(code string) (Language, error) {
	lang, ok := languages[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return lang, nil
}

// Label returns the canonical person label used on conjugator pages.
func (l Language) Label(p Pronoun) string {
	if !p.Valid() {
		return ""
	}
	return l.labels[p]
}

// Speaking returns the short pronoun used when a form is read aloud.
func (l Language) Speaking(p Pronoun) string {
	if !p.Valid() {
		return ""
	}
	return l.speaking[p]
}

// Pronoun resolves a rendered person label back to its Pronoun.
func (l Language) Pronoun(label string) (Pronoun, bool) {
	for _, p := range Pronouns {
		if l.labels[p] == label {
			return p, true
		}
	}
	return 0, false
}

// Article returns the definite article for a noun of gender "m" or "f".
func (l Language) Article(gender string) (string, bool) {
	switch strings.ToLower(gender) {
	case "m":
		return l.articles[0], l.articles[0] != ""
	case "f":
		return l.articles[1], l.articles[1] != ""
	}
	return "", false
}
