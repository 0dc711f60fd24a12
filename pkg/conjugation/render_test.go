package conjugation

import (
	"testing"

	"github.com/japaniel/verbcards/pkg/vocab"
)

func TestFormHTML(t *testing.T) {
	reg := NewRegular("fal", "o")
	if got := reg.HTML(); got != `fal<span style="color: green;">o</span>` {
		t.Errorf("unexpected regular html: %s", got)
	}
	irr := NewIrregular("", "sou")
	if got := irr.HTML(); got != `<span style="color: red;">sou</span>` {
		t.Errorf("unexpected irregular html: %s", got)
	}
	if got := (Form{Root: "x"}).Text(); got != "x" {
		t.Errorf("form without suffix should render its root, got %q", got)
	}
}

func TestDescribeAndSampleText(t *testing.T) {
	table := NewTable(vocab.Entry{Source: "falar"})
	table.Forms[FirstPlural] = NewRegular("fal", "amos")
	table.Forms[FirstSingular] = NewRegular("fal", "o")

	wantDesc := "Eu fal<span style=\"color: green;\">o</span>.\nNós fal<span style=\"color: green;\">amos</span>."
	if got := table.Describe(Portuguese); got != wantDesc {
		t.Errorf("Describe:\n got %q\nwant %q", got, wantDesc)
	}
	if got := table.SampleText(Portuguese); got != "Eu falo. Nós falamos." {
		t.Errorf("SampleText: got %q", got)
	}
	if got := NewTable(vocab.Entry{}).Describe(Portuguese); got != "" {
		t.Errorf("empty table should describe as empty, got %q", got)
	}
}

func TestArticle(t *testing.T) {
	tests := []struct {
		gender string
		want   string
		ok     bool
	}{
		{"m", "O", true},
		{"F", "A", true},
		{"", "", false},
		{"n", "", false},
	}
	for _, tt := range tests {
		got, ok := Portuguese.Article(tt.gender)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Article(%q) = %q, %v; want %q, %v", tt.gender, got, ok, tt.want, tt.ok)
		}
	}
}
