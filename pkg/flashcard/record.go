// Package flashcard keeps conjugation tables in a flashcard collection,
// holding at most one record per vocabulary key.
package flashcard

import (
	"strings"

	"github.com/japaniel/verbcards/pkg/db"
)

// Record is a flashcard in the fixed five-field schema. Source is the key.
type Record struct {
	Source  string
	Target  string
	Comment string
	AudioA  string
	AudioB  string
}

// FieldNames lists the record fields in stored order.
var FieldNames = []string{"Source", "Target", "Comment", "AudioA", "AudioB"}

// Fields returns r in stored field order.
func (r Record) Fields() []string {
	return []string{r.Source, r.Target, r.Comment, r.AudioA, r.AudioB}
}

// RecordFromFields builds a record from stored fields. Missing trailing
// fields are left empty.
func RecordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		Source:  get(0),
		Target:  get(1),
		Comment: get(2),
		AudioA:  get(3),
		AudioB:  get(4),
	}
}

var separatorToSpace = strings.NewReplacer(db.FieldSeparator, " ")

// sanitize replaces the field separator in every field, so the stored
// record reads back with the same values it was written with.
func (r Record) sanitize() Record {
	return Record{
		Source:  separatorToSpace.Replace(r.Source),
		Target:  separatorToSpace.Replace(r.Target),
		Comment: separatorToSpace.Replace(r.Comment),
		AudioA:  separatorToSpace.Replace(r.AudioA),
		AudioB:  separatorToSpace.Replace(r.AudioB),
	}
}

// merge overlays r on top of stored. Audio fields left empty in r keep the
// stored value, so a sync never erases generated audio.
func (r Record) merge(stored Record) Record {
	out := r
	if out.AudioA == "" {
		out.AudioA = stored.AudioA
	}
	if out.AudioB == "" {
		out.AudioB = stored.AudioB
	}
	return out
}

const notetypeName = "Conjugator"

const questionFormat = `
{{Source}}
<div style='font-family: "Liberation Sans"; font-size: 20px;'>{{AudioA}}</div>
`

const answerFormat = `
{{Target}}

<hr id=answer>

{{Source}}

<hr id=extra>

{{Comment}}
{{#AudioB}}
<div style='font-family: "Liberation Sans"; font-size: 20px;'>{{AudioB}}</div>
{{/AudioB}}
`

const cardCSS = `
.card {
    font-family: arial;
    font-size: 20px;
    text-align: center;
    color: black;
    background-color: white;
}
`

// Notetype is the note type records are stored under.
func Notetype() db.Notetype {
	return db.Notetype{
		Name:           notetypeName,
		Fields:         FieldNames,
		QuestionFormat: questionFormat,
		AnswerFormat:   answerFormat,
		CSS:            cardCSS,
	}
}
