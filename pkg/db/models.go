package db

import (
	"strings"
	"time"
)

// FieldSeparator joins note fields in the flds column.
const FieldSeparator = "\x1f"

// Notetype names the fields of a note and the templates its cards render with.
type Notetype struct {
	ID             int64
	Name           string
	Fields         []string
	QuestionFormat string
	AnswerFormat   string
	CSS            string
}

// Note is a stored flashcard. The first field is the note's key.
type Note struct {
	ID         int64
	GUID       string
	NotetypeID int64
	Modified   time.Time
	Fields     []string
}

// JoinFields encodes fields for the flds column.
func JoinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator)
}

// SplitFields decodes the flds column.
func SplitFields(flds string) []string {
	return strings.Split(flds, FieldSeparator)
}
