// Package vocab reads vocabulary lists.
package vocab

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Kind is the word class of a vocabulary list. It decides the row layout
// and how the card for a row is built.
type Kind int

const (
	Verb Kind = iota
	Noun
	Adjective
	Phrase
)

var kindNames = [...]string{"verb", "noun", "adjective", "phrase"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind name such as "noun".
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown vocabulary kind %q", name)
}

// Entry is one vocabulary row. Source is the natural key used for
// deduplication.
type Entry struct {
	Source  string
	Target  string
	Comment string
	// Gender is "m" or "f" for nouns and empty otherwise.
	Gender string
}

// ReadFile reads verb entries from a comma-delimited file.
func ReadFile(path string) ([]Entry, error) {
	return ReadFileKind(path, Verb)
}

// ReadFileKind reads entries of kind from a comma-delimited file.
func ReadFileKind(path string, kind Kind) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadKind(f, kind)
}

// Read parses comma-delimited rows of source, target and an optional
// comment. Lines whose first non-blank character is '#' are skipped.
func Read(r io.Reader) ([]Entry, error) {
	return ReadKind(r, Verb)
}

// ReadKind parses rows laid out for kind. Nouns are source, gender and
// target; every other kind is source and target. Both take an optional
// trailing comment.
func ReadKind(r io.Reader, kind Kind) ([]Entry, error) {
	src, err := stripComments(r)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	want := 2
	if kind == Noun {
		want = 3
	}

	var entries []Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read vocabulary: %w", err)
		}
		line, _ := cr.FieldPos(0)

		fields := make([]string, 0, len(record))
		for _, f := range record {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			continue
		}
		if len(fields) < want {
			if kind == Noun {
				return nil, fmt.Errorf("line %d: expected source, gender and target, got %q", line, strings.Join(record, ","))
			}
			return nil, fmt.Errorf("line %d: expected source and target, got %q", line, strings.Join(record, ","))
		}

		var e Entry
		if kind == Noun {
			g := strings.ToLower(fields[1])
			if g != "m" && g != "f" {
				return nil, fmt.Errorf("line %d: gender must be m or f, got %q", line, fields[1])
			}
			e = Entry{Source: fields[0], Gender: g, Target: fields[2]}
		} else {
			e = Entry{Source: fields[0], Target: fields[1]}
		}
		if len(fields) > want {
			e.Comment = fields[want]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// stripComments blanks out comment lines, indented ones included, and
// keeps the line count so reported line numbers match the input.
func stripComments(r io.Reader) (io.Reader, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return strings.NewReader(b.String()), nil
}
