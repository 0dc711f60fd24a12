// Package pipeline runs vocabulary entries through fetch, parse and sync.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/japaniel/verbcards/pkg/audio"
	"github.com/japaniel/verbcards/pkg/conjugation"
	"github.com/japaniel/verbcards/pkg/document"
	"github.com/japaniel/verbcards/pkg/flashcard"
	"github.com/japaniel/verbcards/pkg/vocab"
)

// Result counts what a run did with each entry.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Processed is the number of entries that reached a final state.
func (r Result) Processed() int {
	return r.Created + r.Updated + r.Unchanged + r.Skipped + r.Failed
}

// Processor handles entries one at a time, in input order.
type Processor struct {
	Source      document.Source
	Parser      *conjugation.Parser
	Sync        *flashcard.Synchronizer
	Language    conjugation.Language
	Synthesizer audio.Synthesizer // nil means no audio
	// Kind selects the card layout. Verbs are conjugated; every other kind
	// becomes a plain word card without a page fetch.
	Kind vocab.Kind

	// SkipExisting leaves entries that already have a record alone.
	SkipExisting bool
	// ContinueOnError logs a failed entry and moves on instead of aborting the batch.
	ContinueOnError bool

	// Logger nil means no logging.
	Logger *zap.Logger
	// OnProgress is called after each entry with the number handled so far and the total.
	OnProgress func(current, total int)
}

// NewProcessor creates a processor for lang.
func NewProcessor(src document.Source, sync *flashcard.Synchronizer, lang conjugation.Language) *Processor {
	return &Processor{
		Source:   src,
		Parser:   conjugation.NewParser(lang),
		Sync:     sync,
		Language: lang,
	}
}

// Run processes entries. Unless ContinueOnError is set it stops at the
// first failing entry; the returned Result covers everything done so far.
func (p *Processor) Run(ctx context.Context, entries []vocab.Entry) (Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var res Result
	total := len(entries)
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := p.process(ctx, e, &res); err != nil {
			res.Failed++
			if !p.ContinueOnError {
				return res, fmt.Errorf("entry %d (%q): %w", i+1, e.Source, err)
			}
			logger.Error("entry failed", zap.String("source", e.Source), zap.Int("line", i+1), zap.Error(err))
		}

		if p.OnProgress != nil {
			p.OnProgress(i+1, total)
		}
	}
	return res, nil
}

func (p *Processor) process(ctx context.Context, e vocab.Entry, res *Result) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	key, err := p.key(e)
	if err != nil {
		return err
	}

	if p.SkipExisting {
		ok, err := p.Sync.Exists(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			logger.Debug("entry skipped", zap.String("source", e.Source))
			res.Skipped++
			return nil
		}
	}

	if p.Kind != vocab.Verb {
		return p.processWord(ctx, key, e, res)
	}

	doc, err := p.Source.Fetch(ctx, e.Source)
	if err != nil {
		return err
	}
	table, err := p.Parser.Parse(e, doc)
	if err != nil {
		return err
	}

	out, err := p.Sync.Sync(ctx, table)
	if err != nil {
		return err
	}
	res.count(out)

	if p.Synthesizer != nil {
		if err := p.attachAudio(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (r *Result) count(out flashcard.Outcome) {
	switch out {
	case flashcard.Created:
		r.Created++
	case flashcard.Updated:
		r.Updated++
	case flashcard.Unchanged:
		r.Unchanged++
	}
}

// key is the record key for e. Nouns are filed with their article.
func (p *Processor) key(e vocab.Entry) (string, error) {
	if p.Kind != vocab.Noun {
		return e.Source, nil
	}
	article, ok := p.Language.Article(e.Gender)
	if !ok {
		return "", fmt.Errorf("noun %q: no article for gender %q", e.Source, e.Gender)
	}
	return article + " " + e.Source, nil
}

// processWord syncs a card that has no conjugation table. Its only audio
// is the spoken word, without the article for nouns.
func (p *Processor) processWord(ctx context.Context, key string, e vocab.Entry, res *Result) error {
	card := flashcard.Record{Source: key, Target: e.Target, Comment: e.Comment}
	if p.Synthesizer != nil {
		id, err := p.Synthesizer.Synthesize(ctx, audio.WordID(e.Source), audio.Sentence(e.Source))
		if err != nil {
			return fmt.Errorf("synthesize %q: %w", e.Source, err)
		}
		card.AudioA = audio.SoundField(id)
	}

	out, err := p.Sync.SyncRecord(ctx, card)
	if err != nil {
		return err
	}
	res.count(out)
	return nil
}

func (p *Processor) attachAudio(ctx context.Context, t *conjugation.Table) error {
	word := t.Vocabulary.Source
	a, err := p.Synthesizer.Synthesize(ctx, audio.WordID(word), audio.Sentence(word))
	if err != nil {
		return fmt.Errorf("synthesize %q: %w", word, err)
	}
	b, err := p.Synthesizer.Synthesize(ctx, audio.ConjugationID(word), t.SampleText(p.Language))
	if err != nil {
		return fmt.Errorf("synthesize conjugation of %q: %w", word, err)
	}
	if a == "" && b == "" {
		return nil
	}
	return p.Sync.AttachAudio(ctx, word, audio.SoundField(a), audio.SoundField(b))
}
