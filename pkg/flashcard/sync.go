package flashcard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/japaniel/verbcards/pkg/conjugation"
)

// ErrDuplicateRecord matches every UniquenessError.
var ErrDuplicateRecord = errors.New("duplicate vocabulary entry")

// ErrRecordNotFound is returned when an operation needs an existing record.
var ErrRecordNotFound = errors.New("no record for vocabulary")

// UniquenessError reports a key held by more than one stored record. The
// store is left untouched; it is not the synchronizer's job to pick one.
type UniquenessError struct {
	Key   string
	Count int
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("vocabulary %q: %v (%d records)", e.Key, ErrDuplicateRecord, e.Count)
}

func (e *UniquenessError) Unwrap() error { return ErrDuplicateRecord }

// Outcome reports what Sync did to the store.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	}
	return "unknown"
}

// CommentFunc builds the Comment field of a record from its table.
type CommentFunc func(t *conjugation.Table) string

// ConjugationComment renders the table as HTML lines.
func ConjugationComment(lang conjugation.Language) CommentFunc {
	return func(t *conjugation.Table) string {
		return strings.ReplaceAll(t.Describe(lang), "\n", "<br>")
	}
}

// VocabularyComment uses the comment from the vocabulary list.
func VocabularyComment() CommentFunc {
	return func(t *conjugation.Table) string {
		return t.Vocabulary.Comment
	}
}

// CombinedComment renders the table followed by the vocabulary comment, if any.
func CombinedComment(lang conjugation.Language) CommentFunc {
	conj := ConjugationComment(lang)
	return func(t *conjugation.Table) string {
		c := conj(t)
		if t.Vocabulary.Comment == "" {
			return c
		}
		if c == "" {
			return t.Vocabulary.Comment
		}
		return c + "<br><br>" + t.Vocabulary.Comment
	}
}

// Synchronizer writes conjugation tables to a Store, keeping at most one
// record per vocabulary key. It holds no record state between calls.
type Synchronizer struct {
	store   Store
	deck    string
	comment CommentFunc
	logger  *zap.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithComment overrides how the Comment field is built.
func WithComment(fn CommentFunc) Option {
	return func(s *Synchronizer) {
		if fn != nil {
			s.comment = fn
		}
	}
}

// WithLogger sets the logger. nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSynchronizer returns a synchronizer filing records under lang's deck.
func NewSynchronizer(store Store, lang conjugation.Language, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		deck:    lang.Deck,
		comment: CombinedComment(lang),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookupUnique resolves key to its single record. found is false when no
// record exists; more than one is a *UniquenessError. Sync, Exists and
// AttachAudio all go through here so they agree on what unique means.
func (s *Synchronizer) lookupUnique(ctx context.Context, key string) (h Handle, found bool, err error) {
	handles, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("look up %q: %w", key, err)
	}
	switch len(handles) {
	case 0:
		return 0, false, nil
	case 1:
		return handles[0], true, nil
	default:
		return 0, false, &UniquenessError{Key: key, Count: len(handles)}
	}
}

// Exists reports whether a record for source is stored.
func (s *Synchronizer) Exists(ctx context.Context, source string) (bool, error) {
	_, found, err := s.lookupUnique(ctx, source)
	return found, err
}

// Sync inserts a record for t, or updates the existing one in place.
// Audio already on a stored record is kept. Identical input leaves the
// store untouched and reports Unchanged.
func (s *Synchronizer) Sync(ctx context.Context, t *conjugation.Table) (Outcome, error) {
	return s.SyncRecord(ctx, Record{
		Source:  t.Vocabulary.Source,
		Target:  t.Vocabulary.Target,
		Comment: s.comment(t),
	})
}

// SyncRecord is Sync for a record built without a conjugation table, such
// as a noun or phrase card. The same merge rules apply.
func (s *Synchronizer) SyncRecord(ctx context.Context, candidate Record) (Outcome, error) {
	candidate = candidate.sanitize()
	key := candidate.Source
	if strings.TrimSpace(key) == "" {
		return 0, fmt.Errorf("sync: vocabulary key must be non-empty")
	}

	deck, err := s.store.GetOrCreateContainer(ctx, s.deck)
	if err != nil {
		return 0, fmt.Errorf("resolve deck %q for %q: %w", s.deck, key, err)
	}

	h, found, err := s.lookupUnique(ctx, key)
	if err != nil {
		return 0, err
	}

	if !found {
		h, err = s.store.Insert(ctx, candidate, deck)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", key, err)
		}
		s.logger.Info("flashcard created", zap.String("source", key), zap.Int64("note", int64(h)))
		return Created, nil
	}

	stored, err := s.store.Get(ctx, h)
	if err != nil {
		return 0, fmt.Errorf("load %q: %w", key, err)
	}
	merged := candidate.merge(stored)
	if merged == stored {
		s.logger.Debug("flashcard unchanged", zap.String("source", key), zap.Int64("note", int64(h)))
		return Unchanged, nil
	}
	if err := s.store.Update(ctx, h, merged); err != nil {
		return 0, fmt.Errorf("update %q: %w", key, err)
	}
	s.logger.Info("flashcard updated", zap.String("source", key), zap.Int64("note", int64(h)))
	return Updated, nil
}

// AttachAudio sets the audio fields of the record for source. Empty values
// leave the corresponding field as stored.
func (s *Synchronizer) AttachAudio(ctx context.Context, source, audioA, audioB string) error {
	h, found, err := s.lookupUnique(ctx, source)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("attach audio: %w: %q", ErrRecordNotFound, source)
	}

	stored, err := s.store.Get(ctx, h)
	if err != nil {
		return fmt.Errorf("load %q: %w", source, err)
	}
	updated := stored
	audioA = separatorToSpace.Replace(audioA)
	audioB = separatorToSpace.Replace(audioB)
	if audioA != "" {
		updated.AudioA = audioA
	}
	if audioB != "" {
		updated.AudioB = audioB
	}
	if updated == stored {
		return nil
	}
	if err := s.store.Update(ctx, h, updated); err != nil {
		return fmt.Errorf("update audio of %q: %w", source, err)
	}
	s.logger.Debug("flashcard audio attached", zap.String("source", source))
	return nil
}
