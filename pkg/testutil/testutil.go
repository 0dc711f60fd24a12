// Package testutil holds mocks and fixtures shared by package tests.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/japaniel/verbcards/pkg/conjugation"
	"github.com/japaniel/verbcards/pkg/flashcard"
	"github.com/japaniel/verbcards/pkg/vocab"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestTable builds a table from root/suffix pairs given in pronoun order.
// An empty root marks the form as irregular.
func NewTestTable(source, target string, forms ...[2]string) *conjugation.Table {
	t := conjugation.NewTable(vocab.Entry{Source: source, Target: target})
	for i, f := range forms {
		if i >= len(conjugation.Pronouns) {
			break
		}
		p := conjugation.Pronouns[i]
		if f[0] == "" {
			t.Forms[p] = conjugation.NewIrregular("", f[1])
		} else {
			t.Forms[p] = conjugation.NewRegular(f[0], f[1])
		}
	}
	return t
}

// MockStore is a mock for flashcard.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindByKey(ctx context.Context, key string) ([]flashcard.Handle, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flashcard.Handle), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, h flashcard.Handle) (flashcard.Record, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(flashcard.Record), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, r flashcard.Record, c flashcard.Container) (flashcard.Handle, error) {
	args := m.Called(ctx, r, c)
	return args.Get(0).(flashcard.Handle), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, h flashcard.Handle, r flashcard.Record) error {
	args := m.Called(ctx, h, r)
	return args.Error(0)
}

func (m *MockStore) GetOrCreateContainer(ctx context.Context, name string) (flashcard.Container, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(flashcard.Container), args.Error(1)
}

// MockSynthesizer is a mock for audio.Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, id, text string) (string, error) {
	args := m.Called(ctx, id, text)
	return args.String(0), args.Error(1)
}
