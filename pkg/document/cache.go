package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Cache stores fetched pages as <Dir>/<word>.html.
type Cache struct {
	Dir string
}

var unsafeName = strings.NewReplacer("/", "_", `\`, "_")

// Path returns the file a page for word is cached in.
func (c *Cache) Path(word string) string {
	return filepath.Join(c.Dir, unsafeName.Replace(word)+".html")
}

// Get returns the cached page for word. ok is false on a miss.
func (c *Cache) Get(word string) (doc string, ok bool, err error) {
	b, err := os.ReadFile(c.Path(word))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache for %q: %w", word, err)
	}
	return string(b), true, nil
}

// Put writes the page for word, replacing any previous copy.
func (c *Cache) Put(word, doc string) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	path := c.Path(word)
	tmp, err := os.CreateTemp(c.Dir, ".page-*")
	if err != nil {
		return fmt.Errorf("write cache for %q: %w", word, err)
	}
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache for %q: %w", word, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache for %q: %w", word, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache for %q: %w", word, err)
	}
	// Rename so concurrent readers never see a half-written page.
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache for %q: %w", word, err)
	}
	return nil
}

// CachingSource serves pages from Cache, fetching and storing misses.
type CachingSource struct {
	Source Source
	Cache  *Cache
	Logger *zap.Logger // nil means no logging
}

// NewCachingSource wraps src with a disk cache in dir.
func NewCachingSource(src Source, dir string, logger *zap.Logger) *CachingSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingSource{Source: src, Cache: &Cache{Dir: dir}, Logger: logger}
}

func (s *CachingSource) Fetch(ctx context.Context, word string) (string, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, ok, err := s.Cache.Get(word)
	if err != nil {
		return "", err
	}
	if ok {
		logger.Debug("document cache hit", zap.String("word", word))
		return doc, nil
	}

	doc, err = s.Source.Fetch(ctx, word)
	if err != nil {
		return "", err
	}
	logger.Debug("document fetched", zap.String("word", word), zap.Int("bytes", len(doc)))
	if err := s.Cache.Put(word, doc); err != nil {
		logger.Warn("failed to cache document", zap.String("word", word), zap.Error(err))
	}
	return doc, nil
}

// Prefetch loads the pages of words through src using the given number of
// workers, typically to warm a CachingSource before a sequential pass. It
// returns the first fetch error, or ctx's error if it was cancelled.
func Prefetch(ctx context.Context, src Source, words []string, workers int) error {
	pool := NewWorkerPool(workers, 0)
	pool.Start(ctx)

	seen := make(map[string]bool, len(words))
	var submitErr error
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		word := w
		err := pool.SubmitCtx(ctx, func(ctx context.Context) error {
			_, err := src.Fetch(ctx, word)
			return err
		})
		if err != nil {
			submitErr = err
			break
		}
	}
	pool.Close()

	if err := pool.Err(); err != nil {
		return err
	}
	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}
