package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/japaniel/verbcards/pkg/config"
	"github.com/japaniel/verbcards/pkg/db"
	"github.com/japaniel/verbcards/pkg/document"
	"github.com/japaniel/verbcards/pkg/flashcard"
	"github.com/japaniel/verbcards/pkg/pipeline"
	"github.com/japaniel/verbcards/pkg/vocab"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Everything opened here is released by
// its deferred close before main exits.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	vocabFlag := flag.String("vocab", "", "Path to the vocabulary CSV (source,target[,comment]; nouns are source,gender,target[,comment])")
	kindFlag := flag.String("kind", vocab.Verb.String(), "Vocabulary kind: verb, noun, adjective or phrase")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite flashcard collection")
	flag.StringVar(&cfg.LanguageCode, "lang", cfg.LanguageCode, "Language code of the vocabulary")
	flag.StringVar(&cfg.CacheDir, "cache", cfg.CacheDir, "Directory for cached conjugation pages")
	flag.StringVar(&cfg.ConjugatorURL, "url", cfg.ConjugatorURL, "Conjugator base URL")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per page")
	flag.StringVar(&cfg.CommentMode, "comment", cfg.CommentMode, "Comment field: conjugation, vocabulary or both")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	prefetchFlag := flag.Int("prefetch", 0, "Fetch pages with N concurrent workers before processing (0 disables)")
	skipFlag := flag.Bool("skip-existing", false, "Leave words that already have a card alone")
	continueFlag := flag.Bool("continue-on-error", false, "Log failed words and keep going")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}
	kind, err := vocab.ParseKind(*kindFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if *vocabFlag == "" {
		logger.Error("Please provide a -vocab file")
		return 2
	}

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries, err := vocab.ReadFileKind(*vocabFlag, kind)
	if err != nil {
		logger.Error("Failed to read vocabulary", zap.String("path", *vocabFlag), zap.Error(err))
		return 1
	}
	fmt.Printf("Loaded %d %s entries from %s\n", len(entries), kind, *vocabFlag)

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
		return 1
	}
	defer conn.Close()
	fmt.Printf("Database initialized at %s\n", cfg.DBPath)

	store, err := flashcard.NewCollectionStore(ctx, conn)
	if err != nil {
		logger.Error("Failed to prepare collection", zap.Error(err))
		return 1
	}

	fetcher := document.NewFetcher(cfg.ConjugatorURL, cfg.Language.Name, cfg.HTTPTimeout)
	source := document.NewCachingSource(fetcher, cfg.CacheDir, logger)

	if *prefetchFlag > 0 && kind == vocab.Verb {
		words := make([]string, len(entries))
		for i, e := range entries {
			words[i] = e.Source
		}
		fmt.Printf("Prefetching %d pages with %d workers...\n", len(words), *prefetchFlag)
		if err := document.Prefetch(ctx, source, words, *prefetchFlag); err != nil {
			// The sequential pass retries misses and reports them per word.
			logger.Warn("Prefetch incomplete", zap.Error(err))
		}
	}

	sync := flashcard.NewSynchronizer(store, cfg.Language,
		flashcard.WithComment(cfg.CommentFunc()),
		flashcard.WithLogger(logger),
	)
	proc := pipeline.NewProcessor(source, sync, cfg.Language)
	proc.Kind = kind
	proc.SkipExisting = *skipFlag
	proc.ContinueOnError = *continueFlag
	proc.Logger = logger
	proc.OnProgress = func(current, total int) {
		if current%10 == 0 || current == total {
			fmt.Printf("Processed %d/%d\n", current, total)
		}
	}

	res, err := proc.Run(ctx, entries)
	fmt.Printf("Created %d, updated %d, unchanged %d, skipped %d, failed %d.\n",
		res.Created, res.Updated, res.Unchanged, res.Skipped, res.Failed)
	if err != nil {
		logger.Error("Processing failed", zap.Error(err))
		return 1
	}
	if res.Failed > 0 {
		return 1
	}
	fmt.Println("Processing complete.")
	return 0
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
