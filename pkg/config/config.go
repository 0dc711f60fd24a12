// Package config loads verbcards settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/japaniel/verbcards/pkg/conjugation"
	"github.com/japaniel/verbcards/pkg/document"
	"github.com/japaniel/verbcards/pkg/flashcard"
)

// Comment modes select what goes into a card's Comment field.
const (
	CommentConjugation = "conjugation"
	CommentVocabulary  = "vocabulary"
	CommentBoth        = "both"
)

// Config holds all application configuration
type Config struct {
	DBPath        string
	LanguageCode  string
	CacheDir      string
	ConjugatorURL string
	HTTPTimeout   time.Duration
	CommentMode   string
	LogLevel      string

	// Language is resolved from LanguageCode by Validate.
	Language conjugation.Language
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("VERBCARDS_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("VERBCARDS_HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DBPath:        getEnv("VERBCARDS_DB", "verbcards.db"),
		LanguageCode:  getEnv("VERBCARDS_LANGUAGE", "pt"),
		CacheDir:      getEnv("VERBCARDS_CACHE_DIR", ".cache/conjugations"),
		ConjugatorURL: getEnv("VERBCARDS_CONJUGATOR_URL", document.DefaultBaseURL),
		HTTPTimeout:   timeout,
		CommentMode:   getEnv("VERBCARDS_COMMENT", CommentBoth),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings and resolves Language. Call it again after
// overriding fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	switch c.CommentMode {
	case CommentConjugation, CommentVocabulary, CommentBoth:
	default:
		return fmt.Errorf("unknown comment mode %q (want %s, %s or %s)",
			c.CommentMode, CommentConjugation, CommentVocabulary, CommentBoth)
	}
	lang, err := conjugation.LookupLanguage(c.LanguageCode)
	if err != nil {
		return err
	}
	c.Language = lang
	return nil
}

// CommentFunc returns the comment builder for the configured mode.
func (c *Config) CommentFunc() flashcard.CommentFunc {
	switch c.CommentMode {
	case CommentConjugation:
		return flashcard.ConjugationComment(c.Language)
	case CommentVocabulary:
		return flashcard.VocabularyComment()
	}
	return flashcard.CombinedComment(c.Language)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
