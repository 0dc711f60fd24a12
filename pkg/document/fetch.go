// Package document retrieves conjugation pages and keeps them on disk.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the conjugator the Fetcher talks to unless told otherwise.
const DefaultBaseURL = "https://conjugator.reverso.net/conjugation"

// 10 MB limit for HTML content
const maxBodySize = 10 * 1024 * 1024

// ErrTooLarge is returned when a page exceeds the body size limit.
var ErrTooLarge = errors.New("response body exceeds size limit")

// StatusError is returned when the conjugator answers with anything but 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// Source returns the conjugation page of a word.
type Source interface {
	Fetch(ctx context.Context, word string) (string, error)
}

// Fetcher downloads conjugation pages over HTTP.
type Fetcher struct {
	Client   *http.Client
	BaseURL  string
	Language string // conjugator language name, e.g. "portuguese"
}

// NewFetcher returns a fetcher for language. An empty baseURL uses DefaultBaseURL.
func NewFetcher(baseURL, language string, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: timeout},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Language: language,
	}
}

// URL returns the page address for word.
func (f *Fetcher) URL(word string) string {
	return fmt.Sprintf("%s-%s-verb-%s.html", f.BaseURL, f.Language, url.PathEscape(word))
}

// Fetch downloads the conjugation page of word.
func (f *Fetcher) Fetch(ctx context.Context, word string) (string, error) {
	target := f.URL(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request for %q: %w", word, err)
	}
	setBrowserHeaders(req)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %q: %w", word, &StatusError{URL: target, Code: resp.StatusCode})
	}
	if resp.ContentLength > int64(maxBodySize) {
		return "", fmt.Errorf("fetch %q: %w (Content-Length %d)", word, ErrTooLarge, resp.ContentLength)
	}

	// Read one byte past the limit to tell a full page from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read %q: %w", word, err)
	}
	if len(body) > maxBodySize {
		return "", fmt.Errorf("fetch %q: %w", word, ErrTooLarge)
	}
	return string(body), nil
}

// Mimic a real browser; the conjugator blocks obvious bots.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt;q=0.8")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
