package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/ports"
)

const defaultMaxBodyBytes = 8 << 20

// Fetcher performs GET requests over one pooled client and decodes bodies with a caller-chosen charset.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets one with the configured timeout.
func NewFetcher(cfg config.HTTPConfig, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Fetch downloads pageURL and decodes it as charset, ignoring the charset the server declares.
// Failures are logged and returned; callers treat them as "no data".
func (f *Fetcher) Fetch(ctx context.Context, pageURL, charset string) (string, error) {
	text, err := f.fetch(ctx, pageURL, charset)
	if err != nil {
		f.warn("fetch page failed", "url", pageURL, "error", err)
		return "", err
	}
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, pageURL, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", charset, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		body = body[:f.maxBytes]
		f.debug("page truncated", "url", pageURL, "limit", f.maxBytes)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	f.debug("page fetched", "url", pageURL, "status", resp.StatusCode, "bytes", len(body))
	return string(decoded), nil
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
