package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/logging"
)

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{UserAgent: "SeederTest/1.0", Timeout: 2 * time.Second}
}

func TestFetchDecodesGBKRegardlessOfDeclaredCharset(t *testing.T) {
	t.Parallel()

	body, err := simplifiedchinese.GBK.NewEncoder().String("<title>三年级数学练习</title>")
	require.NoError(t, err)

	agents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	f := NewFetcher(testHTTPConfig(), server.Client(), nil)
	text, err := f.Fetch(context.Background(), server.URL, "gbk")
	require.NoError(t, err)

	assert.Equal(t, "<title>三年级数学练习</title>", text)
	assert.Equal(t, "SeederTest/1.0", <-agents)
}

func TestFetchUTF8(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("语文"))
	}))
	defer server.Close()

	text, err := NewFetcher(testHTTPConfig(), server.Client(), nil).Fetch(context.Background(), server.URL, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "语文", text)
}

func TestFetchFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(testHTTPConfig(), server.Client(), nil)

	_, err := f.Fetch(context.Background(), server.URL, "gbk")
	assert.Error(t, err, "http error status")

	_, err = f.Fetch(context.Background(), server.URL, "no-such-charset")
	assert.Error(t, err, "unknown charset")

	_, err = f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable", "gbk")
	assert.Error(t, err, "connection refused")
}

func TestFetchTruncatesLargeBodies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	var logs bytes.Buffer
	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 4
	text, err := NewFetcher(cfg, server.Client(), logging.NewWithWriter(&logs, "debug")).Fetch(context.Background(), server.URL, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "0123", text)
	assert.Contains(t, logs.String(), "page truncated")
	assert.Contains(t, logs.String(), "limit=4")
}

func TestFetchAtLimitIsNotTruncated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123"))
	}))
	defer server.Close()

	var logs bytes.Buffer
	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 4
	text, err := NewFetcher(cfg, server.Client(), logging.NewWithWriter(&logs, "debug")).Fetch(context.Background(), server.URL, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "0123", text)
	assert.NotContains(t, logs.String(), "page truncated")
}
