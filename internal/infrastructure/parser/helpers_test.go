package parser

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ArticleSeeder/internal/config"
)

type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, pageURL, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, pageURL)
	page, ok := s.pages[pageURL]
	if !ok {
		return "", errors.New("page not found")
	}
	return page, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	return cfg
}
