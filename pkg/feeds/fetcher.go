package feeds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/sheet"
)

// Fetcher retrieves one feed as a table.
type Fetcher interface {
	Fetch(ctx context.Context, registry *Registry, feed Feed) (*sheet.Table, error)
}

// HTTPFetcher downloads published CSV or XLSX exports.
type HTTPFetcher struct {
	Client     *http.Client
	MaxRetries uint64
	MaxSize    int64
	Now        func() time.Time
}

const maxExportSize = 32 << 20

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:     &http.Client{Timeout: 12 * time.Second},
		MaxRetries: 3,
		MaxSize:    maxExportSize,
		Now:        time.Now,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, registry *Registry, feed Feed) (*sheet.Table, error) {
	source, err := registry.SourceURL(feed, f.Now())
	if err != nil {
		return nil, err
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 200 * time.Millisecond
	retryBackoff.MaxElapsedTime = 10 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(retryBackoff, f.MaxRetries), ctx)

	body, err := backoff.RetryWithData(func() ([]byte, error) {
		return f.download(ctx, feed, source)
	}, policy)
	if err != nil {
		return nil, err
	}

	switch feed.Format {
	case FormatXLSX:
		return sheet.ParseXLSX(feed.Identifier, bytes.NewReader(body), feed.Sheet)
	default:
		return sheet.ParseCSV(feed.Identifier, bytes.NewReader(body))
	}
}

func (f *HTTPFetcher) download(ctx context.Context, feed Feed, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", "driverportal/1.0")

	startTime := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("feed", feed.Identifier).Msg("Feed download failed")
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		log.Warn().Int("status", resp.StatusCode).Str("feed", feed.Identifier).Msg("Feed download will be retried")
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
	}

	maxSize := f.MaxSize
	if maxSize <= 0 {
		maxSize = maxExportSize
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxSize {
		return nil, backoff.Permanent(fmt.Errorf("export is larger than %d bytes", maxSize))
	}

	log.Debug().
		Str("feed", feed.Identifier).
		Int("bytes", len(body)).
		Dur("latency", time.Since(startTime)).
		Msg("Downloaded feed")

	return body, nil
}
