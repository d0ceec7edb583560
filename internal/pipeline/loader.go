package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/emailqa/internal/util"
	"github.com/ppiankov/emailqa/internal/worker"
)

const (
	loadMaxRetries = 3
	loadBaseDelay  = 500 * time.Millisecond
)

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = worker.Sleep

// ErrTooLarge is returned when a source exceeds the configured size limit
var ErrTooLarge = errors.New("input exceeds size limit")

// Document is a copy document or email read from disk or over http(s).
// Name keeps the file extension so format detection can use it.
type Document struct {
	Name        string
	Source      string
	Content     []byte
	ContentType string
}

// Loader reads documents from local paths or http(s) URLs
type Loader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewLoader creates a loader. maxBytes <= 0 disables the size limit.
func NewLoader(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Load reads source, which is either a file path or an http(s) URL
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	if isRemote(source) {
		return l.fetchWithRetry(ctx, source)
	}
	return l.readFile(source)
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *Loader) readFile(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	content, err := l.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return &Document{
		Name:    filepath.Base(name),
		Source:  name,
		Content: content,
	}, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

// fetchWithRetry retries transient failures (5xx, 429, network errors)
// with exponential backoff
func (l *Loader) fetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt < loadMaxRetries; attempt++ {
		if attempt > 0 {
			if err := fetchSleepFunc(ctx, loadBaseDelay*time.Duration(1<<(attempt-1))); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, retry, err := l.fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (*Document, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	content, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	return &Document{
		Name:        nameFromURL(finalURL),
		Source:      finalURL,
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
	}, false, nil
}

// nameFromURL returns the last path segment, or the host for bare URLs
func nameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}
	return path.Base(p)
}
