package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/cache"
	"github.com/ppiankov/emailqa/internal/model"
	"github.com/ppiankov/emailqa/internal/util"
	"github.com/ppiankov/emailqa/internal/worker"
)

const (
	probeMaxRetries   = 3
	probeMaxRedirects = 10
)

// probeSleepFunc is the pause between retries (injectable for tests)
var probeSleepFunc = worker.Sleep

// Prober checks whether email links resolve. Its results are reported
// alongside the verdict but never change it.
type Prober struct {
	client    *http.Client
	workers   int
	userAgent string
	limiter   *worker.Limiter
	robots    *RobotsChecker
	cache     *cache.Probes
	logger    zerolog.Logger
}

// NewProber builds a prober from config. A cache dir enables the persistent
// result cache; otherwise a positive CacheTTL keeps results in memory.
func NewProber(cfg model.ProbeConfig, logger zerolog.Logger) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= probeMaxRedirects {
				return fmt.Errorf("stopped after %d redirects", probeMaxRedirects)
			}
			return nil
		},
	}

	p := &Prober{
		client:    client,
		workers:   workers,
		userAgent: cfg.UserAgent,
		limiter:   worker.NewLimiter(cfg.RatePerSecond, cfg.Burst),
		logger:    logger.With().Str("component", "prober").Logger(),
	}

	if cfg.RespectRobots {
		p.robots = NewRobotsChecker(client, cfg.UserAgent, cfg.CacheTTL)
	}

	switch {
	case cfg.CacheDir != "":
		p.cache = cache.NewProbes(cache.NewLayered(cfg.CacheDir, cfg.CacheTTL), cfg.CacheTTL)
	case cfg.CacheTTL > 0:
		p.cache = cache.NewProbes(cache.NewMemory(cfg.CacheTTL), cfg.CacheTTL)
	}

	return p
}

// Probe checks every link concurrently and returns one result per link in
// input order
func (p *Prober) Probe(ctx context.Context, links []model.Link) []model.ProbeResult {
	results := worker.Map(ctx, p.workers, links, p.probeLink)

	broken := 0
	for _, r := range results {
		if r.IsBroken {
			broken++
		}
	}
	p.logger.Info().Int("links", len(links)).Int("broken", broken).Msg("probe complete")

	return results
}

func (p *Prober) probeLink(ctx context.Context, link model.Link) model.ProbeResult {
	result := model.ProbeResult{
		URL:  link.URL,
		Text: link.Text,
		Kind: Classify(link),
	}
	if !probeable(result.Kind) {
		result.Skipped = true
		return result
	}

	target := link.URL
	if result.Kind == model.LinkKindTracking {
		if dest := util.TrackingDestination(link.URL); dest != "" {
			result.CheckedURL = dest
			target = dest
		}
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(target); ok {
			cached.URL, cached.Text, cached.Kind = link.URL, link.Text, result.Kind
			return cached
		}
	}

	var delay time.Duration
	if p.robots != nil {
		allowed, crawlDelay := p.robots.CanFetch(ctx, target)
		if !allowed {
			result.Skipped = true
			result.Error = "disallowed by robots.txt"
			return result
		}
		delay = crawlDelay
	}

	if err := p.limiter.WaitWithDelay(ctx, target, delay); err != nil {
		result.Skipped = true
		result.Error = fmt.Sprintf("rate limit wait: %v", err)
		return result
	}

	start := time.Now()
	result = p.fetchWithRetry(ctx, target, result)
	result.Duration = time.Since(start)

	p.logger.Debug().
		Str("url", target).
		Int("status", result.StatusCode).
		Bool("broken", result.IsBroken).
		Msg("probed link")

	if p.cache != nil && ctx.Err() == nil {
		if err := p.cache.Put(target, result); err != nil {
			p.logger.Warn().Err(err).Str("url", target).Msg("cache probe result")
		}
	}

	return result
}

// fetchWithRetry retries transient failures with exponential backoff
func (p *Prober) fetchWithRetry(ctx context.Context, target string, base model.ProbeResult) model.ProbeResult {
	var result model.ProbeResult
	for attempt := 0; attempt < probeMaxRetries; attempt++ {
		result = p.fetch(ctx, target, base)
		if !isRetryable(result) || ctx.Err() != nil {
			return result
		}
		if attempt < probeMaxRetries-1 {
			if err := probeSleepFunc(ctx, time.Duration(1<<uint(attempt))*time.Second); err != nil {
				return result
			}
		}
	}
	return result
}

// fetch sends HEAD and falls back to GET when the server rejects HEAD
func (p *Prober) fetch(ctx context.Context, target string, result model.ProbeResult) model.ProbeResult {
	resp, err := p.do(ctx, http.MethodHead, target)
	result.Method = http.MethodHead
	if err == nil && resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		resp, err = p.do(ctx, http.MethodGet, target)
		result.Method = http.MethodGet
	}

	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.IsBroken = true
		result.TimedOut = isTimeout(err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.IsReachable = resp.StatusCode >= 200 && resp.StatusCode < 400
	result.IsBroken = !result.IsReachable
	result.Error = ""
	result.TimedOut = false

	if final := resp.Request.URL.String(); final != target {
		result.RedirectURL = final
	}

	return result
}

func (p *Prober) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	return p.client.Do(req)
}

// isRetryable is true for 5xx, 429 and transient network failures
func isRetryable(result model.ProbeResult) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error == "" {
		return false
	}
	s := strings.ToLower(result.Error)
	return result.TimedOut ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
