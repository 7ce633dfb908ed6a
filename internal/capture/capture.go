// Package capture drives a headless browser and records network exchanges.
package capture

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/apiscout/apiscout/internal/errors"
	"github.com/apiscout/apiscout/internal/logger"
)

// Config defines collector configuration.
type Config struct {
	Headless          bool          `json:"headless" yaml:"headless"`
	NavigationTimeout time.Duration `json:"navigation_timeout" yaml:"navigation_timeout"`
	SettleDelay       time.Duration `json:"settle_delay" yaml:"settle_delay"`
	UserAgent         string        `json:"user_agent" yaml:"user_agent"`
	ViewportWidth     int           `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight    int           `json:"viewport_height" yaml:"viewport_height"`
	IgnoreHTTPSErrors bool          `json:"ignore_https_errors" yaml:"ignore_https_errors"`
	ExtraHeaders      map[string]string `json:"extra_headers" yaml:"extra_headers"`
	// MaxBodySize bounds how much of a response body is retained per exchange.
	MaxBodySize int `json:"max_body_size" yaml:"max_body_size"`
}

// DefaultConfig returns default collector configuration.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       2 * time.Second,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		IgnoreHTTPSErrors: true,
		MaxBodySize:       2 << 20,
	}
}

// Collector owns a browser for the duration of one Capture call. No browser
// instance is shared across calls.
type Collector struct {
	config Config
	log    *logger.Logger
}

// New creates a new collector.
func New(config Config, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Global()
	}
	return &Collector{
		config: config,
		log:    log.WithComponent("capture"),
	}
}

// Capture visits a URL and returns the filtered exchange sequence plus the
// rendered HTML. A navigation timeout is recoverable: the result carries
// whatever was captured, with Err set. Only browser launch/connect failures
// return an error.
func (c *Collector) Capture(ctx context.Context, target string) (*Result, error) {
	result := &Result{URL: target, FinalURL: target}

	l := launcher.New().Headless(c.config.Headless)
	if c.config.IgnoreHTTPSErrors {
		l = l.Set("ignore-certificate-errors", "true")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.NewBrowserError(target, "launch", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, errors.NewBrowserError(target, "connect", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, errors.NewBrowserError(target, "page_create", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(c.config.NavigationTimeout)

	_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  c.config.ViewportWidth,
		Height: c.config.ViewportHeight,
	})

	if c.config.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{
			UserAgent: c.config.UserAgent,
		}.Call(page)
	}

	if len(c.config.ExtraHeaders) > 0 {
		networkHeaders := make(proto.NetworkHeaders)
		for k, v := range c.config.ExtraHeaders {
			networkHeaders[k] = gson.New(v)
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: networkHeaders}.Call(page)
	}

	var (
		mu        sync.Mutex
		exchanges []Exchange
	)

	router := page.HijackRequests()
	err = router.Add("*", "", func(hijack *rod.Hijack) {
		resourceType := hijack.Request.Type()
		if Excluded(resourceType) {
			hijack.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}

		url := hijack.Request.URL().String()
		method := hijack.Request.Method()

		// Load the response so the body is observable. Failures here drop
		// the exchange, never the visit.
		if err := hijack.LoadResponse(http.DefaultClient, true); err != nil {
			c.log.WithURL(url).WithError(err).Debug("exchange capture failed, skipping")
			return
		}

		status := 0
		headers := make(http.Header)
		if payload := hijack.Response.Payload(); payload != nil {
			status = payload.ResponseCode
			for _, h := range payload.ResponseHeaders {
				headers.Add(h.Name, h.Value)
			}
		}

		raw := hijack.Response.Body()
		if c.config.MaxBodySize > 0 && len(raw) > c.config.MaxBodySize {
			raw = raw[:c.config.MaxBodySize]
		}
		body, hasBody := SanitizeBody(status, raw)

		mu.Lock()
		exchanges = append(exchanges, Exchange{
			URL:     url,
			Method:  method,
			Class:   ClassifyResourceType(resourceType),
			Body:    body,
			HasBody: hasBody,
			Headers: headers,
			Status:  status,
		})
		mu.Unlock()
	})
	if err != nil {
		router = nil
	}
	if router != nil {
		go router.Run()
		defer router.Stop()
	}

	if err := page.Navigate(target); err != nil {
		result.Err = errors.Categorize(err, target)
		c.log.WithURL(target).WithError(err).Warn("navigation failed, keeping partial capture")
		c.finish(page, result, &mu, &exchanges)
		return result, nil
	}

	if err := page.WaitLoad(); err != nil {
		result.Err = errors.Categorize(err, target)
		c.log.WithURL(target).WithError(err).Warn("page load timed out, keeping partial capture")
	}

	// Let XHR-driven content land before reading the DOM.
	if c.config.SettleDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(c.config.SettleDelay):
		}
	}

	c.finish(page, result, &mu, &exchanges)

	c.log.WithURL(target).
		WithField("exchanges", len(result.Exchanges)).
		Debug("capture complete")

	return result, nil
}

// finish snapshots the rendered page and the exchange batch into the result.
func (c *Collector) finish(page *rod.Page, result *Result, mu *sync.Mutex, exchanges *[]Exchange) {
	if info, err := page.Info(); err == nil && info != nil {
		result.FinalURL = info.URL
	}
	if html, err := page.HTML(); err == nil {
		result.HTML = html
	}

	mu.Lock()
	result.Exchanges = append(result.Exchanges[:0], *exchanges...)
	mu.Unlock()
}
