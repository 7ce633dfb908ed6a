// Package analyzer turns a natural-language request into a ranked list of
// candidate API endpoints by driving a headless browser against the target
// page and scoring every captured network exchange.
package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/crawl"
	"github.com/apiscout/apiscout/internal/errors"
	"github.com/apiscout/apiscout/internal/extract"
	"github.com/apiscout/apiscout/internal/keywords"
	"github.com/apiscout/apiscout/internal/logger"
	"github.com/apiscout/apiscout/internal/metrics"
	"github.com/apiscout/apiscout/internal/rank"
	"github.com/apiscout/apiscout/internal/ratelimit"
	"github.com/apiscout/apiscout/internal/selectors"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// Collector produces the exchange batch and rendered HTML for one page
// visit. capture.Collector is the production implementation.
type Collector interface {
	Capture(ctx context.Context, target string) (*capture.Result, error)
}

// Analyzer runs analysis sessions. The visited set persists across Analyze
// calls so a caller can descend depth by depth; Reset starts a new session.
type Analyzer struct {
	config    *Config
	collector Collector
	limiter   *ratelimit.Limiter
	log       *logger.Logger
	metrics   *metrics.Collector

	mu    sync.Mutex
	state *crawl.State
}

// New creates a new analyzer with the given options.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if a.log == nil {
		logLevel := logger.WarnLevel
		if a.config.Debug {
			logLevel = logger.DebugLevel
		} else if a.config.Verbose {
			logLevel = logger.InfoLevel
		}
		a.log = logger.New(logger.Config{
			Level:     logLevel,
			Pretty:    true,
			Component: "analyzer",
		})
	}

	if a.metrics == nil {
		a.metrics = metrics.New()
	}

	if a.collector == nil {
		a.collector = capture.New(a.config.Capture, a.log.WithComponent("capture"))
	}

	a.limiter = ratelimit.NewLimiter(a.config.RateLimit.RequestsPerSecond, a.config.RateLimit.Burst)
	if d := a.config.RateLimit.HostDelay; d > 0 {
		a.limiter.SetHostDelay(d)
	}

	return a, nil
}

// Reset discards the session's visited set so the next Analyze call starts
// a fresh traversal.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	a.state = nil
	a.mu.Unlock()
}

// Metrics returns the session metrics collector.
func (a *Analyzer) Metrics() *metrics.Collector {
	return a.metrics
}

// Analyze processes one node of the traversal: capture the page, extract
// and rank candidates, and report the links available at the next depth.
// It never returns an error; every failure mode degrades to a result whose
// ExecutionSummary describes what happened.
func (a *Analyzer) Analyze(ctx context.Context, req Request) *Result {
	res := emptyResult()

	target := firstURL(req.Instructions)
	if target == "" {
		a.log.Warn("No URL found in instructions")
		res.ExecutionSummary = "No URL found in instructions"
		return res
	}

	state := a.session(req.MaxDepth)

	if state.AtLimit(req.Depth) || state.Seen(target) {
		res.ExecutionSummary = "Reached max depth or already crawled"
		return res
	}
	state.MarkVisited(target)

	if err := a.limiter.Wait(ctx, hostOf(target)); err != nil {
		res.ExecutionSummary = "Analysis cancelled"
		return res
	}

	a.log.PageEvent(logger.InfoLevel, target, req.Depth).Msg("Analyzing page")

	capRes, err := a.collector.Capture(ctx, target)
	if err != nil {
		aerr := errors.Categorize(err, target)
		a.metrics.RecordCaptureFailure()
		a.metrics.RecordError(aerr.Type.String())
		a.log.ErrorEvent(aerr, target, "capture")
		res.ExecutionSummary = fmt.Sprintf("Analysis failed: %v", aerr)
		return res
	}
	if capRes.Err != nil {
		// Recoverable capture failure: keep whatever was gathered.
		a.metrics.RecordCaptureFailure()
		a.metrics.RecordError(errors.GetErrorType(capRes.Err).String())
		a.log.WithError(capRes.Err).WithURL(target).Warn("Capture incomplete, continuing with partial data")
	}

	set := keywords.Extract(req.DataDescription)

	for i := range capRes.Exchanges {
		ex := &capRes.Exchanges[i]
		a.metrics.RecordExchange()
		a.metrics.RecordBytes(int64(len(ex.Body)))
		if ex.Status != 0 {
			a.metrics.RecordStatusCode(ex.Status)
		}
		a.log.CaptureEvent(ex.Method, ex.URL, ex.Class.String(), ex.Status)
	}

	batch := extract.Run(capRes.Exchanges, set)
	rank.ByScore(batch.Candidates)

	if batch.ParseSkips > 0 {
		a.metrics.RecordParseSkips(batch.ParseSkips)
		a.log.WithField("skipped", batch.ParseSkips).Debug("Unparseable fragments skipped")
	}

	for _, c := range batch.Candidates {
		a.metrics.RecordCandidate()
		a.log.CandidateEvent(c.URL, c.Score, len(c.MatchedFields))
		res.RecommendedAPIs = append(res.RecommendedAPIs, toEndpoint(c))
	}
	if batch.PaginationURL != "" {
		a.metrics.RecordPaginationHit()
		pagination := batch.PaginationURL
		res.NextActions.PaginationAPIDetected = &pagination
	}

	if len(res.RecommendedAPIs) == 0 {
		res.FallbackHTMLSelectors.IfNoAPI = selectors.Suggest(capRes.HTML, set)
	}

	base := capRes.FinalURL
	if base == "" {
		base = target
	}
	links := crawl.ExtractLinks(capRes.HTML, base, crawl.LinkOptions{
		IncludePagination: req.IncludePagination,
		Limit:             a.config.MaxDepthLinks,
	})
	if links != nil {
		res.NextActions.AvailableDepthLinks = links
	}

	res.NextActions.RequiresConfirmation = req.ConfirmEachDepth &&
		req.Depth+1 < state.MaxDepth() &&
		len(links) > 0

	res.ExecutionSummary = summarize(len(res.RecommendedAPIs), capRes.Err)

	a.metrics.RecordPageAnalyzed()
	summary := a.metrics.Snapshot().Summary()
	summary["hosts_visited"] = a.limiter.Stats().HostCount
	a.log.SummaryEvent(summary)

	return res
}

// session returns the current crawl state, creating it on first use.
func (a *Analyzer) session(maxDepth int) *crawl.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == nil {
		a.state = crawl.NewState(maxDepth)
	}
	return a.state
}

func summarize(found int, captureErr error) string {
	var b strings.Builder
	if found > 0 {
		fmt.Fprintf(&b, "Found %d API endpoints", found)
	} else {
		b.WriteString("No API endpoints found; consider the fallback HTML selectors")
	}
	if captureErr != nil {
		b.WriteString(" (capture was incomplete)")
	}
	return b.String()
}

// firstURL pulls the first http(s) URL out of free-text instructions.
func firstURL(instructions string) string {
	match := urlPattern.FindString(instructions)
	return strings.TrimRight(match, ".,;:)")
}

// hostOf extracts the host for per-host pacing. Unparseable targets pace
// against the global bucket only.
func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Host
}
