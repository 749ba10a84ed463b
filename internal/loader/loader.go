// Package loader fetches the site's JSON search index and normalizes it into
// a document collection.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/site-search/internal/errors"
	"github.com/gcbaptista/site-search/internal/logger"
	"github.com/gcbaptista/site-search/internal/metrics"
	"github.com/gcbaptista/site-search/model"
)

const (
	defaultTimeout = 30 * time.Second
	maxIndexBytes  = 64 << 20
)

// Fetcher loads a collection from a source URI.
type Fetcher interface {
	Load(ctx context.Context, source string) (model.Collection, error)
}

// Loader reads the search index over HTTP(S) or from the local filesystem.
// Relative sources such as "/search.json" are resolved against BaseURL when
// one is set, and read from disk otherwise.
type Loader struct {
	client  *http.Client
	baseURL *url.URL
	policy  *bluemonday.Policy
	logger  *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for HTTP(S) sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithBaseURL sets the site root that relative sources are resolved against.
func WithBaseURL(base *url.URL) Option {
	return func(l *Loader) { l.baseURL = base }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger.OrNop(log) }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: defaultTimeout},
		policy: bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes the index at source. Every failure is a
// *errors.LoadError.
func (l *Loader) Load(ctx context.Context, source string) (model.Collection, error) {
	startTime := time.Now()

	data, err := l.read(ctx, source)
	if err == nil {
		var idx model.RawIndex
		if jsonErr := json.Unmarshal(data, &idx); jsonErr != nil {
			err = internalErrors.NewLoadError(source, fmt.Errorf("invalid JSON: %w", jsonErr))
		} else {
			docs := model.NewCollection(idx, l.StripHTML)
			took := time.Since(startTime)

			metrics.IndexLoadsTotal.WithLabelValues(metrics.StatusOK).Inc()
			metrics.IndexLoadDuration.Observe(took.Seconds())
			metrics.IndexDocuments.Set(float64(len(docs)))
			l.logger.Info("search index loaded",
				zap.String("source", source),
				zap.Int("documents", len(docs)),
				zap.Duration("took", took),
			)
			return docs, nil
		}
	}

	metrics.IndexLoadsTotal.WithLabelValues(metrics.StatusError).Inc()
	l.logger.Warn("search index load failed", zap.String("source", source), zap.Error(err))
	return nil, err
}

// StripHTML reduces HTML to its text: tags are removed, script and style
// contents dropped, entities decoded and whitespace collapsed.
func (l *Loader) StripHTML(content string) string {
	if content == "" {
		return ""
	}
	text := html.UnescapeString(l.policy.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	target, isRemote, err := l.resolve(source)
	if err != nil {
		return nil, internalErrors.NewLoadError(source, err)
	}
	if isRemote {
		return l.fetch(ctx, source, target)
	}

	data, err := os.ReadFile(target) // #nosec G304 -- index location is operator configuration
	if err != nil {
		return nil, internalErrors.NewLoadError(source, err)
	}
	return data, nil
}

// resolve returns the location to read and whether it is an HTTP(S) URL.
func (l *Loader) resolve(source string) (string, bool, error) {
	if strings.TrimSpace(source) == "" {
		return "", false, fmt.Errorf("empty source")
	}

	u, err := url.Parse(source)
	if err != nil {
		// Windows paths and other oddities are still valid file names
		return source, false, nil
	}

	switch u.Scheme {
	case "http", "https":
		return u.String(), true, nil
	case "file":
		return u.Path, false, nil
	case "":
		if l.baseURL != nil {
			return l.baseURL.ResolveReference(u).String(), true, nil
		}
		return source, false, nil
	default:
		if len(u.Scheme) == 1 {
			// drive letter, e.g. C:\site\search.json
			return source, false, nil
		}
		return "", false, fmt.Errorf("unsupported scheme '%s'", u.Scheme)
	}
}

func (l *Loader) fetch(ctx context.Context, source, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, internalErrors.NewLoadError(source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, internalErrors.NewLoadError(source, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			l.logger.Debug("failed to close response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, internalErrors.NewStatusLoadError(source, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
	if err != nil {
		return nil, internalErrors.NewLoadError(source, err)
	}
	return data, nil
}
