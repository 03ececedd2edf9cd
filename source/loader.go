// Package source loads vocabulary documents from mappings, files and URLs,
// provisions base vocabularies and watches extension documents for changes.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSource is returned when a document cannot be loaded or is not a
// JSON or YAML mapping.
var ErrInvalidSource = errors.New("invalid source")

// maxDocumentSize bounds a single fetched or read document (64MB). The full
// schema.org release is well below this.
const maxDocumentSize = 64 << 20

// Loader loads vocabulary documents.
type Loader struct {
	client *http.Client
	retry  retry.Config
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote documents.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithRetry sets the retry policy for remote documents.
func WithRetry(cfg retry.Config) LoaderOption {
	return func(l *Loader) { l.retry = cfg }
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader with a 30s HTTP timeout and the default retry
// policy.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		retry:  retry.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the document described by src. A map is returned as is, a
// string starting with http:// or https:// is fetched and any other string
// is read as a file path. Content is parsed as JSON first and YAML second.
func (l *Loader) Load(ctx context.Context, src any) (map[string]any, error) {
	switch v := src.(type) {
	case map[string]any:
		return v, nil
	case nil:
		return nil, fmt.Errorf("%w: no document given", ErrInvalidSource)
	case string:
		var (
			data []byte
			err  error
		)
		if isURL(v) {
			data, err = l.Fetch(ctx, v)
		} else {
			data, err = readFile(v)
		}
		if err != nil {
			return nil, err
		}
		doc, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: unsupported source type %T", ErrInvalidSource, src)
	}
}

// Fetch retrieves a remote document. Server errors and transport failures
// are retried; any other non-200 status fails immediately.
func (l *Loader) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, l.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.NonRetryable(fmt.Errorf("%w: %s: %v", ErrInvalidSource, url, err))
		}
		req.Header.Set("Accept", "application/ld+json, application/json, application/yaml;q=0.9, */*;q=0.5")

		resp, err := l.client.Do(req)
		if err != nil {
			l.logger.Debug("Fetch failed",
				slog.String("url", url),
				slog.String("error", err.Error()))
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			l.logger.Debug("Fetch failed",
				slog.String("url", url),
				slog.Int("status", resp.StatusCode),
				slog.Bool("retryable", true))
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.NonRetryable(fmt.Errorf("%w: %s returned status %d", ErrInvalidSource, url, resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSource) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, url, err)
	}
	return body, nil
}

// Decode parses data as JSON, falling back to YAML. The top level must be a
// mapping.
func Decode(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if yerr := yaml.Unmarshal(data, &v); yerr != nil {
			return nil, fmt.Errorf("%w: not a valid JSON or YAML document", ErrInvalidSource)
		}
		v = normalizeYAML(v)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is not a mapping", ErrInvalidSource)
	}
	return doc, nil
}

// normalizeYAML converts map[any]any values produced for non-string keys
// into map[string]any so documents look the same as decoded JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, path, err)
	}
	return data, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
