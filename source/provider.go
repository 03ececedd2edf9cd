package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
	"github.com/c360studio/semstreams/pkg/cache"
)

// Default locations of the base vocabularies.
const (
	DefaultSchemaOrgURL = "https://schema.org/version/latest/schemaorg-current-https.jsonld"
	DefaultRegistryURL  = "https://discovery.biothings.io/api/registry/"
)

// BaseProvider supplies the base vocabulary an extension builds on.
type BaseProvider interface {
	// Load returns the named base vocabularies merged into one document.
	Load(ctx context.Context, names []string) (map[string]any, error)
}

// ProviderConfig configures a RemoteProvider.
type ProviderConfig struct {
	// SchemaOrgURL is the JSON-LD release served for "schema.org".
	SchemaOrgURL string

	// RegistryURL is the schema registry used for every other name.
	RegistryURL string

	// CacheTTL is how long fetched documents are reused.
	CacheTTL time.Duration
}

// DefaultProviderConfig returns the public schema.org release and registry
// with a one day cache.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		SchemaOrgURL: DefaultSchemaOrgURL,
		RegistryURL:  DefaultRegistryURL,
		CacheTTL:     24 * time.Hour,
	}
}

// RemoteProvider fetches base vocabularies over HTTP and caches them.
type RemoteProvider struct {
	config ProviderConfig
	loader *Loader
	cache  cache.Cache[map[string]any]
	logger *slog.Logger

	// fetchMu serializes cache fills so concurrent callers share one fetch.
	fetchMu sync.Mutex
}

// NewRemoteProvider creates a provider. The cache cleanup goroutine runs
// until ctx is cancelled or Close is called.
func NewRemoteProvider(ctx context.Context, config ProviderConfig, loader *Loader, logger *slog.Logger) (*RemoteProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = NewLoader(WithLoaderLogger(logger))
	}
	if config.SchemaOrgURL == "" {
		config.SchemaOrgURL = DefaultSchemaOrgURL
	}
	if config.RegistryURL == "" {
		config.RegistryURL = DefaultRegistryURL
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 24 * time.Hour
	}

	cleanup := config.CacheTTL / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c, err := cache.NewTTL[map[string]any](ctx, config.CacheTTL, cleanup)
	if err != nil {
		return nil, fmt.Errorf("create base vocabulary cache: %w", err)
	}

	return &RemoteProvider{
		config: config,
		loader: loader,
		cache:  c,
		logger: logger,
	}, nil
}

// Load fetches each name and merges the results in order. "schema.org" and
// the "schema" prefix resolve to the configured release, which must load.
// Other names go through the registry and are skipped when the registry
// cannot serve them.
func (p *RemoteProvider) Load(ctx context.Context, names []string) (map[string]any, error) {
	var merged map[string]any
	seen := make(map[string]bool)
	for _, name := range names {
		u := p.URL(name)
		if seen[u] {
			continue
		}
		seen[u] = true
		doc, err := p.loadOne(ctx, name)
		if err != nil {
			if isSchemaOrg(name) {
				return nil, fmt.Errorf("load base vocabulary %s: %w", name, err)
			}
			p.logger.Debug("Skipping base vocabulary",
				slog.String("name", name),
				slog.String("error", err.Error()))
			continue
		}
		merged = document.MergeRaw(merged, doc)
	}
	if merged == nil {
		merged = document.MergeRaw(nil, nil)
	}
	return merged, nil
}

// URL returns the location fetched for name.
func (p *RemoteProvider) URL(name string) string {
	if isSchemaOrg(name) {
		return p.config.SchemaOrgURL
	}
	base := p.config.RegistryURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(name) + "?format=jsonld"
}

// Close stops the cache cleanup goroutine.
func (p *RemoteProvider) Close() error {
	return p.cache.Close()
}

func (p *RemoteProvider) loadOne(ctx context.Context, name string) (map[string]any, error) {
	key := p.URL(name)
	if doc, ok := p.cache.Get(key); ok {
		return document.DeepCopy(doc).(map[string]any), nil
	}

	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()
	if doc, ok := p.cache.Get(key); ok {
		return document.DeepCopy(doc).(map[string]any), nil
	}

	p.logger.Info("Loading base vocabulary",
		slog.String("name", name),
		slog.String("url", key))
	doc, err := p.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, err := p.cache.Set(key, doc); err != nil {
		p.logger.Warn("Failed to cache base vocabulary",
			slog.String("name", name),
			slog.String("error", err.Error()))
	}
	return document.DeepCopy(doc).(map[string]any), nil
}

// StaticProvider serves base vocabularies from memory.
type StaticProvider struct {
	docs map[string]map[string]any
}

// NewStaticProvider creates a provider serving docs by name.
func NewStaticProvider(docs map[string]map[string]any) *StaticProvider {
	p := &StaticProvider{docs: make(map[string]map[string]any, len(docs))}
	for name, doc := range docs {
		p.Add(name, doc)
	}
	return p
}

// Add registers or replaces a named document.
func (p *StaticProvider) Add(name string, doc map[string]any) {
	p.docs[canonicalName(name)] = doc
}

// Load merges the known names in order and ignores the rest.
func (p *StaticProvider) Load(_ context.Context, names []string) (map[string]any, error) {
	var merged map[string]any
	seen := make(map[string]bool)
	for _, name := range names {
		name = canonicalName(name)
		doc, ok := p.docs[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		merged = document.MergeRaw(merged, document.DeepCopy(doc).(map[string]any))
	}
	if merged == nil {
		merged = document.MergeRaw(nil, nil)
	}
	return merged, nil
}

// isSchemaOrg reports whether name refers to the schema.org release, either
// by its base name or by its usual context prefix.
func isSchemaOrg(name string) bool {
	return name == schemaorg.BaseSchemaOrg || name == "schema"
}

func canonicalName(name string) string {
	if isSchemaOrg(name) {
		return schemaorg.BaseSchemaOrg
	}
	return name
}
