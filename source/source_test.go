package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{"@context": {"bts": "http://schema.biothings.io/"}, "@graph": [{"@id": "bts:Gene", "@type": "rdfs:Class"}]}`

const testYAML = `
"@context":
  bts: http://schema.biothings.io/
"@graph":
  - "@id": bts:Gene
    "@type": rdfs:Class
    "$validation":
      properties:
        name:
          type: string
`

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func graphIDs(t *testing.T, doc map[string]any) []string {
	t.Helper()
	graph, ok := doc["@graph"].([]any)
	require.True(t, ok, "@graph should be a list")
	var ids []string
	for _, item := range graph {
		rec := item.(map[string]any)
		ids = append(ids, rec["@id"].(string))
	}
	return ids
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "doc.jsonld", testDoc)
	yamlPath := writeFile(t, dir, "doc.yaml", testYAML)
	badPath := writeFile(t, dir, "bad.txt", "{not: [valid")
	scalarPath := writeFile(t, dir, "scalar.json", `"just a string"`)

	l := NewLoader(WithRetry(fastRetry()))
	ctx := context.Background()

	t.Run("mapping passes through", func(t *testing.T) {
		in := map[string]any{"@graph": []any{}}
		got, err := l.Load(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("json file", func(t *testing.T) {
		got, err := l.Load(ctx, jsonPath)
		require.NoError(t, err)
		assert.Equal(t, []string{"bts:Gene"}, graphIDs(t, got))
	})

	t.Run("yaml file", func(t *testing.T) {
		got, err := l.Load(ctx, yamlPath)
		require.NoError(t, err)
		assert.Equal(t, []string{"bts:Gene"}, graphIDs(t, got))
		rec := got["@graph"].([]any)[0].(map[string]any)
		validation, ok := rec["$validation"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, validation, "properties")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load(ctx, filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("unparseable content", func(t *testing.T) {
		_, err := l.Load(ctx, badPath)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := l.Load(ctx, scalarPath)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := l.Load(ctx, 42)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := l.Load(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})
}

func TestLoader_URL(t *testing.T) {
	var flaky, missing atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/doc.jsonld", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testDoc))
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, _ *http.Request) {
		if flaky.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(testDoc))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		missing.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(WithRetry(fastRetry()), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	t.Run("fetches document", func(t *testing.T) {
		got, err := l.Load(ctx, srv.URL+"/doc.jsonld")
		require.NoError(t, err)
		assert.Equal(t, []string{"bts:Gene"}, graphIDs(t, got))
	})

	t.Run("retries server errors", func(t *testing.T) {
		got, err := l.Load(ctx, srv.URL+"/flaky")
		require.NoError(t, err)
		assert.Equal(t, []string{"bts:Gene"}, graphIDs(t, got))
		assert.Equal(t, int32(3), flaky.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		_, err := l.Load(ctx, srv.URL+"/missing")
		assert.ErrorIs(t, err, ErrInvalidSource)
		assert.Equal(t, int32(1), missing.Load())
	})
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte("a: 1\nb:\n  c: [x, y]\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"c": []any{"x", "y"}}, doc["b"])

	_, err = Decode([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func newRegistry(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/schemaorg.jsonld", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"@context": {"schema": "http://schema.org/"}, "@graph": [{"@id": "schema:Thing", "@type": "rdfs:Class"}]}`))
	})
	mux.HandleFunc("/registry/bioschemas", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("format") != "jsonld" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"@context": {"bioschemas": "https://discovery.biothings.io/view/bioschemas/"}, "@graph": [{"@id": "bioschemas:Gene", "@type": "rdfs:Class"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRemoteProvider_Load(t *testing.T) {
	srv, hits := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := NewLoader(WithRetry(fastRetry()), WithHTTPClient(srv.Client()))
	p, err := NewRemoteProvider(ctx, ProviderConfig{
		SchemaOrgURL: srv.URL + "/schemaorg.jsonld",
		RegistryURL:  srv.URL + "/registry",
		CacheTTL:     time.Minute,
	}, loader, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, srv.URL+"/registry/bioschemas?format=jsonld", p.URL("bioschemas"))
	assert.Equal(t, srv.URL+"/schemaorg.jsonld", p.URL("schema"))

	doc, err := p.Load(ctx, []string{"schema.org", "schema", "bioschemas", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, []string{"schema:Thing", "bioschemas:Gene"}, graphIDs(t, doc))
	docCtx := doc["@context"].(map[string]any)
	assert.Contains(t, docCtx, "schema")
	assert.Contains(t, docCtx, "bioschemas")
	// unknown name was requested once and skipped; it is not counted by the handlers.
	assert.Equal(t, int32(2), hits.Load())

	// Served from cache, and callers cannot corrupt the cached copy.
	doc["@graph"] = nil
	again, err := p.Load(ctx, []string{"schema.org", "bioschemas"})
	require.NoError(t, err)
	assert.Equal(t, []string{"schema:Thing", "bioschemas:Gene"}, graphIDs(t, again))
	assert.Equal(t, int32(2), hits.Load())
}

func TestRemoteProvider_SchemaOrgFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := NewRemoteProvider(ctx, ProviderConfig{
		SchemaOrgURL: srv.URL + "/nope.jsonld",
		RegistryURL:  srv.URL,
	}, NewLoader(WithRetry(fastRetry()), WithHTTPClient(srv.Client())), nil)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Load(ctx, []string{"schema.org"})
	assert.ErrorIs(t, err, ErrInvalidSource)

	doc, err := p.Load(ctx, []string{"bioschemas"})
	require.NoError(t, err)
	assert.Empty(t, doc["@graph"])
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(map[string]map[string]any{
		"schema": {
			"@context": map[string]any{"schema": "http://schema.org/"},
			"@graph":   []any{map[string]any{"@id": "schema:Thing"}},
		},
	})
	p.Add("bioschemas", map[string]any{
		"@graph": []any{map[string]any{"@id": "bioschemas:Gene"}},
	})

	doc, err := p.Load(context.Background(), []string{"schema.org", "schema", "bioschemas", "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"schema:Thing", "bioschemas:Gene"}, graphIDs(t, doc))

	empty, err := p.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, empty["@graph"])
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jsonld", testDoc)
	b := writeFile(t, dir, "nested/deep/b.jsonld", testDoc)
	writeFile(t, dir, "nested/c.yaml", testYAML)

	got, err := ExpandGlobs([]string{
		filepath.Join(dir, "**", "*.jsonld"),
		a,
		"https://example.org/doc.jsonld",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, "https://example.org/doc.jsonld"}, got)

	_, err = ExpandGlobs([]string{filepath.Join(dir, "*.xml")})
	assert.Error(t, err)
}

func TestWatcher_Modify(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ext.jsonld", testDoc)
	writeFile(t, dir, "other.jsonld", testDoc)

	w, err := NewWatcher([]string{path}, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Unwatched sibling and an unchanged rewrite produce nothing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jsonld"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))

	select {
	case ev := <-w.Events():
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, ev.Path)
		assert.Equal(t, WatchOpModify, ev.Operation)
	case <-ctx.Done():
		t.Fatal("timed out waiting for watch event")
	}
}

func TestNewWatcher_NoFiles(t *testing.T) {
	_, err := NewWatcher(nil, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("a")), ContentHash([]byte("a")))
	assert.NotEqual(t, ContentHash([]byte("a")), ContentHash([]byte("b")))
	assert.Len(t, ContentHash(nil), 64)
}
