package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/export"
	"github.com/c360studio/semschema/schema"
	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

const baseDoc = `{
  "@context": {"schema": "http://schema.org/"},
  "@graph": [
    {"@id": "schema:Thing", "@type": "rdfs:Class", "rdfs:label": "Thing", "rdfs:comment": "Anything"}
  ]
}`

const validDoc = `{
  "@context": {"schema": "http://schema.org/", "bts": "http://schema.biothings.io/"},
  "@graph": [
    {"@id": "bts:Gene", "@type": "rdfs:Class", "rdfs:label": "Gene", "rdfs:comment": "A gene",
     "rdfs:subClassOf": {"@id": "schema:Thing"}},
    {"@id": "bts:symbol", "@type": "rdf:Property", "rdfs:label": "symbol", "rdfs:comment": "Gene symbol",
     "schema:domainIncludes": {"@id": "bts:Gene"}, "schema:rangeIncludes": {"@id": "schema:Text"}}
  ]
}`

const invalidDoc = `{
  "@context": {"schema": "http://schema.org/", "bts": "http://schema.biothings.io/"},
  "@graph": [
    {"@id": "bts:gene", "@type": "rdfs:Class", "rdfs:label": "gene", "rdfs:comment": "lowercase",
     "rdfs:subClassOf": {"@id": "schema:Thing"}}
  ]
}`

func testApp(t *testing.T) *app {
	t.Helper()
	base, err := source.Decode([]byte(baseDoc))
	require.NoError(t, err)
	provider := source.NewStaticProvider(map[string]map[string]any{schemaorg.BaseSchemaOrg: base})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAppWith(config.DefaultConfig(), logger, source.NewLoader(source.WithLoaderLogger(logger)), provider)
}

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestValidate(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a_valid.json":   validDoc,
		"b_invalid.json": invalidDoc,
	})
	a := testApp(t)

	report, err := a.validate(context.Background(), []string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Documents, 2)

	valid := report.Documents[0]
	assert.True(t, strings.HasSuffix(valid.Source, "a_valid.json"))
	assert.True(t, valid.Valid)
	assert.Equal(t, "bts", valid.Namespace)
	assert.Equal(t, 1, valid.Classes)
	assert.Equal(t, 1, valid.Properties)
	assert.Empty(t, valid.Errors)

	invalid := report.Documents[1]
	assert.False(t, invalid.Valid)
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, "invalid_class_label", invalid.Errors[0]["error_type"])
	assert.Equal(t, "http://schema.biothings.io/gene", invalid.Errors[0]["record_id"])
}

func TestValidate_LoadError(t *testing.T) {
	dir := writeDocs(t, map[string]string{"broken.json": "[1, 2"})
	a := testApp(t)

	report, err := a.validate(context.Background(), []string{filepath.Join(dir, "broken.json")})
	require.NoError(t, err)
	require.Len(t, report.Documents, 1)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Documents[0].LoadError)
}

func TestValidate_NoMatch(t *testing.T) {
	a := testApp(t)
	_, err := a.validate(context.Background(), []string{filepath.Join(t.TempDir(), "*.json")})
	assert.Error(t, err)
}

func TestWriteMetrics(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a_valid.json":   validDoc,
		"b_invalid.json": invalidDoc,
	})
	a := testApp(t)
	_, err := a.validate(context.Background(), []string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics", "semschema.prom")
	require.NoError(t, a.writeMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "semschema_validator_runs_total 2")
	assert.Contains(t, text, `semschema_validator_findings_total{error_type="invalid_class_label",severity="error"} 1`)
}

func TestDescribe(t *testing.T) {
	dir := writeDocs(t, map[string]string{"vocab.json": validDoc})
	a := testApp(t)

	s, err := a.open(context.Background(), filepath.Join(dir, "vocab.json"))
	require.NoError(t, err)

	got := describe(s, "Gene", false, schema.OutputLabel)
	require.Len(t, got, 1)
	assert.Equal(t, "bts:Gene", got[0]["name"])
	assert.Equal(t, true, got[0]["defined"])
	assert.Equal(t, [][]string{{"Thing"}}, got[0]["parent_classes"])

	props := describe(s, "symbol", true, schema.OutputCURIE)
	require.Len(t, props, 1)
	assert.Equal(t, []string{"bts:Gene"}, props[0]["domain"])

	missing := describe(s, "Protein", false, schema.OutputCURIE)
	require.Len(t, missing, 1)
	assert.Equal(t, false, missing[0]["defined"])
}

func TestOpen_FailFast(t *testing.T) {
	dir := writeDocs(t, map[string]string{"vocab.json": invalidDoc})
	a := testApp(t)

	_, err := a.open(context.Background(), filepath.Join(dir, "vocab.json"))
	assert.Error(t, err)
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("", "")
	require.NoError(t, err)
	assert.Equal(t, export.FormatTurtle, f)

	f, err = resolveFormat("", "out.jsonld")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSONLD, f)

	f, err = resolveFormat("nt", "out.jsonld")
	require.NoError(t, err)
	assert.Equal(t, export.FormatNTriples, f)

	_, err = resolveFormat("rdfxml", "")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "semschema version "+Version+" (build: "+BuildTime+")\n", out.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"id": "<a&b>"}))

	var back map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "<a&b>", back["id"])
	assert.Contains(t, buf.String(), "<a&b>")
}
