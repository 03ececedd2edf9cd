// Package schema exposes a loaded vocabulary as queryable classes and
// properties.
//
// A Schema loads an extension document, merges it with its base
// vocabularies, validates it and answers hierarchy queries against the
// merged graph. Class and Property values are lookups bound to one
// Schema; they hold no state of their own and render identifiers in the
// OutputType they were created with.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/c360studio/semschema/curie"
	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/graph"
	"github.com/c360studio/semschema/merge"
	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/validator"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Option configures a Schema.
type Option func(*Schema)

// WithBaseProvider sets the provider of base vocabularies.
func WithBaseProvider(p source.BaseProvider) Option {
	return func(s *Schema) { s.provider = p }
}

// WithBase names the base vocabularies to load, replacing the names
// derived from the extension's @context.
func WithBase(names ...string) Option {
	return func(s *Schema) { s.baseNames = names }
}

// WithContext adds prefixes to the namespace table.
func WithContext(ctx map[string]string) Option {
	return func(s *Schema) { maps.Copy(s.extraContext, ctx) }
}

// WithValidatorOptions passes options to the validator.
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(s *Schema) { s.validatorOpts = append(s.validatorOpts, opts...) }
}

// WithLoader sets the document loader.
func WithLoader(l *source.Loader) Option {
	return func(s *Schema) { s.loader = l }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Schema) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Schema is an extension vocabulary merged with its base.
type Schema struct {
	loader        *source.Loader
	provider      source.BaseProvider
	ownsProvider  bool
	baseNames     []string
	extraContext  map[string]string
	validatorOpts []validator.Option
	logger        *slog.Logger

	namespace string
	context   map[string]string
	base      document.Document
	raw       map[string]any
	ext       document.Document
	vocab     *merge.Vocabulary
	validator *validator.Validator

	full       *graph.Graph
	classGraph *graph.Graph
	extClasses *graph.Graph
	propGraph  *graph.Graph
	classIDs   map[string]bool

	classes    *curie.Converter
	properties *curie.Converter
}

// New loads ext (a mapping, file path or URL; nil for an empty schema),
// loads its base vocabularies and validates it. In fail-fast mode the
// first validation error is returned.
func New(ctx context.Context, ext any, opts ...Option) (*Schema, error) {
	s := &Schema{
		extraContext: make(map[string]string),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = source.NewLoader(source.WithLoaderLogger(s.logger))
	}

	raw := map[string]any{"@context": map[string]any{}, "@graph": []any{}}
	if ext != nil {
		loaded, err := s.loader.Load(ctx, ext)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		raw = loaded
	}

	s.context = rawContext(raw)
	maps.Copy(s.context, s.extraContext)
	if _, ok := s.context["schema"]; !ok {
		s.context["schema"] = schemaorg.Namespace
	}
	s.namespace = s.detectNamespace(raw)

	if s.baseNames == nil {
		s.baseNames = baseNames(s.context, s.namespace)
	}
	if s.provider == nil {
		p, err := source.NewRemoteProvider(ctx, source.DefaultProviderConfig(), s.loader, s.logger)
		if err != nil {
			return nil, err
		}
		s.provider = p
		s.ownsProvider = true
	}

	baseRaw, err := s.provider.Load(ctx, s.baseNames)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load base vocabulary: %w", err)
	}
	base, err := document.ParseWithContext(baseRaw, schemaorg.DefaultContext)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("parse base vocabulary: %w", err)
	}
	s.base = base

	if err := s.load(raw); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the default base provider. It is a no-op when a provider
// was supplied with WithBaseProvider.
func (s *Schema) Close() error {
	if !s.ownsProvider {
		return nil
	}
	if c, ok := s.provider.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// load parses and validates raw against the loaded base and swaps it in.
// The Schema is left untouched on error.
func (s *Schema) load(raw map[string]any) error {
	defaults := make(map[string]string, len(schemaorg.DefaultContext)+len(s.context))
	maps.Copy(defaults, schemaorg.DefaultContext)
	maps.Copy(defaults, s.context)

	ext, err := document.ParseWithContext(raw, defaults)
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	vocab := merge.New(s.base, ext)
	v := validator.New(ext, vocab, append([]validator.Option{validator.WithLogger(s.logger)}, s.validatorOpts...)...)
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	for _, w := range v.Warnings() {
		s.logger.Warn("Schema validation warning",
			slog.String("error_type", string(w.Type)),
			slog.String("record_id", w.RecordID),
			slog.String("message", w.Message))
	}

	full := vocab.Graph
	classIDs := make(map[string]bool)
	var classList []string
	for _, id := range full.Nodes() {
		n, _ := full.Node(id)
		if n.Kind == graph.KindClass || n.Kind == graph.KindDataType {
			classIDs[id] = true
			classList = append(classList, id)
		}
	}
	isClass := func(n *graph.Node) bool { return n.Kind == graph.KindClass }

	s.raw = raw
	s.ext = ext
	s.vocab = vocab
	s.validator = v
	s.full = full
	s.classGraph = full.Subgraph(isClass)
	s.extClasses = vocab.ExtensionGraphs.Classes.Subgraph(func(n *graph.Node) bool {
		return isClass(n) && !full.Isolated(n.ID)
	})
	s.propGraph = full.Subgraph(func(n *graph.Node) bool { return n.Kind == graph.KindProperty })
	s.classIDs = classIDs
	s.classes = curie.NewConverter(vocab.Merged.Context, classList)
	s.properties = curie.NewConverter(vocab.Merged.Context, s.propGraph.Nodes())

	s.logger.Debug("Schema loaded",
		slog.String("namespace", s.namespace),
		slog.Int("terms", len(ext.Terms)),
		slog.Int("classes", s.classGraph.NodeCount()),
		slog.Int("properties", s.propGraph.NodeCount()))
	return nil
}

// Namespace returns the prefix shared by every term id of the extension,
// or "" when the ids use several prefixes.
func (s *Schema) Namespace() string { return s.namespace }

// BaseNames returns the base vocabularies that were requested.
func (s *Schema) BaseNames() []string { return slices.Clone(s.baseNames) }

// Context returns the namespace table of the merged vocabulary.
func (s *Schema) Context() map[string]string { return s.classes.Context() }

// Validator returns the validator of the last load. In report mode its
// findings hold every problem found.
func (s *Schema) Validator() *validator.Validator { return s.validator }

// Vocabulary returns the merged vocabulary.
func (s *Schema) Vocabulary() *merge.Vocabulary { return s.vocab }

// Document returns a copy of the extension document as loaded.
func (s *Schema) Document() map[string]any {
	return document.DeepCopy(s.raw).(map[string]any)
}

// ListAllClasses returns the classes of the extension graph that take part
// in a hierarchy, or every class of the merged graph when includeBase is
// set.
func (s *Schema) ListAllClasses(includeBase bool) []*Class {
	g := s.extClasses
	if includeBase {
		g = s.classGraph
	}
	return s.newClasses(g.Nodes(), OutputCURIE)
}

// ListAllDefinedClasses returns the classes declared by the extension.
func (s *Schema) ListAllDefinedClasses() []*Class {
	return s.newClasses(s.definedIDs(document.KindClass), OutputCURIE)
}

// ListAllReferencedClasses returns classes used by the extension hierarchy
// without being declared in it.
func (s *Schema) ListAllReferencedClasses() []*Class {
	defined := make(map[string]bool)
	for _, id := range s.definedIDs(document.KindClass) {
		defined[id] = true
	}
	var ids []string
	for _, id := range s.extClasses.Nodes() {
		if !defined[id] {
			ids = append(ids, id)
		}
	}
	return s.newClasses(ids, OutputCURIE)
}

// ListAllProperties returns every property of the merged vocabulary.
func (s *Schema) ListAllProperties() []*Property {
	return s.newProperties(s.propGraph.Nodes(), OutputCURIE)
}

// ListAllDefinedProperties returns the properties declared by the
// extension.
func (s *Schema) ListAllDefinedProperties() []*Property {
	return s.newProperties(s.definedIDs(document.KindProperty), OutputCURIE)
}

// GetClass looks up a class by URI, CURIE or label. More than one class is
// returned only when a label is shared by several namespaces.
func (s *Schema) GetClass(name string) []*Class {
	res := s.classes.ToURI(name)
	if res.IsAmbiguous() {
		s.logger.Warn("Class label is ambiguous",
			slog.String("label", name),
			slog.Any("candidates", res.IDs()))
	}
	return s.newClasses(res.IDs(), OutputCURIE)
}

// GetProperty looks up a property by URI, CURIE or label.
func (s *Schema) GetProperty(name string) []*Property {
	res := s.properties.ToURI(name)
	if res.IsAmbiguous() {
		s.logger.Warn("Property label is ambiguous",
			slog.String("label", name),
			slog.Any("candidates", res.IDs()))
	}
	return s.newProperties(res.IDs(), OutputCURIE)
}

func (s *Schema) definedIDs(kind document.Kind) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, t := range s.ext.Terms {
		if t.Kind == kind && !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (s *Schema) newClasses(ids []string, output OutputType) []*Class {
	out := make([]*Class, 0, len(ids))
	for _, id := range ids {
		out = append(out, newClass(s, id, output))
	}
	return out
}

func (s *Schema) newProperties(ids []string, output OutputType) []*Property {
	out := make([]*Property, 0, len(ids))
	for _, id := range ids {
		out = append(out, newProperty(s, id, output))
	}
	return out
}

// renderClass renders a class id in the requested form.
func (s *Schema) renderClass(id string, output OutputType) string {
	return render(s.classes, id, output)
}

func (s *Schema) renderProperty(id string, output OutputType) string {
	return render(s.properties, id, output)
}

func render(c *curie.Converter, id string, output OutputType) string {
	switch output {
	case OutputURI:
		return c.URI(id)
	case OutputLabel:
		return c.Label(id)
	default:
		return c.CURIE(id)
	}
}

func (s *Schema) renderClasses(ids []string, output OutputType) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.renderClass(id, output))
	}
	return out
}

// detectNamespace returns the single prefix of the extension's CURIE ids.
func (s *Schema) detectNamespace(raw map[string]any) string {
	prefixes := document.Prefixes(raw)
	switch len(prefixes) {
	case 0:
		return ""
	case 1:
		return prefixes[0]
	}
	s.logger.Warn("Found multiple namespace prefixes defined in the schema",
		slog.String("prefixes", strings.Join(prefixes, ",")))
	return ""
}

// baseNames lists the @context prefixes that name base vocabularies,
// skipping common RDF namespaces and the extension's own prefix.
func baseNames(ctx map[string]string, namespace string) []string {
	var names []string
	for prefix := range ctx {
		if schemaorg.CommonNamespaces[prefix] || prefix == namespace {
			continue
		}
		names = append(names, prefix)
	}
	// schema.org loads first so later vocabularies override it.
	byPriority := func(a, b string) int {
		switch {
		case a == "schema":
			return -1
		case b == "schema":
			return 1
		}
		return strings.Compare(a, b)
	}
	slices.SortFunc(names, byPriority)
	return names
}

func rawContext(raw map[string]any) map[string]string {
	out := make(map[string]string)
	ctx, _ := raw["@context"].(map[string]any)
	for k, v := range ctx {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
