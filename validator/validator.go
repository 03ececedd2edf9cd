// Package validator checks an extension vocabulary against structural
// rules, validates the $validation fragments attached to its classes and
// materializes the inheritance of those fragments.
//
// A Validator runs in one of two modes. In fail-fast mode (the default)
// the first error stops validation and is returned. In report mode every
// finding is collected. Warnings are always collected and never returned.
package validator

import (
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/merge"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Option configures a Validator.
type Option func(*Validator)

// WithRaiseOnError selects fail-fast (true) or report (false) mode.
func WithRaiseOnError(raise bool) Option {
	return func(v *Validator) { v.raiseOnError = raise }
}

// WithValidationMerge toggles inheritance of $validation fragments.
func WithValidationMerge(enabled bool) Option {
	return func(v *Validator) { v.validationMerge = enabled }
}

// WithSubClassCheck enables the check that every subClassOf target is a
// known class.
func WithSubClassCheck(enabled bool) Option {
	return func(v *Validator) { v.checkSubClassOf = enabled }
}

// WithRoot sets the class every $validation class must descend from.
func WithRoot(id string) Option {
	return func(v *Validator) {
		if id != "" {
			v.root = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMetrics enables finding counters.
func WithMetrics(m *Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// Validator validates one extension document against a merged vocabulary.
type Validator struct {
	ext   document.Document
	vocab *merge.Vocabulary

	raiseOnError    bool
	validationMerge bool
	checkSubClassOf bool
	root            string
	logger          *slog.Logger
	metrics         *Metrics

	classes    map[string]bool
	properties map[string]bool
	terms      []document.Term

	inherited map[string]map[string]any
	findings  []*Error
}

// New creates a validator for ext. vocab must be the merge of ext with
// its base vocabulary.
func New(ext document.Document, vocab *merge.Vocabulary, opts ...Option) *Validator {
	v := &Validator{
		ext:             ext,
		vocab:           vocab,
		raiseOnError:    true,
		validationMerge: true,
		root:            schemaorg.Thing,
		logger:          slog.Default(),
		classes:         make(map[string]bool),
		properties:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.terms = vocab.AllTerms()
	for _, t := range v.terms {
		switch t.Kind {
		case document.KindClass, document.KindDataType:
			v.classes[t.ID] = true
		case document.KindProperty:
			v.properties[t.ID] = true
		}
	}
	return v
}

// Validate runs every check over the extension document. In fail-fast
// mode the first error is returned as an *Error. Findings from an earlier
// run are discarded.
func (v *Validator) Validate() error {
	v.findings = nil
	v.metrics.observeRun()

	if err := v.CheckDuplicateLabels(); err != nil {
		return err
	}

	v.inherited = nil
	if v.validationMerge {
		v.inherited = Inheritance(v.ext)
	}

	for _, t := range v.ext.Terms {
		if err := v.validateTerm(t); err != nil {
			return err
		}
	}

	v.logger.Debug("Vocabulary validated",
		slog.Int("terms", len(v.ext.Terms)),
		slog.Int("errors", len(v.Errors())),
		slog.Int("warnings", len(v.Warnings())))
	return nil
}

func (v *Validator) validateTerm(t document.Term) error {
	if err := v.CheckIDLabelMatch(t); err != nil {
		return err
	}

	var checks []func() error
	switch t.Kind {
	case document.KindClass:
		checks = []func() error{
			func() error { return v.ValidateClassStructure(t) },
			func() error { return v.ValidateClassLabel(t.ID) },
		}
		if v.checkSubClassOf {
			checks = append(checks, func() error { return v.ValidateSubClassOf(t) })
		}
		checks = append(checks, func() error { return v.ValidateValidationField(t) })
	case document.KindProperty:
		checks = []func() error{
			func() error { return v.ValidatePropertyStructure(t) },
			func() error { return v.ValidatePropertyLabel(t.ID) },
			func() error { return v.ValidateDomainIncludes(t) },
			func() error { return v.ValidateRangeIncludes(t) },
		}
	default:
		return v.report(&Error{
			Message:  "@type is neither rdfs:Class nor rdf:Property: " + t.ID,
			Type:     NonClassOrPropertyType,
			RecordID: t.ID,
			Warning:  true,
		})
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// report records a finding. Errors are returned in fail-fast mode.
func (v *Validator) report(e *Error) error {
	v.metrics.observe(e)
	if !e.Warning && v.raiseOnError {
		return e
	}
	v.findings = append(v.findings, e)
	v.logger.Debug("Validation finding",
		slog.String("error_type", string(e.Type)),
		slog.String("record_id", e.RecordID),
		slog.Bool("warning", e.Warning))
	return nil
}

// Findings returns every collected finding in report order.
func (v *Validator) Findings() []*Error {
	return append([]*Error(nil), v.findings...)
}

// Errors returns the collected findings that are not warnings.
func (v *Validator) Errors() []*Error {
	var out []*Error
	for _, e := range v.findings {
		if !e.Warning {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the collected warnings.
func (v *Validator) Warnings() []*Error {
	var out []*Error
	for _, e := range v.findings {
		if e.Warning {
			out = append(out, e)
		}
	}
	return out
}

// Err aggregates the collected errors, or returns nil when there are none.
func (v *Validator) Err() error {
	var result *multierror.Error
	for _, e := range v.Errors() {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}

// Fragment returns the effective $validation fragment of a class: the
// inherited fragment when inheritance is enabled, otherwise the class's
// own fragment.
func (v *Validator) Fragment(id string) map[string]any {
	if frag, ok := v.inherited[id]; ok {
		return frag
	}
	if t, ok := v.ext.Term(id); ok {
		return t.Validation
	}
	return nil
}

// IsClass reports whether id is a known class or datatype.
func (v *Validator) IsClass(id string) bool { return v.classes[id] }

// IsProperty reports whether id is a known property.
func (v *Validator) IsProperty(id string) bool { return v.properties[id] }
