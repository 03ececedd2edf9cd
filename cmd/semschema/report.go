package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semschema/schema"
	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/validator"
)

// Report is the result of validating a set of documents.
type Report struct {
	ID          string           `json:"report_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Valid       bool             `json:"valid"`
	Documents   []DocumentReport `json:"documents"`
}

// DocumentReport holds the findings for one document. LoadError is set
// when the document could not be loaded at all.
type DocumentReport struct {
	Source     string           `json:"source"`
	Namespace  string           `json:"namespace,omitempty"`
	Valid      bool             `json:"valid"`
	LoadError  string           `json:"load_error,omitempty"`
	Errors     []map[string]any `json:"errors"`
	Warnings   []map[string]any `json:"warnings"`
	Classes    int              `json:"classes"`
	Properties int              `json:"properties"`
}

// validate loads every document matched by patterns in report mode and
// collects the findings.
func (a *app) validate(ctx context.Context, patterns []string) (*Report, error) {
	files, err := source.ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Valid:       true,
		Documents:   make([]DocumentReport, 0, len(files)),
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := a.validateOne(ctx, file)
		if !doc.Valid {
			report.Valid = false
		}
		report.Documents = append(report.Documents, doc)
	}

	a.logger.Debug("Validation finished",
		slog.String("report_id", report.ID),
		slog.Int("documents", len(report.Documents)),
		slog.Bool("valid", report.Valid))
	return report, nil
}

func (a *app) validateOne(ctx context.Context, src string) DocumentReport {
	doc := DocumentReport{
		Source:   src,
		Errors:   []map[string]any{},
		Warnings: []map[string]any{},
	}

	s, err := schema.New(ctx, src, a.schemaOptions(validator.WithRaiseOnError(false))...)
	if err != nil {
		var verr *validator.Error
		if errors.As(err, &verr) {
			doc.Errors = append(doc.Errors, verr.ToMap())
		} else {
			doc.LoadError = err.Error()
		}
		return doc
	}
	defer s.Close()

	v := s.Validator()
	for _, e := range v.Errors() {
		doc.Errors = append(doc.Errors, e.ToMap())
	}
	for _, w := range v.Warnings() {
		doc.Warnings = append(doc.Warnings, w.ToMap())
	}
	doc.Namespace = s.Namespace()
	doc.Valid = len(doc.Errors) == 0
	doc.Classes = len(s.ListAllDefinedClasses())
	doc.Properties = len(s.ListAllDefinedProperties())
	return doc
}

// describe returns the description of the class or property named by
// name, one entry per match.
func describe(s *schema.Schema, name string, property bool, output schema.OutputType) []map[string]any {
	var out []map[string]any
	if property {
		for _, p := range s.GetProperty(name) {
			out = append(out, withName(p.Name, p.Defined(), p.As(output).Describe()))
		}
		return out
	}
	for _, c := range s.GetClass(name) {
		out = append(out, withName(c.Name, c.Defined(), c.As(output).Describe()))
	}
	return out
}

func withName(name string, defined bool, d map[string]any) map[string]any {
	d["name"] = name
	d["defined"] = defined
	return d
}
