package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/validator"
)

// UpdateClass appends a class record to the extension document and reloads
// the schema. The record must satisfy the class term structure; the schema
// is unchanged when the record or the reloaded document fails validation.
func (s *Schema) UpdateClass(rec map[string]any) error {
	if err := validator.CheckClassRecord(rec); err != nil {
		return fmt.Errorf("invalid class: %w", err)
	}
	return s.appendRecord(rec)
}

// UpdateProperty appends a property record and reloads the schema.
func (s *Schema) UpdateProperty(rec map[string]any) error {
	if err := validator.CheckPropertyRecord(rec); err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}
	return s.appendRecord(rec)
}

func (s *Schema) appendRecord(rec map[string]any) error {
	raw := document.DeepCopy(s.raw).(map[string]any)
	graph, _ := raw["@graph"].([]any)
	raw["@graph"] = append(graph, document.DeepCopy(rec))
	if err := s.load(raw); err != nil {
		return err
	}
	s.logger.Info("Updated schema",
		slog.Any("id", rec["@id"]),
		slog.Any("label", rec["rdfs:label"]))
	return nil
}

// MarshalSchema renders the extension document as JSON indented by four
// spaces with sorted keys.
func (s *Schema) MarshalSchema() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.raw); err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportSchema writes the extension document to path.
func (s *Schema) ExportSchema(path string) error {
	data, err := s.MarshalSchema()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
