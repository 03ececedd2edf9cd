package validator

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360studio/semschema/document"
)

var (
	//go:embed schemas/class.json
	classSchemaJSON []byte

	//go:embed schemas/property.json
	propertySchemaJSON []byte

	classSchema    = mustSchema(classSchemaJSON)
	propertySchema = mustSchema(propertySchemaJSON)
)

func mustSchema(b []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic("invalid structural schema: " + err.Error())
	}
	return s
}

// ValidateClassStructure checks a class record against the class term
// schema.
func (v *Validator) ValidateClassStructure(t document.Term) error {
	if err := checkStructure(classSchema, t.Raw); err != nil {
		return v.report(&Error{
			Message:     "class record does not match the class schema",
			Type:        InvalidClass,
			RecordID:    t.ID,
			LongMessage: err.Error(),
		})
	}
	return nil
}

// ValidatePropertyStructure checks a property record against the property
// term schema.
func (v *Validator) ValidatePropertyStructure(t document.Term) error {
	if err := checkStructure(propertySchema, t.Raw); err != nil {
		return v.report(&Error{
			Message:     "property record does not match the property schema",
			Type:        InvalidProperty,
			RecordID:    t.ID,
			LongMessage: err.Error(),
		})
	}
	return nil
}

// CheckClassRecord checks a raw class record against the class term schema.
func CheckClassRecord(rec map[string]any) error {
	return checkStructure(classSchema, rec)
}

// CheckPropertyRecord checks a raw property record against the property
// term schema.
func CheckPropertyRecord(rec map[string]any) error {
	return checkStructure(propertySchema, rec)
}

func checkStructure(schema *gojsonschema.Schema, rec map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(rec))
	if err != nil {
		return err
	}
	return resultError(result)
}

// resultError joins the errors of a failed gojsonschema result. It
// returns nil for a valid result.
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// CompileFragment checks fragment against the JSON Schema meta-schema and
// compiles it. The $schema keyword is ignored: fragments are checked as
// draft-07 regardless of the draft they declare.
func CompileFragment(fragment map[string]any) (*gojsonschema.Schema, error) {
	doc, _ := document.DeepCopy(fragment).(map[string]any)
	delete(doc, "$schema")

	loader := gojsonschema.NewSchemaLoader()
	loader.Validate = true
	loader.Draft = gojsonschema.Draft7
	return loader.Compile(gojsonschema.NewGoLoader(doc))
}

// ValidateInstance validates instance against fragment.
func ValidateInstance(fragment map[string]any, instance any) error {
	schema, err := CompileFragment(fragment)
	if err != nil {
		return fmt.Errorf("compile validation schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(instance))
	if err != nil {
		return fmt.Errorf("validate instance: %w", err)
	}
	return resultError(result)
}
