package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/document"
)

func requiredFragment(fields ...string) map[string]any {
	required := make([]any, len(fields))
	props := make(map[string]any, len(fields))
	for i, f := range fields {
		required[i] = f
		props[f] = map[string]any{"type": "string"}
	}
	return map[string]any{"type": "object", "properties": props, "required": required}
}

func parseExtension(t *testing.T, records ...any) document.Document {
	t.Helper()
	doc, err := document.ParseWithContext(map[string]any{"@graph": records}, testContext)
	require.NoError(t, err)
	return doc
}

func TestInheritance_Transitive(t *testing.T) {
	ext := parseExtension(t,
		withValidation(classRecord("bts:A", "A", "schema:Thing"), requiredFragment("f1")),
		withValidation(classRecord("bts:B", "B", "bts:A"), requiredFragment("f2")),
		withValidation(classRecord("bts:C", "C", "bts:B"), requiredFragment("f3")),
	)

	side := Inheritance(ext)

	assert.ElementsMatch(t, []any{"f1"}, side[bts+"A"]["required"])
	assert.ElementsMatch(t, []any{"f1", "f2"}, side[bts+"B"]["required"])
	assert.ElementsMatch(t, []any{"f1", "f2", "f3"}, side[bts+"C"]["required"])
	assert.Len(t, side[bts+"C"]["properties"], 3)

	a, _ := ext.Term(bts + "A")
	assert.Equal(t, []any{"f1"}, a.Validation["required"], "document is not modified")
	c, _ := ext.Term(bts + "C")
	assert.Equal(t, []any{"f3"}, c.Validation["required"])
}

func TestInheritance_Diamond(t *testing.T) {
	ext := parseExtension(t,
		withValidation(classRecord("bts:A", "A", "schema:Thing"), requiredFragment("f1")),
		withValidation(classRecord("bts:B", "B", "bts:A"), requiredFragment("f2")),
		withValidation(classRecord("bts:C", "C", "bts:A"), requiredFragment("f3")),
		withValidation(classRecord("bts:D", "D", "bts:B", "bts:C"), requiredFragment("f4")),
	)

	side := Inheritance(ext)
	assert.Equal(t, []any{"f4", "f2", "f1", "f3"}, side[bts+"D"]["required"])
}

func TestInheritance_CycleTerminates(t *testing.T) {
	ext := parseExtension(t,
		withValidation(classRecord("bts:A", "A", "bts:B"), requiredFragment("f1")),
		withValidation(classRecord("bts:B", "B", "bts:A"), requiredFragment("f2")),
	)

	side := Inheritance(ext)
	assert.ElementsMatch(t, []any{"f1", "f2"}, side[bts+"A"]["required"])
	assert.ElementsMatch(t, []any{"f1", "f2"}, side[bts+"B"]["required"])
}

func TestInheritance_InheritedOnly(t *testing.T) {
	ext := parseExtension(t,
		withValidation(classRecord("bts:A", "A", "schema:Thing"), requiredFragment("f1")),
		classRecord("bts:B", "B", "bts:A"),
		classRecord("bts:Plain", "Plain", "schema:Thing"),
	)

	side := Inheritance(ext)
	assert.Equal(t, []any{"f1"}, side[bts+"B"]["required"])
	assert.NotContains(t, side, bts+"Plain")
}

func TestInheritance_NormalizedParentIDs(t *testing.T) {
	ext := parseExtension(t,
		withValidation(classRecord("https://schema.org/Base", "Base"), requiredFragment("f1")),
		withValidation(classRecord("bts:Child", "Child", "http://schema.org/Base/"), requiredFragment("f2")),
	)

	side := Inheritance(ext)
	assert.ElementsMatch(t, []any{"f1", "f2"}, side[bts+"Child"]["required"])
}

func TestValidate_UsesInheritedFragment(t *testing.T) {
	records := []any{
		withValidation(classRecord("bts:Gene", "Gene", "schema:Thing"), requiredFragment("symbol")),
		withValidation(classRecord("bts:Variant", "Variant", "bts:Gene"), requiredFragment("name")),
		propertyRecord("bts:symbol", "symbol", "bts:Gene", "schema:Text"),
	}

	v := newValidator(t, records)
	require.NoError(t, v.Validate())
	assert.ElementsMatch(t, []any{"name", "symbol"}, v.Fragment(bts + "Variant")["required"])

	v = newValidator(t, records, WithValidationMerge(false))
	require.NoError(t, v.Validate())
	assert.Equal(t, []any{"name"}, v.Fragment(bts + "Variant")["required"])
}
