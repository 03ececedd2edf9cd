package validator

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/c360studio/semschema/curie"
	"github.com/c360studio/semschema/document"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// CheckIDLabelMatch requires the local name of the term id to equal its
// label.
func (v *Validator) CheckIDLabelMatch(t document.Term) error {
	name := curie.Label(t.ID)
	if name == t.Label {
		return nil
	}
	return v.report(&Error{
		Message:  fmt.Sprintf("id and label not match: %s", t.Label),
		Type:     UnmatchedLabel,
		RecordID: t.ID,
	})
}

// CheckDuplicateLabels requires labels to be unique across the extension
// document. All duplicates are reported in one finding.
func (v *Validator) CheckDuplicateLabels() error {
	counts := make(map[string]int)
	var dups []string
	for _, t := range v.ext.Terms {
		if t.Label == "" {
			continue
		}
		counts[t.Label]++
		if counts[t.Label] == 2 {
			dups = append(dups, t.Label)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Strings(dups)
	return v.report(&Error{
		Message: fmt.Sprintf("Duplicate labels detected in @graph: %s", strings.Join(dups, ", ")),
		Type:    DuplicateLabel,
		Field:   strings.Join(dups, ","),
	})
}

// ValidateClassLabel requires the local name of a class id to start with
// an uppercase letter.
func (v *Validator) ValidateClassLabel(id string) error {
	label := curie.Label(id)
	r, _ := utf8.DecodeRuneInString(label)
	if label != "" && unicode.IsUpper(r) {
		return nil
	}
	return v.report(&Error{
		Message:  fmt.Sprintf("Class label %s is incorrect. The first letter of each word should be capitalized.", label),
		Type:     InvalidClassLabel,
		RecordID: id,
	})
}

// ValidatePropertyLabel requires the local name of a property id to start
// with a lowercase letter.
func (v *Validator) ValidatePropertyLabel(id string) error {
	label := curie.Label(id)
	r, _ := utf8.DecodeRuneInString(label)
	if label != "" && unicode.IsLower(r) {
		return nil
	}
	return v.report(&Error{
		Message:  fmt.Sprintf("Property label %s is incorrect. The first letter of the first word should be lower case.", label),
		Type:     InvalidPropertyLabel,
		RecordID: id,
	})
}

// ValidateSubClassOf requires every subClassOf target to be a known class.
func (v *Validator) ValidateSubClassOf(t document.Term) error {
	for _, parent := range t.SubClassOf {
		if schemaorg.IgnoredParents[parent] || v.classes[parent] {
			continue
		}
		err := v.report(&Error{
			Message:  fmt.Sprintf("Value of subClassOf: %q is not defined in the schema.", parent),
			Type:     InvalidSubClassOf,
			Field:    parent,
			RecordID: t.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateDomainIncludes requires every domainIncludes target to be a
// known class. A property without domainIncludes is a warning.
func (v *Validator) ValidateDomainIncludes(t document.Term) error {
	if len(t.DomainIncludes) == 0 {
		return v.report(&Error{
			Message:  `Missing "domainIncludes"`,
			Type:     MissingDomainIncludes,
			RecordID: t.ID,
			Warning:  true,
		})
	}
	for _, cls := range t.DomainIncludes {
		if v.classes[cls] {
			continue
		}
		err := v.report(&Error{
			Message:  fmt.Sprintf("Value of domainIncludes: %q is not defined in the schema.", cls),
			Type:     UndefinedDomainIncludes,
			Field:    cls,
			RecordID: t.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateRangeIncludes reports rangeIncludes targets that are not known
// classes. Range findings are warnings only: ranges commonly point into
// foreign vocabularies.
func (v *Validator) ValidateRangeIncludes(t document.Term) error {
	if len(t.RangeIncludes) == 0 {
		return v.report(&Error{
			Message:  `Missing "rangeIncludes"`,
			Type:     MissingRangeIncludes,
			RecordID: t.ID,
			Warning:  true,
		})
	}
	for _, cls := range t.RangeIncludes {
		if v.classes[cls] {
			continue
		}
		// Warnings are never returned.
		_ = v.report(&Error{
			Message:  fmt.Sprintf("Value of rangeIncludes: %q is not defined in the schema.", cls),
			Type:     UndefinedRangeIncludes,
			Field:    cls,
			RecordID: t.ID,
			Warning:  true,
		})
	}
	return nil
}

// ValidateValidationField checks the effective $validation fragment of a
// class. The fragment needs a properties object, must be a valid JSON
// Schema, and every property it names must be the label of a property
// whose domain includes this class or a class on a path from the root to
// it.
func (v *Validator) ValidateValidationField(t document.Term) error {
	frag := v.Fragment(t.ID)
	if frag == nil {
		if !t.HasValidation {
			return nil
		}
		return v.report(&Error{
			Message:  fmt.Sprintf("%s field must be an object", schemaorg.ValidationField),
			Type:     InvalidValidationSchema,
			RecordID: t.ID,
		})
	}

	props, ok := frag["properties"].(map[string]any)
	if !ok {
		return v.report(&Error{
			Message:  fmt.Sprintf(`"properties" not found in %s field`, schemaorg.ValidationField),
			Type:     InvalidValidationSchema,
			RecordID: t.ID,
		})
	}

	if _, err := CompileFragment(frag); err != nil {
		if rerr := v.report(&Error{
			Message:     fmt.Sprintf("%s is not a valid JSON Schema", schemaorg.ValidationField),
			Type:        InvalidValidationSchema,
			RecordID:    t.ID,
			LongMessage: err.Error(),
		}); rerr != nil {
			return rerr
		}
	}

	lineage := v.lineage(t.ID)
	if len(lineage) == 0 {
		err := v.report(&Error{
			Message:  fmt.Sprintf("Class %q has no path to the root %q class", t.ID, v.root),
			Type:     NoPathToRoot,
			RecordID: t.ID,
		})
		if err != nil {
			return err
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if v.definedOnLineage(name, lineage) {
			continue
		}
		err := v.report(&Error{
			Message:  fmt.Sprintf("field %q in %s is not defined in this class or any of its parent classes", name, schemaorg.ValidationField),
			Type:     InvalidValidationSchema,
			Field:    name,
			RecordID: t.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// lineage returns every node on a simple path from the root to id,
// including both ends.
func (v *Validator) lineage(id string) map[string]bool {
	if id == v.root {
		return map[string]bool{id: true}
	}
	out := make(map[string]bool)
	for _, path := range v.vocab.Graph.AllSimplePaths(v.root, id) {
		for _, node := range path {
			out[node] = true
		}
	}
	return out
}

func (v *Validator) definedOnLineage(label string, lineage map[string]bool) bool {
	for _, t := range v.terms {
		if t.Label != label {
			continue
		}
		for _, cls := range t.DomainIncludes {
			if lineage[cls] {
				return true
			}
		}
	}
	return false
}
