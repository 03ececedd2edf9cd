package validator

import "fmt"

// ErrorType classifies a validation finding.
type ErrorType string

// Finding types. MissingDomainIncludes, UndefinedRangeIncludes,
// MissingRangeIncludes and NonClassOrPropertyType are reported as warnings.
const (
	InvalidClassLabel       ErrorType = "invalid_class_label"
	InvalidPropertyLabel    ErrorType = "invalid_property_label"
	UnmatchedLabel          ErrorType = "unmatched_label"
	DuplicateLabel          ErrorType = "dup_label"
	UndefinedDomainIncludes ErrorType = "undefined_domainincludes_class"
	MissingDomainIncludes   ErrorType = "missing_domainincludes"
	UndefinedRangeIncludes  ErrorType = "undefined_rangeincludes"
	MissingRangeIncludes    ErrorType = "missing_rangeincludes"
	InvalidClass            ErrorType = "invalid_class"
	InvalidProperty         ErrorType = "invalid_property"
	InvalidSubClassOf       ErrorType = "invalid_subclassof"
	InvalidValidationSchema ErrorType = "invalid_validation_schema"
	NoPathToRoot            ErrorType = "no_path_to_root"
	NonClassOrPropertyType  ErrorType = "non_class_or_property_@type"
)

// Error is a single validation finding.
type Error struct {
	Message     string
	Type        ErrorType
	Field       string
	RecordID    string
	LongMessage string
	Warning     bool
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%q", e.Message)
	if e.Type != "" {
		msg += fmt.Sprintf(", error_type=%q", e.Type)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(", field=%q", e.Field)
	}
	if e.RecordID != "" {
		msg += fmt.Sprintf(", record_id=%q", e.RecordID)
	}
	return msg
}

// ToMap returns the external representation of the finding. Empty
// optional fields are omitted and warning is only present when true.
func (e *Error) ToMap() map[string]any {
	out := map[string]any{"message": e.Message}
	if e.Type != "" {
		out["error_type"] = string(e.Type)
	}
	if e.Field != "" {
		out["field"] = e.Field
	}
	if e.RecordID != "" {
		out["record_id"] = e.RecordID
	}
	if e.LongMessage != "" {
		out["long_message"] = e.LongMessage
	}
	if e.Warning {
		out["warning"] = true
	}
	return out
}
