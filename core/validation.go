package core

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifiers may be dotted view.field names.
var sortsPattern = regexp.MustCompile(`^[\w.]+(?: (?:a|de)sc)?(?:,[\w.]+(?: (?:a|de)sc)?)*$`)

// ValidateQueryOptions checks opts and reports the first violation as a
// validation error. Checks run in a fixed order: fields, limit, dictionary,
// query, field data, data formats, sorts, credentials.
func ValidateQueryOptions(opts QueryOptions) error {
	if err := validateFields(opts.Fields); err != nil {
		return err
	}
	if opts.Limit != nil {
		if err := validateLimit(*opts.Limit); err != nil {
			return err
		}
	}
	if err := validateName("dictionary", opts.Dictionary); err != nil {
		return err
	}
	if err := validateName("query", opts.Query); err != nil {
		return err
	}
	if err := validateFieldData(opts.FieldData); err != nil {
		return err
	}
	if err := validateDataFormats(opts.DataFormats); err != nil {
		return err
	}
	if opts.Sorts != "" {
		if err := validateSorts(opts.Sorts); err != nil {
			return err
		}
	}
	if opts.Credential == nil {
		return validationError("credentials", "credentials are required")
	}
	return nil
}

func validateFields(fields []string) error {
	if len(fields) == 0 {
		return validationError("fields", "at least one field must be specified")
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < 0 {
		return validationError("limit", "limit must be greater or equal to 0")
	}
	return nil
}

func validateName(field string, value string) error {
	if value == "" {
		return validationError(field, field+" must not be empty")
	}
	return nil
}

func validateFieldData(values []FieldDataAttribute) error {
	for _, value := range values {
		if !containsFieldData(value) {
			return validationError("field_data", fmt.Sprintf(
				"invalid field data %q; valid fields are: %s", value, joinFieldData(validFieldData)))
		}
	}
	return nil
}

func validateDataFormats(values []DataFormat) error {
	for _, value := range values {
		if !containsDataFormat(value) {
			return validationError("data_formats", fmt.Sprintf(
				"invalid data format %q; valid formats are: %s", value, joinDataFormats(validDataFormats)))
		}
	}
	return nil
}

func validateSorts(sorts string) error {
	if sorts == "" {
		return validationError("sorts", "sorts must not be empty")
	}
	if !sortsPattern.MatchString(sorts) {
		return validationError("sorts", fmt.Sprintf("sorts %q is not valid", sorts))
	}
	return nil
}

func containsFieldData(value FieldDataAttribute) bool {
	for _, valid := range validFieldData {
		if value == valid {
			return true
		}
	}
	return false
}

func containsDataFormat(value DataFormat) bool {
	for _, valid := range validDataFormats {
		if value == valid {
			return true
		}
	}
	return false
}

func joinFieldData(values []FieldDataAttribute) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, string(value))
	}
	return strings.Join(parts, ",")
}

func joinDataFormats(values []DataFormat) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, string(value))
	}
	return strings.Join(parts, ",")
}
