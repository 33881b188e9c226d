package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeQueryOptions converts loosely typed input, such as decoded JSON or
// YAML, into QueryOptions. Type errors and value errors are reported in the
// same order ValidateQueryOptions uses. The singular "sort" key is accepted
// when "sorts" is absent.
func DecodeQueryOptions(raw map[string]any) (QueryOptions, error) {
	opts := QueryOptions{}

	fields, ok := toStringSlice(raw["fields"])
	if !ok {
		return QueryOptions{}, validationError("fields", "fields must be an array of strings")
	}
	if err := validateFields(fields); err != nil {
		return QueryOptions{}, err
	}
	opts.Fields = fields

	if value, present := lookup(raw, "limit"); present {
		limit, err := coerceLimit(value)
		if err != nil {
			return QueryOptions{}, err
		}
		if err := validateLimit(limit); err != nil {
			return QueryOptions{}, err
		}
		opts.Limit = RowLimit(limit)
	}

	for _, key := range []string{"dictionary", "query"} {
		value, ok := raw[key].(string)
		if !ok {
			return QueryOptions{}, validationError(key, key+" must be a string")
		}
		if err := validateName(key, value); err != nil {
			return QueryOptions{}, err
		}
		if key == "dictionary" {
			opts.Dictionary = value
		} else {
			opts.Query = value
		}
	}

	if value, present := lookup(raw, "field_data"); present {
		items, ok := toStringSlice(value)
		if !ok {
			return QueryOptions{}, validationError("field_data", "field data must be an array")
		}
		fieldData := make([]FieldDataAttribute, 0, len(items))
		for _, item := range items {
			fieldData = append(fieldData, FieldDataAttribute(item))
		}
		if err := validateFieldData(fieldData); err != nil {
			return QueryOptions{}, err
		}
		opts.FieldData = fieldData
	}

	if value, present := lookup(raw, "data_formats"); present {
		items, ok := toStringSlice(value)
		if !ok {
			return QueryOptions{}, validationError("data_formats", "data formats must be an array")
		}
		formats := make([]DataFormat, 0, len(items))
		for _, item := range items {
			formats = append(formats, DataFormat(item))
		}
		if err := validateDataFormats(formats); err != nil {
			return QueryOptions{}, err
		}
		opts.DataFormats = formats
	}

	sortsValue, present := lookup(raw, "sorts")
	if !present {
		sortsValue, present = lookup(raw, "sort")
	}
	if present {
		sorts, ok := sortsValue.(string)
		if !ok {
			return QueryOptions{}, validationError("sorts", "sorts must be a string")
		}
		if err := validateSorts(sorts); err != nil {
			return QueryOptions{}, err
		}
		opts.Sorts = sorts
	}

	if value, present := lookup(raw, "filters"); present {
		filters, err := toFilters(value)
		if err != nil {
			return QueryOptions{}, err
		}
		opts.Filters = filters
	}

	if value, present := lookup(raw, "credentials"); present {
		switch typed := value.(type) {
		case *Credential:
			opts.Credential = typed
		case Credential:
			opts.Credential = &typed
		case map[string]any:
			opts.Credential = CredentialFromMap(typed)
		default:
			return QueryOptions{}, validationError("credentials", "credentials must be a credential or an object")
		}
	}

	return opts, nil
}

func lookup(raw map[string]any, key string) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func toStringSlice(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...), true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	case []FieldDataAttribute:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, string(item))
		}
		return out, true
	case []DataFormat:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, string(item))
		}
		return out, true
	default:
		return nil, false
	}
}

// coerceLimit accepts any numeric value or numeric string holding a whole
// number within int32 range. This is narrower than "interpretable as a
// number": fractional values such as 1.5, values beyond int32 and the empty
// string are rejected as validation errors on limit rather than truncated or
// coerced to 0.
func coerceLimit(value any) (int, error) {
	var number float64
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int8:
		return int(typed), nil
	case int16:
		return int(typed), nil
	case int32:
		return int(typed), nil
	case int64:
		number = float64(typed)
	case uint:
		number = float64(typed)
	case uint8:
		return int(typed), nil
	case uint16:
		return int(typed), nil
	case uint32:
		number = float64(typed)
	case uint64:
		number = float64(typed)
	case float32:
		number = float64(typed)
	case float64:
		number = typed
	case json.Number:
		parsed, err := strconv.ParseFloat(typed.String(), 64)
		if err != nil {
			return 0, validationError("limit", "limit must be a number")
		}
		number = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, validationError("limit", "limit must be a number")
		}
		number = parsed
	default:
		return 0, validationError("limit", "limit must be a number")
	}

	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, validationError("limit", "limit must be a number")
	}
	if number != math.Trunc(number) {
		return 0, validationError("limit", fmt.Sprintf("limit must be a whole number, got %v", number))
	}
	if number > math.MaxInt32 || number < math.MinInt32 {
		return 0, validationError("limit", "limit is out of range")
	}
	return int(number), nil
}

func toFilters(value any) (map[string]string, error) {
	switch typed := value.(type) {
	case map[string]string:
		return cloneFilters(typed), nil
	case map[string]any:
		out := make(map[string]string, len(typed))
		for key, item := range typed {
			switch scalar := item.(type) {
			case string:
				out[key] = scalar
			case bool, int, int32, int64, float32, float64, json.Number:
				out[key] = fmt.Sprint(scalar)
			default:
				return nil, validationError("filters", fmt.Sprintf("filter %q must be a scalar value", key))
			}
		}
		return out, nil
	default:
		return nil, validationError("filters", "filters must be an object")
	}
}
