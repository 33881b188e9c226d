package core

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// CanonicalQueryString serializes q into the exact query string that is
// transmitted and signed. Sections appear in a fixed order and absent
// parameters are omitted:
//
//	data_formats, f[...] filters, field_data, fields, limit, sorts
func CanonicalQueryString(q *Query) string {
	if q == nil {
		return ""
	}
	sections := make([]string, 0, 6)

	if len(q.dataFormats) > 0 {
		sections = append(sections, "data_formats="+joinDataFormats(q.dataFormats))
	}
	if filters := CanonicalFilters(q.filters); len(filters) > 0 {
		sections = append(sections, strings.Join(filters, "&"))
	}
	if len(q.fieldData) > 0 {
		sections = append(sections, "field_data="+joinFieldData(q.fieldData))
	}

	fields := make([]string, 0, len(q.fields))
	for _, field := range q.fields {
		fields = append(fields, strings.ToLower(field))
	}
	sections = append(sections, "fields="+strings.Join(fields, ","))

	if q.limit != nil {
		sections = append(sections, "limit="+strconv.Itoa(*q.limit))
	}
	if q.sorts != "" {
		sections = append(sections, "sorts="+canonicalSorts(q.sorts))
	}
	return strings.Join(sections, "&")
}

// canonicalSorts escapes each comma separated term so the direction
// separator travels as %20 and the request line stays valid.
func canonicalSorts(sorts string) string {
	terms := strings.Split(sorts, ",")
	for i, term := range terms {
		terms[i] = QueryEscape(term)
	}
	return strings.Join(terms, ",")
}

// CanonicalFilters renders each filter as f[<escaped lowercased key>]=<escaped
// value> and sorts the rendered pairs as whole strings, so the result does not depend
// on map iteration order.
func CanonicalFilters(filters map[string]string) []string {
	if len(filters) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(filters))
	for key, value := range filters {
		pairs = append(pairs, "f["+QueryEscape(strings.ToLower(key))+"]="+QueryEscape(value))
	}
	sort.Strings(pairs)
	return pairs
}

// QueryEscape percent-encodes a filter key, filter value or sort term. Spaces become %20 and the
// characters ! ' ( ) * are left as is, matching what the query API expects.
func QueryEscape(value string) string {
	escaped := url.QueryEscape(value)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "%21", "!")
	escaped = strings.ReplaceAll(escaped, "%27", "'")
	escaped = strings.ReplaceAll(escaped, "%28", "(")
	escaped = strings.ReplaceAll(escaped, "%29", ")")
	escaped = strings.ReplaceAll(escaped, "%2A", "*")
	return escaped
}
