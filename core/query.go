package core

import (
	"net/http"
	"net/url"
)

type FieldDataAttribute string

const (
	FieldDataLabel FieldDataAttribute = "label"
	FieldDataName  FieldDataAttribute = "name"
	FieldDataType  FieldDataAttribute = "type"
)

type DataFormat string

const (
	DataFormatValue    DataFormat = "value"
	DataFormatRendered DataFormat = "rendered"
	DataFormatHTML     DataFormat = "html"
)

var (
	validFieldData   = []FieldDataAttribute{FieldDataLabel, FieldDataName, FieldDataType}
	validDataFormats = []DataFormat{DataFormatValue, DataFormatRendered, DataFormatHTML}
)

const queryPathPrefix = "/api/dictionaries/"

// QueryOptions is the caller supplied description of a dictionary query.
// Nil slices, a nil Limit and an empty Sorts are treated as absent.
type QueryOptions struct {
	Credential  *Credential
	Dictionary  string
	Query       string
	Fields      []string
	Filters     map[string]string
	Limit       *int
	FieldData   []FieldDataAttribute
	DataFormats []DataFormat
	Sorts       string
}

// RowLimit returns a pointer suitable for QueryOptions.Limit.
func RowLimit(n int) *int {
	return &n
}

// Query is a validated, immutable dictionary query. The zero value is not
// usable; build one with NewQuery.
type Query struct {
	credential  *Credential
	dictionary  string
	name        string
	fields      []string
	filters     map[string]string
	limit       *int
	fieldData   []FieldDataAttribute
	dataFormats []DataFormat
	sorts       string
}

// NewQuery validates opts and returns a Query, or a validation error and no
// Query at all.
func NewQuery(opts QueryOptions) (*Query, error) {
	if err := ValidateQueryOptions(opts); err != nil {
		return nil, err
	}

	q := &Query{
		credential:  opts.Credential,
		dictionary:  opts.Dictionary,
		name:        opts.Query,
		fields:      append([]string(nil), opts.Fields...),
		fieldData:   cloneFieldData(opts.FieldData),
		dataFormats: cloneDataFormats(opts.DataFormats),
		sorts:       opts.Sorts,
	}
	if opts.Filters != nil {
		q.filters = cloneFilters(opts.Filters)
	}
	if opts.Limit != nil {
		limit := *opts.Limit
		q.limit = &limit
	}
	return q, nil
}

// NewQueryFromMap decodes loosely typed options and validates them.
func NewQueryFromMap(cred *Credential, raw map[string]any) (*Query, error) {
	opts, err := DecodeQueryOptions(raw)
	if err != nil {
		return nil, err
	}
	if opts.Credential == nil {
		opts.Credential = cred
	}
	return NewQuery(opts)
}

func (q *Query) Credential() *Credential {
	if q == nil {
		return nil
	}
	return q.credential
}

func (q *Query) Dictionary() string {
	if q == nil {
		return ""
	}
	return q.dictionary
}

func (q *Query) Name() string {
	if q == nil {
		return ""
	}
	return q.name
}

func (q *Query) Fields() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.fields...)
}

// Filters returns a copy of the filters, or nil when none were supplied.
func (q *Query) Filters() map[string]string {
	if q == nil || q.filters == nil {
		return nil
	}
	return cloneFilters(q.filters)
}

func (q *Query) Limit() (int, bool) {
	if q == nil || q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}

func (q *Query) FieldData() []FieldDataAttribute {
	if q == nil {
		return nil
	}
	return cloneFieldData(q.fieldData)
}

func (q *Query) DataFormats() []DataFormat {
	if q == nil {
		return nil
	}
	return cloneDataFormats(q.dataFormats)
}

func (q *Query) Sorts() string {
	if q == nil {
		return ""
	}
	return q.sorts
}

func (*Query) Method() string {
	return http.MethodGet
}

// Path is the resource path of the query, without any base path taken from
// the credential host.
func (q *Query) Path() string {
	if q == nil {
		return ""
	}
	return queryPathPrefix + url.PathEscape(q.dictionary) + "/queries/" + url.PathEscape(q.name)
}

// Canonical returns the canonical query string that is both sent and signed.
func (q *Query) Canonical() string {
	return CanonicalQueryString(q)
}

func cloneFilters(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for key, value := range filters {
		out[key] = value
	}
	return out
}

func cloneFieldData(values []FieldDataAttribute) []FieldDataAttribute {
	if values == nil {
		return nil
	}
	return append([]FieldDataAttribute{}, values...)
}

func cloneDataFormats(values []DataFormat) []DataFormat {
	if values == nil {
		return nil
	}
	return append([]DataFormat{}, values...)
}
