package query

import (
	"github.com/goliatone/go-looker/core"
)

const (
	TypeExecuteQuery = "looker.query.execute"
	TypeBuildQuery   = "looker.query.build"
	TypeRunQuery     = "looker.query.run"
)

// ExecuteQueryMessage executes an already validated query.
type ExecuteQueryMessage struct {
	Query *core.Query
}

func (ExecuteQueryMessage) Type() string { return TypeExecuteQuery }

func (m ExecuteQueryMessage) Validate() error {
	if m.Query == nil {
		return queryValidationError("query", "query is required")
	}
	return nil
}

// BuildQueryMessage validates loosely typed options into a Query. Credential
// is used when Options carries no credentials entry.
type BuildQueryMessage struct {
	Credential *core.Credential
	Options    map[string]any
}

func (BuildQueryMessage) Type() string { return TypeBuildQuery }

func (m BuildQueryMessage) Validate() error {
	if m.Options == nil {
		return queryValidationError("options", "options are required")
	}
	return nil
}

// RunQueryMessage builds and executes in one step and yields the raw body.
type RunQueryMessage struct {
	Credential *core.Credential
	Options    map[string]any
}

func (RunQueryMessage) Type() string { return TypeRunQuery }

func (m RunQueryMessage) Validate() error {
	return BuildQueryMessage(m).Validate()
}
