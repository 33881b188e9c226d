package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-looker/core"
)

var (
	_ gocmd.Querier[ExecuteQueryMessage, core.Response] = (*ExecuteQueryQuery)(nil)
	_ gocmd.Querier[BuildQueryMessage, *core.Query]     = (*BuildQueryQuery)(nil)
	_ gocmd.Querier[RunQueryMessage, string]            = (*RunQueryQuery)(nil)
	_ QueryExecutor                                     = (*core.Client)(nil)
)
