package query

import (
	"context"

	"github.com/goliatone/go-looker/core"
)

type QueryExecutor interface {
	Do(ctx context.Context, q *core.Query) (core.Response, error)
}

type ExecuteQueryQuery struct {
	executor QueryExecutor
}

func NewExecuteQueryQuery(executor QueryExecutor) *ExecuteQueryQuery {
	return &ExecuteQueryQuery{executor: executor}
}

func (q *ExecuteQueryQuery) Query(ctx context.Context, msg ExecuteQueryMessage) (core.Response, error) {
	if q == nil || q.executor == nil {
		return core.Response{}, queryDependencyError("query: executor is required")
	}
	if err := msg.Validate(); err != nil {
		return core.Response{}, err
	}
	return q.executor.Do(ctx, msg.Query)
}

type BuildQueryQuery struct{}

func NewBuildQueryQuery() *BuildQueryQuery {
	return &BuildQueryQuery{}
}

func (*BuildQueryQuery) Query(_ context.Context, msg BuildQueryMessage) (*core.Query, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return core.NewQueryFromMap(msg.Credential, msg.Options)
}

type RunQueryQuery struct {
	executor QueryExecutor
}

func NewRunQueryQuery(executor QueryExecutor) *RunQueryQuery {
	return &RunQueryQuery{executor: executor}
}

func (q *RunQueryQuery) Query(ctx context.Context, msg RunQueryMessage) (string, error) {
	if q == nil || q.executor == nil {
		return "", queryDependencyError("query: executor is required")
	}
	built, err := (&BuildQueryQuery{}).Query(ctx, BuildQueryMessage(msg))
	if err != nil {
		return "", err
	}
	res, err := q.executor.Do(ctx, built)
	if err != nil {
		return "", err
	}
	return string(res.Body), nil
}
