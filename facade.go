package looker

import (
	"fmt"

	"github.com/goliatone/go-command"
	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-looker/adapters/gocommand"
	lookerquery "github.com/goliatone/go-looker/query"
)

type Queries = gocommand.LookerQueries

// Facade exposes the go-command query handlers bound to one executor.
type Facade struct {
	executor lookerquery.QueryExecutor
	queries  Queries
}

func NewFacade(executor lookerquery.QueryExecutor) (*Facade, error) {
	if executor == nil {
		return nil, fmt.Errorf("looker: query executor is required")
	}
	return &Facade{
		executor: executor,
		queries:  gocommand.NewLookerQueries(executor),
	}, nil
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Executor() lookerquery.QueryExecutor {
	if f == nil {
		return nil
	}
	return f.executor
}

// Subscribe registers the handlers returned by Queries on registry and on the
// go-command dispatcher. A nil registry gets a fresh one.
func (f *Facade) Subscribe(registry *command.Registry, runnerOpts ...runner.Option) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("looker: facade is nil")
	}
	return gocommand.RegisterLookerQueries(gocommand.NewRegistryAdapter(registry), f.queries, runnerOpts...)
}
