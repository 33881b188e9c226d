package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-looker/core"
	lookerquery "github.com/goliatone/go-looker/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

// Query checks the message contract before dispatching msg.
func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	if err := ValidateMessageContract(msg); err != nil {
		var zero R
		return zero, err
	}
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Subscriptions groups the dispatcher subscriptions of the looker queries.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// LookerQueries is one set of looker query handlers.
type LookerQueries struct {
	Execute *lookerquery.ExecuteQueryQuery
	Build   *lookerquery.BuildQueryQuery
	Run     *lookerquery.RunQueryQuery
}

// NewLookerQueries binds the execute and run handlers to executor.
func NewLookerQueries(executor lookerquery.QueryExecutor) LookerQueries {
	return LookerQueries{
		Execute: lookerquery.NewExecuteQueryQuery(executor),
		Build:   lookerquery.NewBuildQueryQuery(),
		Run:     lookerquery.NewRunQueryQuery(executor),
	}
}

// RegisterLookerQueries registers queries on adapter and subscribes the same
// handler instances on the global dispatcher, then initializes the registry.
// Nothing stays subscribed when an error is returned.
func RegisterLookerQueries(adapter *RegistryAdapter, queries LookerQueries, runnerOpts ...runner.Option) (Subscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if queries.Execute == nil || queries.Build == nil || queries.Run == nil {
		return nil, fmt.Errorf("gocommand: execute, build and run queries are required")
	}

	subscriptions := make(Subscriptions, 0, 3)
	steps := []func() (commanddispatcher.Subscription, error){
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[lookerquery.ExecuteQueryMessage, core.Response](adapter, queries.Execute, runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[lookerquery.BuildQueryMessage, *core.Query](adapter, queries.Build, runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[lookerquery.RunQueryMessage, string](adapter, queries.Run, runnerOpts...)
		},
	}
	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			subscriptions.Unsubscribe()
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	if err := adapter.Initialize(); err != nil {
		subscriptions.Unsubscribe()
		return nil, err
	}
	return subscriptions, nil
}

// SubscribeLookerQueries registers fresh handlers bound to executor on a new
// registry.
func SubscribeLookerQueries(executor lookerquery.QueryExecutor, runnerOpts ...runner.Option) (Subscriptions, error) {
	if executor == nil {
		return nil, fmt.Errorf("gocommand: query executor is required")
	}
	return RegisterLookerQueries(NewRegistryAdapter(nil), NewLookerQueries(executor), runnerOpts...)
}
