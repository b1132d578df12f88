// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"github.com/savaki/bucket-hardener/internal/policy"
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error
}

// MustGet returns an instance constructed via dependency injection or panics.
//
// Example:
//
//	handler := MustGet[*provision.Handler](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// New creates a new dependency injection container for the given environment.
// The environment string is registered as a plain string dependency; it
// selects the Parameter Store path the configuration is read from.
func New(env string, opts ...Option) (Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.appID == "" {
		o.appID = defaultAppID
	}

	container := dig.New()
	if err := container.Provide(func() string { return env }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() AppID { return o.appID }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Endpoint { return o.endpoint }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Output { return o.output }); err != nil {
		return nil, err
	}

	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideLogger,
	ProvideContext,
	ProvideAWSConfig,
	ProvideAmplifyClient,
	ProvideS3Client,
	ProvideSTSClient,
	ProvideSSMClient,
	ProvideParameterStore,
	ProvideAppRegistry,
	ProvideBucketService,
	ProvideIdentityService,
	ProvideHardener,
	ProvideResponder,
	ProvideHandler,
	policy.NewValidator,
}
