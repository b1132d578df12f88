package di

import (
	"io"

	"github.com/savaki/bucket-hardener/internal/constants"
)

const defaultAppID = AppID(constants.UserAgentAppID)

// AppID is the application id reported in the S3 user agent
type AppID string

// Endpoint overrides the AWS endpoint, e.g. for a local stack
type Endpoint string

// Output receives custom resource responses instead of the ResponseURL when set
type Output io.Writer

// Option is a function that configures the dependency injection container.
type Option func(*options)

func WithAppID(appID string) Option {
	return func(opts *options) {
		opts.appID = AppID(appID)
	}
}

func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.endpoint = Endpoint(endpoint)
	}
}

// WithOutput writes responses to w rather than sending them to CloudFormation
func WithOutput(w io.Writer) Option {
	return func(opts *options) {
		opts.output = w
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	appID     AppID
	endpoint  Endpoint
	output    Output
	providers []any
}
