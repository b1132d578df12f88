package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/savaki/bucket-hardener/internal/constants"
	"github.com/savaki/bucket-hardener/internal/di"
	"github.com/savaki/bucket-hardener/internal/policy"
	"github.com/savaki/bucket-hardener/internal/provision"
	"github.com/savaki/bucket-hardener/internal/services"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
)

type HandlerFunc func(ctx context.Context, event cfn.Event) error

func withLogger(handler HandlerFunc, logger zerolog.Logger) HandlerFunc {
	return func(ctx context.Context, event cfn.Event) error {
		ctx = logger.WithContext(ctx)
		return handler(ctx, event)
	}
}

func newContainer(c *cli.Context, opts ...di.Option) (di.Container, error) {
	opts = append(opts,
		di.WithAppID(c.String("app-id")),
		di.WithEndpoint(c.String("endpoint")),
	)
	container, err := di.New(c.String("env"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create DI container: %w", err)
	}
	return container, nil
}

func resolveHandler(container di.Container) (*provision.Handler, error) {
	var handler *provision.Handler
	if err := container.Invoke(func(h *provision.Handler) { handler = h }); err != nil {
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}
	return handler, nil
}

func lambdaAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	logger := di.MustGet[zerolog.Logger](container).With().Str("lambda", "bucket-hardener").Logger()

	handler, err := resolveHandler(container)
	if err != nil {
		return err
	}

	lambda.Start(withLogger(handler.HandleEvent, logger))
	return nil
}

// newLocalEvent builds the event CloudFormation would send, minus the ResponseURL
func newLocalEvent(requestType, stackID, logicalResourceID, physicalResourceID string) cfn.Event {
	return cfn.Event{
		RequestType:        cfn.RequestType(requestType),
		RequestID:          ksuid.New().String(),
		ResourceType:       "Custom::HardenDeploymentBucket",
		StackID:            stackID,
		LogicalResourceID:  logicalResourceID,
		PhysicalResourceID: physicalResourceID,
	}
}

func runAction(c *cli.Context) error {
	switch requestType := cfn.RequestType(c.String("request-type")); requestType {
	case cfn.RequestCreate, cfn.RequestUpdate, cfn.RequestDelete:
	default:
		return fmt.Errorf("unknown request type: %s", requestType)
	}

	container, err := newContainer(c, di.WithOutput(os.Stdout))
	if err != nil {
		return err
	}

	var (
		logger   = di.MustGet[zerolog.Logger](container).With().Str("lambda", "bucket-hardener").Logger()
		identity = di.MustGet[*services.IdentityService](container)
		ctx      = logger.WithContext(c.Context)
	)

	handler, err := resolveHandler(container)
	if err != nil {
		return err
	}

	account, err := identity.CallerAccount(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to determine caller account")
	} else {
		logger.Info().Str("account", account).Msg("Running against account")
	}

	event := newLocalEvent(
		c.String("request-type"),
		c.String("stack-id"),
		c.String("logical-resource-id"),
		c.String("physical-resource-id"),
	)
	return handler.HandleEvent(ctx, event)
}

func policyAction(c *cli.Context) error {
	return printPolicy(c.Context, c.App.Writer, c.String("bucket"))
}

// printPolicy writes the policy that would be applied to bucket, after
// running it through the same validation as a real invocation
func printPolicy(ctx context.Context, w io.Writer, bucket string) error {
	validator, err := policy.NewValidator()
	if err != nil {
		return err
	}

	doc := policy.SecureTransport(bucket)
	result, err := validator.Validate(ctx, bucket, doc)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return fmt.Errorf("policy for bucket %s rejected: %v", bucket, result.Violations)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func main() {
	app := &cli.App{
		Name:           "bucket-hardener",
		Usage:          "CloudFormation custom resource that hardens the Amplify deployment bucket",
		DefaultCommand: "lambda",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment, selects the Parameter Store path",
				Value:   "dev",
				EnvVars: []string{"ENV"},
			},
			&cli.StringFlag{
				Name:    "app-id",
				Usage:   "Application id added to the S3 user agent",
				Value:   constants.UserAgentAppID,
				EnvVars: []string{"USER_AGENT_APP_ID"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Override the AWS endpoint (local testing)",
				EnvVars: []string{"AWS_ENDPOINT_OVERRIDE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "lambda",
				Usage:  "Start Lambda handler",
				Action: lambdaAction,
			},
			{
				Name:  "run",
				Usage: "Run a custom resource event locally, printing the response",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "request-type",
						Usage: "Create, Update or Delete",
						Value: string(cfn.RequestCreate),
					},
					&cli.StringFlag{
						Name:  "stack-id",
						Usage: "Stack id reported in the response",
						Value: "local",
					},
					&cli.StringFlag{
						Name:  "logical-resource-id",
						Usage: "Logical resource id reported in the response",
						Value: "HardenDeploymentBucket",
					},
					&cli.StringFlag{
						Name:  "physical-resource-id",
						Usage: "Physical resource id of an existing resource (Update/Delete)",
					},
				},
				Action: runAction,
			},
			{
				Name:  "policy",
				Usage: "Print the bucket policy that would be applied",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Bucket name",
						Required: true,
					},
				},
				Action: policyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
