// Package hardener locates an Amplify app's deployment bucket and locks it
// down: versioning on, TLS-only bucket policy.
package hardener

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/rs/zerolog"
	"github.com/savaki/bucket-hardener/internal/errors"
	"github.com/savaki/bucket-hardener/internal/models"
	"github.com/savaki/bucket-hardener/internal/policy"
	"github.com/savaki/bucket-hardener/internal/services"
)

// Registry resolves Amplify apps and their backend environments
type Registry interface {
	ListApplications(ctx context.Context) ([]models.Application, error)
	GetEnvironment(ctx context.Context, appID, name string) (*models.Environment, error)
}

// Buckets performs the bucket probes and mutations
type Buckets interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	EnableVersioning(ctx context.Context, bucket string) error
	PutPolicy(ctx context.Context, bucket string, doc *policy.Document) error
}

// Guard validates a bucket policy before it is applied
type Guard interface {
	Validate(ctx context.Context, bucket string, doc *policy.Document) (*policy.ValidationResult, error)
}

// Result is the outcome of a run that did not hit an unexpected error
type Result struct {
	Status cfn.StatusType
	AppID  string
	Bucket string
	Reason string
}

type Hardener struct {
	store    services.ParameterStore
	registry Registry
	buckets  Buckets
	guard    Guard
}

func New(store services.ParameterStore, registry Registry, buckets Buckets, guard Guard) *Hardener {
	return &Hardener{
		store:    store,
		registry: registry,
		buckets:  buckets,
		guard:    guard,
	}
}

// Run hardens the deployment bucket. No matching app and a missing bucket
// are reported as a FAILED result; every other failure is returned as an
// error. Versioning and policy are independent calls, so an error from the
// policy step leaves versioning enabled.
func (h *Hardener) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	config, err := h.store.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	apps, err := h.registry.ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(apps))
	for _, app := range apps {
		names = append(names, app.Name)
	}
	logger.Info().Strs("apps", names).Msg("Available apps")

	app, ok := SelectApplication(apps, config.AppNameKeywords)
	if !ok {
		logger.Warn().Strs("keywords", config.AppNameKeywords).Msg("No matching Amplify app found")
		return &Result{
			Status: cfn.StatusFailed,
			Reason: "no matching Amplify app found",
		}, nil
	}

	logger.Info().
		Str("app_name", app.Name).
		Str("app_id", app.AppID).
		Msg("Found matching app")

	env, err := h.registry.GetEnvironment(ctx, app.AppID, config.EnvironmentName)
	if err != nil {
		return nil, err
	}

	bucket := env.Bucket(config.BucketSuffix)
	logger.Info().
		Str("stack_name", env.StackName).
		Str("bucket", bucket).
		Msg("Resolved deployment bucket")

	exists, err := h.buckets.BucketExists(ctx, bucket)
	if err != nil || !exists {
		event := logger.Warn().Str("bucket", bucket)
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("Bucket not found")
		return &Result{
			Status: cfn.StatusFailed,
			AppID:  app.AppID,
			Bucket: bucket,
			Reason: fmt.Sprintf("bucket %s not found", bucket),
		}, nil
	}

	if err := h.buckets.EnableVersioning(ctx, bucket); err != nil {
		return nil, err
	}
	logger.Info().Str("bucket", bucket).Msg("Enabled versioning")

	doc := policy.SecureTransport(bucket)
	validation, err := h.guard.Validate(ctx, bucket, doc)
	if err != nil {
		return nil, err
	}
	if !validation.Allowed {
		return nil, fmt.Errorf("%w: %s", errors.ErrPolicyRejected, strings.Join(validation.Violations, "; "))
	}

	if err := h.buckets.PutPolicy(ctx, bucket, doc); err != nil {
		return nil, err
	}
	logger.Info().Str("bucket", bucket).Msg("Applied secure transport bucket policy")

	return &Result{
		Status: cfn.StatusSuccess,
		AppID:  app.AppID,
		Bucket: bucket,
	}, nil
}

// SelectApplication returns the first app, in listing order, whose name
// contains any keyword, ignoring case.
func SelectApplication(apps []models.Application, keywords []string) (models.Application, bool) {
	for _, app := range apps {
		name := strings.ToLower(app.Name)
		for _, keyword := range keywords {
			if keyword != "" && strings.Contains(name, strings.ToLower(keyword)) {
				return app, true
			}
		}
	}
	return models.Application{}, false
}
