package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/amplify"
	"github.com/savaki/bucket-hardener/internal/errors"
	"github.com/savaki/bucket-hardener/internal/models"
)

// AmplifyAPI defines the Amplify operations needed to locate a backend environment
type AmplifyAPI interface {
	ListApps(ctx context.Context, params *amplify.ListAppsInput, optFns ...func(*amplify.Options)) (*amplify.ListAppsOutput, error)
	GetBackendEnvironment(ctx context.Context, params *amplify.GetBackendEnvironmentInput, optFns ...func(*amplify.Options)) (*amplify.GetBackendEnvironmentOutput, error)
}

// AppRegistry lists Amplify apps and resolves their backend environments
type AppRegistry struct {
	client AmplifyAPI
}

func NewAppRegistry(client AmplifyAPI) *AppRegistry {
	return &AppRegistry{
		client: client,
	}
}

// ListApplications returns every app in the order Amplify lists them
func (r *AppRegistry) ListApplications(ctx context.Context) ([]models.Application, error) {
	var (
		apps      []models.Application
		nextToken *string
	)

	for {
		output, err := r.client.ListApps(ctx, &amplify.ListAppsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrDiscovery, err)
		}

		for _, app := range output.Apps {
			apps = append(apps, models.Application{
				Name:  aws.ToString(app.Name),
				AppID: aws.ToString(app.AppId),
			})
		}

		token := aws.ToString(output.NextToken)
		if token == "" || token == aws.ToString(nextToken) {
			return apps, nil
		}
		nextToken = output.NextToken
	}
}

// GetEnvironment resolves the named backend environment of an app
func (r *AppRegistry) GetEnvironment(ctx context.Context, appID, name string) (*models.Environment, error) {
	output, err := r.client.GetBackendEnvironment(ctx, &amplify.GetBackendEnvironmentInput{
		AppId:           aws.String(appID),
		EnvironmentName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get backend environment %s for app %s: %w", name, appID, err)
	}

	if output.BackendEnvironment == nil || aws.ToString(output.BackendEnvironment.StackName) == "" {
		return nil, fmt.Errorf("%w: app %s environment %s", errors.ErrEmptyStackName, appID, name)
	}

	return &models.Environment{
		AppID:     appID,
		Name:      name,
		StackName: aws.ToString(output.BackendEnvironment.StackName),
	}, nil
}
