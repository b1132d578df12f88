package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/savaki/bucket-hardener/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSSMClient struct {
	getParametersByPathFunc func(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func (m *mockSSMClient) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	return m.getParametersByPathFunc(ctx, params, optFns...)
}

func parameter(name, value string) ssmtypes.Parameter {
	return ssmtypes.Parameter{
		Name:  aws.String(name),
		Value: aws.String(value),
	}
}

func TestSSMParameterStore_GetConfig(t *testing.T) {
	client := &mockSSMClient{
		getParametersByPathFunc: func(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
			assert.Equal(t, "/prod/bucket-hardener", aws.ToString(params.Path))
			if params.NextToken == nil {
				return &ssm.GetParametersByPathOutput{
					Parameters: []ssmtypes.Parameter{
						parameter("/prod/bucket-hardener/environment-name", "prod"),
					},
					NextToken: aws.String("next"),
				}, nil
			}
			return &ssm.GetParametersByPathOutput{
				Parameters: []ssmtypes.Parameter{
					parameter("/prod/bucket-hardener/app-name-keywords", "portal, ,admin"),
				},
			}, nil
		},
	}

	config, err := NewSSMParameterStore(client, "prod").GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Config{
		EnvironmentName: "prod",
		BucketSuffix:    "-deployment",
		AppNameKeywords: []string{"portal", "admin"},
	}, config)
}

func TestSSMParameterStore_GetConfig_Defaults(t *testing.T) {
	client := &mockSSMClient{
		getParametersByPathFunc: func(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
			return &ssm.GetParametersByPathOutput{}, nil
		},
	}

	config, err := NewSSMParameterStore(client, "dev").GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", config.EnvironmentName)
	assert.Equal(t, "-deployment", config.BucketSuffix)
	assert.Equal(t, []string{"team", "idc"}, config.AppNameKeywords)
}

func TestSSMParameterStore_GetConfig_Error(t *testing.T) {
	client := &mockSSMClient{
		getParametersByPathFunc: func(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	_, err := NewSSMParameterStore(client, "dev").GetConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/bucket-hardener")
}

func TestEnvParameterStore_GetConfig(t *testing.T) {
	t.Setenv("BACKEND_ENVIRONMENT_NAME", "")
	t.Setenv("BUCKET_SUFFIX", "-artifacts")
	t.Setenv("APP_NAME_KEYWORDS", "Portal")

	config, err := NewEnvParameterStore("dev").GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Config{
		EnvironmentName: "main",
		BucketSuffix:    "-artifacts",
		AppNameKeywords: []string{"Portal"},
	}, config)
}

func TestEnvParameterStore_GetConfig_Defaults(t *testing.T) {
	t.Setenv("BACKEND_ENVIRONMENT_NAME", "")
	t.Setenv("BUCKET_SUFFIX", "")
	t.Setenv("APP_NAME_KEYWORDS", "")

	config, err := NewEnvParameterStore("dev").GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Config{
		EnvironmentName: "main",
		BucketSuffix:    "-deployment",
		AppNameKeywords: []string{"team", "idc"},
	}, config)

	env := models.Environment{StackName: "amplify-teamidc-main-12345"}
	assert.Equal(t, "amplify-teamidc-main-12345-deployment", env.Bucket(config.BucketSuffix))
}
