package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/savaki/bucket-hardener/internal/constants"
)

// Config holds the bucket discovery settings
type Config struct {
	EnvironmentName string
	BucketSuffix    string
	AppNameKeywords []string
}

// ParameterStore defines the interface for loading configuration
type ParameterStore interface {
	// GetConfig loads the configuration, applying defaults for missing values
	GetConfig(ctx context.Context) (*Config, error)
}

type SSMAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// SSMParameterStore implements ParameterStore using AWS Systems Manager Parameter Store
type SSMParameterStore struct {
	client SSMAPI
	env    string
}

// NewSSMParameterStore creates a new SSM-backed parameter store
func NewSSMParameterStore(client SSMAPI, env string) *SSMParameterStore {
	return &SSMParameterStore{
		client: client,
		env:    env,
	}
}

// GetConfig loads configuration from /{env}/bucket-hardener
func (s *SSMParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	path := fmt.Sprintf("/%s/%s", s.env, constants.ParameterPrefix)

	params := make(map[string]string)
	var nextToken *string
	for {
		result, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           &path,
			Recursive:      boolPtr(true),
			WithDecryption: boolPtr(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get parameters by path %s: %w", path, err)
		}

		for _, param := range result.Parameters {
			if param.Name != nil && param.Value != nil {
				params[*param.Name] = *param.Value
			}
		}

		if result.NextToken == nil || *result.NextToken == "" {
			break
		}
		nextToken = result.NextToken
	}

	config := &Config{
		EnvironmentName: params[path+"/environment-name"],
		BucketSuffix:    params[path+"/bucket-suffix"],
		AppNameKeywords: splitKeywords(params[path+"/app-name-keywords"]),
	}

	return withDefaults(config), nil
}

// EnvParameterStore implements ParameterStore using environment variables
type EnvParameterStore struct {
	env string
}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore(env string) *EnvParameterStore {
	return &EnvParameterStore{
		env: env,
	}
}

// GetConfig loads configuration from environment variables
func (e *EnvParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	config := &Config{
		EnvironmentName: os.Getenv("BACKEND_ENVIRONMENT_NAME"),
		BucketSuffix:    os.Getenv("BUCKET_SUFFIX"),
		AppNameKeywords: splitKeywords(os.Getenv("APP_NAME_KEYWORDS")),
	}

	return withDefaults(config), nil
}

func withDefaults(config *Config) *Config {
	if config.EnvironmentName == "" {
		config.EnvironmentName = constants.EnvironmentName
	}
	if config.BucketSuffix == "" {
		config.BucketSuffix = constants.BucketSuffix
	}
	if len(config.AppNameKeywords) == 0 {
		config.AppNameKeywords = append([]string(nil), constants.AppNameKeywords...)
	}
	return config
}

// splitKeywords parses a comma separated list, dropping blanks
func splitKeywords(value string) []string {
	var keywords []string
	for _, keyword := range strings.Split(value, ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

func boolPtr(b bool) *bool {
	return &b
}
