package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/amplify"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

func ProvideContext(logger zerolog.Logger) context.Context {
	return logger.WithContext(context.Background())
}

// ProvideAWSConfig loads the default AWS configuration. When an endpoint
// override is set, static credentials are used so a local stack can be
// targeted without a profile.
func ProvideAWSConfig(ctx context.Context, endpoint Endpoint) (aws.Config, error) {
	if endpoint == "" {
		return config.LoadDefaultConfig(ctx)
	}

	return config.LoadDefaultConfig(
		ctx,
		config.WithBaseEndpoint(string(endpoint)),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		),
	)
}

func ProvideAmplifyClient(cfg aws.Config) *amplify.Client {
	return amplify.NewFromConfig(cfg)
}

func ProvideS3Client(cfg aws.Config, appID AppID, endpoint Endpoint) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.AppID = string(appID)
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})
}

func ProvideSTSClient(cfg aws.Config) *sts.Client {
	return sts.NewFromConfig(cfg)
}
