package di

import (
	"github.com/aws/aws-sdk-go-v2/service/amplify"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/savaki/bucket-hardener/internal/customresource"
	"github.com/savaki/bucket-hardener/internal/hardener"
	"github.com/savaki/bucket-hardener/internal/policy"
	"github.com/savaki/bucket-hardener/internal/provision"
	"github.com/savaki/bucket-hardener/internal/services"
)

func ProvideAppRegistry(client *amplify.Client) *services.AppRegistry {
	return services.NewAppRegistry(client)
}

func ProvideBucketService(client *s3.Client) *services.BucketService {
	return services.NewBucketService(client)
}

func ProvideIdentityService(client *sts.Client) *services.IdentityService {
	return services.NewIdentityService(client)
}

func ProvideHardener(
	store services.ParameterStore,
	registry *services.AppRegistry,
	buckets *services.BucketService,
	validator *policy.Validator,
) *hardener.Hardener {
	return hardener.New(store, registry, buckets, validator)
}

// ProvideResponder sends responses to CloudFormation unless an Output is configured
func ProvideResponder(output Output) customresource.Responder {
	if output != nil {
		return customresource.NewWriterResponder(output)
	}
	return customresource.NewHTTPResponder(customresource.DefaultResponseTimeout)
}

func ProvideHandler(h *hardener.Hardener, responder customresource.Responder) *provision.Handler {
	return provision.NewHandler(h, responder)
}
