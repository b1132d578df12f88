package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type IdentityService struct {
	client STSAPI
}

func NewIdentityService(client STSAPI) *IdentityService {
	return &IdentityService{
		client: client,
	}
}

// CallerAccount retrieves the AWS account ID of the current credentials
func (s *IdentityService) CallerAccount(ctx context.Context) (string, error) {
	result, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}

	if result.Account == nil {
		return "", fmt.Errorf("account ID is nil")
	}

	return *result.Account, nil
}
