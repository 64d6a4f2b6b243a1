package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiamsdk "github.com/aws/aws-sdk-go-v2/service/iam"
	awss3sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	awsiam "tasnim.dev/aws-recipes/internal/aws/iam"
	awss3 "tasnim.dev/aws-recipes/internal/aws/s3"
)

type ServiceClient struct {
	IAM       *awsiam.Client
	S3        *awss3.Client
	AccountID string
}

// NewServiceClient builds the service clients for cfg and resolves the
// caller's account id, which doubles as the connectivity check.
func NewServiceClient(ctx context.Context, cfg aws.Config) (*ServiceClient, error) {
	accountID, err := GetAccountID(ctx, sts.NewFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("connecting to AWS: %w", err)
	}

	return &ServiceClient{
		IAM:       awsiam.NewClient(awsiamsdk.NewFromConfig(cfg)),
		S3:        awss3.NewClient(awss3sdk.NewFromConfig(cfg)),
		AccountID: accountID,
	}, nil
}
