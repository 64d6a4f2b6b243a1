package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCallerIdentityAPI struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (m *mockCallerIdentityAPI) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return m.out, m.err
}

func TestGetAccountID(t *testing.T) {
	api := &mockCallerIdentityAPI{out: &sts.GetCallerIdentityOutput{Account: aws.String("111122223333")}}
	id, err := GetAccountID(context.Background(), api)
	require.NoError(t, err)
	assert.Equal(t, "111122223333", id)
}

func TestGetAccountID_Error(t *testing.T) {
	api := &mockCallerIdentityAPI{err: errors.New("ExpiredToken")}
	_, err := GetAccountID(context.Background(), api)
	require.Error(t, err)
	assert.Equal(t, "GetCallerIdentity: ExpiredToken", err.Error())
}

func TestGetAccountID_Empty(t *testing.T) {
	api := &mockCallerIdentityAPI{out: &sts.GetCallerIdentityOutput{}}
	_, err := GetAccountID(context.Background(), api)
	assert.Error(t, err)
}

func TestCheckCredentials(t *testing.T) {
	ctx := context.Background()

	cfg := aws.Config{Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "secret"}, nil
	})}
	assert.NoError(t, CheckCredentials(ctx, cfg))

	empty := aws.Config{Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, nil
	})}
	assert.ErrorIs(t, CheckCredentials(ctx, empty), ErrNoCredentials)

	failing := aws.Config{Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("profile not found")
	})}
	assert.Error(t, CheckCredentials(ctx, failing))

	assert.ErrorIs(t, CheckCredentials(ctx, aws.Config{}), ErrNoCredentials)
}
