package iam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// ErrUnsupportedKind is returned for a target kind that has no IAM operation.
var ErrUnsupportedKind = errors.New("unsupported target kind")

type IAMAPI interface {
	PutGroupPolicy(ctx context.Context, params *awsiam.PutGroupPolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.PutGroupPolicyOutput, error)
	PutRolePolicy(ctx context.Context, params *awsiam.PutRolePolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.PutRolePolicyOutput, error)
	PutUserPolicy(ctx context.Context, params *awsiam.PutUserPolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.PutUserPolicyOutput, error)
	AttachGroupPolicy(ctx context.Context, params *awsiam.AttachGroupPolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.AttachGroupPolicyOutput, error)
	AttachRolePolicy(ctx context.Context, params *awsiam.AttachRolePolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.AttachRolePolicyOutput, error)
	AttachUserPolicy(ctx context.Context, params *awsiam.AttachUserPolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.AttachUserPolicyOutput, error)
	CreatePolicy(ctx context.Context, params *awsiam.CreatePolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.CreatePolicyOutput, error)
	CreatePolicyVersion(ctx context.Context, params *awsiam.CreatePolicyVersionInput, optFns ...func(*awsiam.Options)) (*awsiam.CreatePolicyVersionOutput, error)
	GetPolicy(ctx context.Context, params *awsiam.GetPolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.GetPolicyOutput, error)
}

type putFunc func(ctx context.Context, identity, name, document string) error

type attachFunc func(ctx context.Context, identity, policyARN string) error

type Client struct {
	api    IAMAPI
	put    map[TargetKind]putFunc
	attach map[TargetKind]attachFunc
}

func NewClient(api IAMAPI) *Client {
	c := &Client{api: api}
	c.put = map[TargetKind]putFunc{
		KindGroup: func(ctx context.Context, identity, name, document string) error {
			_, err := api.PutGroupPolicy(ctx, &awsiam.PutGroupPolicyInput{
				GroupName:      aws.String(identity),
				PolicyName:     aws.String(name),
				PolicyDocument: aws.String(document),
			})
			return err
		},
		KindRole: func(ctx context.Context, identity, name, document string) error {
			_, err := api.PutRolePolicy(ctx, &awsiam.PutRolePolicyInput{
				RoleName:       aws.String(identity),
				PolicyName:     aws.String(name),
				PolicyDocument: aws.String(document),
			})
			return err
		},
		KindUser: func(ctx context.Context, identity, name, document string) error {
			_, err := api.PutUserPolicy(ctx, &awsiam.PutUserPolicyInput{
				UserName:       aws.String(identity),
				PolicyName:     aws.String(name),
				PolicyDocument: aws.String(document),
			})
			return err
		},
	}
	c.attach = map[TargetKind]attachFunc{
		KindGroup: func(ctx context.Context, identity, policyARN string) error {
			_, err := api.AttachGroupPolicy(ctx, &awsiam.AttachGroupPolicyInput{
				GroupName: aws.String(identity),
				PolicyArn: aws.String(policyARN),
			})
			return err
		},
		KindRole: func(ctx context.Context, identity, policyARN string) error {
			_, err := api.AttachRolePolicy(ctx, &awsiam.AttachRolePolicyInput{
				RoleName:  aws.String(identity),
				PolicyArn: aws.String(policyARN),
			})
			return err
		},
		KindUser: func(ctx context.Context, identity, policyARN string) error {
			_, err := api.AttachUserPolicy(ctx, &awsiam.AttachUserPolicyInput{
				UserName:  aws.String(identity),
				PolicyArn: aws.String(policyARN),
			})
			return err
		},
	}
	return c
}

// PutInlinePolicy embeds document as an inline policy on the named group,
// role or user.
func (c *Client) PutInlinePolicy(ctx context.Context, kind TargetKind, identity, name, document string) error {
	fn, ok := c.put[kind]
	if !ok {
		return fmt.Errorf("PutInlinePolicy: %w: %q", ErrUnsupportedKind, kind)
	}
	if err := fn(ctx, identity, name, document); err != nil {
		return fmt.Errorf("Put%sPolicy(%s): %w", title(kind), identity, err)
	}
	return nil
}

// AttachPolicy attaches a managed policy to the named group, role or user.
func (c *Client) AttachPolicy(ctx context.Context, kind TargetKind, identity, policyARN string) error {
	fn, ok := c.attach[kind]
	if !ok {
		return fmt.Errorf("AttachPolicy: %w: %q", ErrUnsupportedKind, kind)
	}
	if err := fn(ctx, identity, policyARN); err != nil {
		return fmt.Errorf("Attach%sPolicy(%s): %w", title(kind), identity, err)
	}
	return nil
}

func (c *Client) CreatePolicy(ctx context.Context, name, document, description string) (ManagedPolicy, error) {
	in := &awsiam.CreatePolicyInput{
		PolicyName:     aws.String(name),
		PolicyDocument: aws.String(document),
	}
	// IAM rejects an empty description.
	if description != "" {
		in.Description = aws.String(description)
	}
	out, err := c.api.CreatePolicy(ctx, in)
	if err != nil {
		return ManagedPolicy{}, fmt.Errorf("CreatePolicy(%s): %w", name, err)
	}
	return toManagedPolicy(out.Policy), nil
}

func (c *Client) GetPolicy(ctx context.Context, policyARN string) (ManagedPolicy, error) {
	out, err := c.api.GetPolicy(ctx, &awsiam.GetPolicyInput{
		PolicyArn: aws.String(policyARN),
	})
	if err != nil {
		return ManagedPolicy{}, fmt.Errorf("GetPolicy(%s): %w", policyARN, err)
	}
	return toManagedPolicy(out.Policy), nil
}

// CreatePolicyVersion publishes document as the new default version of an
// existing managed policy and returns the version id.
func (c *Client) CreatePolicyVersion(ctx context.Context, policyARN, document string) (string, error) {
	out, err := c.api.CreatePolicyVersion(ctx, &awsiam.CreatePolicyVersionInput{
		PolicyArn:      aws.String(policyARN),
		PolicyDocument: aws.String(document),
		SetAsDefault:   true,
	})
	if err != nil {
		return "", fmt.Errorf("CreatePolicyVersion(%s): %w", policyARN, err)
	}
	if out.PolicyVersion == nil {
		return "", nil
	}
	return aws.ToString(out.PolicyVersion.VersionId), nil
}

// PolicyARN builds the ARN of a customer managed policy at the root path.
func PolicyARN(accountID, name string) string {
	return fmt.Sprintf("arn:aws:iam::%s:policy/%s", accountID, name)
}

// IsAlreadyExists reports whether err carries IAM's EntityAlreadyExists code.
func IsAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "EntityAlreadyExists"
	}
	return false
}

func toManagedPolicy(p *iamtypes.Policy) ManagedPolicy {
	if p == nil {
		return ManagedPolicy{}
	}
	var createdAt time.Time
	if p.CreateDate != nil {
		createdAt = *p.CreateDate
	}
	return ManagedPolicy{
		Name:             aws.ToString(p.PolicyName),
		PolicyID:         aws.ToString(p.PolicyId),
		ARN:              aws.ToString(p.Arn),
		Path:             aws.ToString(p.Path),
		DefaultVersionID: aws.ToString(p.DefaultVersionId),
		CreatedAt:        createdAt,
	}
}

func title(k TargetKind) string {
	switch k {
	case KindGroup:
		return "Group"
	case KindRole:
		return "Role"
	case KindUser:
		return "User"
	}
	return ""
}
