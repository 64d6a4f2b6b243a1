package s3

import (
	"context"
	"fmt"
	"io"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockS3API struct {
	putObjectFunc func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

func (m *mockS3API) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	return m.putObjectFunc(ctx, params, optFns...)
}

func TestPutJSON(t *testing.T) {
	var body []byte

	mock := &mockS3API{
		putObjectFunc: func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
			if awssdk.ToString(params.Bucket) != "policies" {
				t.Errorf("Bucket = %s, want policies", awssdk.ToString(params.Bucket))
			}
			if awssdk.ToString(params.Key) != "prod/admin-default.json" {
				t.Errorf("Key = %s, want prod/admin-default.json", awssdk.ToString(params.Key))
			}
			if awssdk.ToString(params.ContentType) != "application/json" {
				t.Errorf("ContentType = %s, want application/json", awssdk.ToString(params.ContentType))
			}
			b, err := io.ReadAll(params.Body)
			if err != nil {
				t.Fatalf("reading body: %v", err)
			}
			body = b
			return &awss3.PutObjectOutput{}, nil
		},
	}

	client := NewClient(mock)
	uri, err := client.PutJSON(context.Background(), "policies", "prod/admin-default.json", []byte(`{"Version":"2012-10-17"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uri != "s3://policies/prod/admin-default.json" {
		t.Errorf("uri = %s", uri)
	}
	if string(body) != `{"Version":"2012-10-17"}` {
		t.Errorf("body = %s", body)
	}
}

func TestPutJSON_Error(t *testing.T) {
	mock := &mockS3API{
		putObjectFunc: func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
			return nil, fmt.Errorf("AccessDenied")
		},
	}

	client := NewClient(mock)
	_, err := client.PutJSON(context.Background(), "policies", "admin-default.json", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "PutObject(policies/admin-default.json): AccessDenied" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		input      string
		wantBucket string
		wantPrefix string
		wantErr    bool
	}{
		{"s3://policies", "policies", "", false},
		{"s3://policies/", "policies", "", false},
		{"s3://policies/prod/iam/", "policies", "prod/iam", false},
		{"policies/prod", "", "", true},
		{"s3:///prod", "", "", true},
	}

	for _, tt := range tests {
		bucket, prefix, err := ParseURI(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if bucket != tt.wantBucket || prefix != tt.wantPrefix {
			t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.input, bucket, prefix, tt.wantBucket, tt.wantPrefix)
		}
	}
}
