package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tasnim.dev/aws-recipes/internal/aws/iam"
)

const adminTemplate = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"arn:aws:iam::AWS_ACCOUNT_ID:*"}]}`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

type mockIAMClient struct {
	putInlinePolicyFunc     func(ctx context.Context, kind iam.TargetKind, identity, name, document string) error
	attachPolicyFunc        func(ctx context.Context, kind iam.TargetKind, identity, policyARN string) error
	createPolicyFunc        func(ctx context.Context, name, document, description string) (iam.ManagedPolicy, error)
	getPolicyFunc           func(ctx context.Context, policyARN string) (iam.ManagedPolicy, error)
	createPolicyVersionFunc func(ctx context.Context, policyARN, document string) (string, error)

	calls []string
}

func (m *mockIAMClient) PutInlinePolicy(ctx context.Context, kind iam.TargetKind, identity, name, document string) error {
	m.calls = append(m.calls, "put:"+string(kind)+":"+identity+":"+name)
	if m.putInlinePolicyFunc == nil {
		return nil
	}
	return m.putInlinePolicyFunc(ctx, kind, identity, name, document)
}

func (m *mockIAMClient) AttachPolicy(ctx context.Context, kind iam.TargetKind, identity, policyARN string) error {
	m.calls = append(m.calls, "attach:"+string(kind)+":"+identity+":"+policyARN)
	if m.attachPolicyFunc == nil {
		return nil
	}
	return m.attachPolicyFunc(ctx, kind, identity, policyARN)
}

func (m *mockIAMClient) CreatePolicy(ctx context.Context, name, document, description string) (iam.ManagedPolicy, error) {
	m.calls = append(m.calls, "create:"+name)
	if m.createPolicyFunc == nil {
		return iam.ManagedPolicy{Name: name, ARN: iam.PolicyARN("111122223333", name)}, nil
	}
	return m.createPolicyFunc(ctx, name, document, description)
}

func (m *mockIAMClient) GetPolicy(ctx context.Context, policyARN string) (iam.ManagedPolicy, error) {
	m.calls = append(m.calls, "get:"+policyARN)
	if m.getPolicyFunc == nil {
		return iam.ManagedPolicy{ARN: policyARN}, nil
	}
	return m.getPolicyFunc(ctx, policyARN)
}

func (m *mockIAMClient) CreatePolicyVersion(ctx context.Context, policyARN, document string) (string, error) {
	m.calls = append(m.calls, "version:"+policyARN)
	if m.createPolicyVersionFunc == nil {
		return "v2", nil
	}
	return m.createPolicyVersionFunc(ctx, policyARN, document)
}

type mockPrompter struct {
	yes   bool
	value string
	asked []string
	err   error
}

func (m *mockPrompter) YesNo(question string) (bool, error) {
	m.asked = append(m.asked, question)
	return m.yes, m.err
}

func (m *mockPrompter) Value(question string) (string, error) {
	m.asked = append(m.asked, question)
	return m.value, m.err
}
