package policy

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Sink persists a rendered document and returns where it went.
type Sink interface {
	Save(ctx context.Context, r Rendered, profile string) (string, error)
}

// FileName is the name rendered documents are saved under.
func FileName(policyName, profile string) string {
	return fmt.Sprintf("%s-%s.json", policyName, profile)
}

// LocalSink writes documents into Dir, overwriting existing files.
type LocalSink struct {
	Dir string
}

func NewLocalSink(dir string) *LocalSink {
	if dir == "" {
		dir = "."
	}
	return &LocalSink{Dir: dir}
}

func (s *LocalSink) Save(_ context.Context, r Rendered, profile string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	p := filepath.Join(s.Dir, FileName(r.Name, profile))
	if err := os.WriteFile(p, []byte(r.Document), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", p, err)
	}
	return p, nil
}

type ObjectPutter interface {
	PutJSON(ctx context.Context, bucket, key string, body []byte) (string, error)
}

// S3Sink uploads documents to Bucket under Prefix.
type S3Sink struct {
	client ObjectPutter
	Bucket string
	Prefix string
}

func NewS3Sink(client ObjectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, Bucket: bucket, Prefix: prefix}
}

func (s *S3Sink) Save(ctx context.Context, r Rendered, profile string) (string, error) {
	key := path.Join(s.Prefix, FileName(r.Name, profile))
	return s.client.PutJSON(ctx, s.Bucket, key, []byte(r.Document))
}
