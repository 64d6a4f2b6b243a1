package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "admin-default.json", FileName("admin", "default"))
	assert.Equal(t, "read-only-prod.json", FileName("read-only", "prod"))
}

func TestLocalSink_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	sink := NewLocalSink(dir)

	loc, err := sink.Save(context.Background(), Rendered{Name: "admin", Document: `{"Statement":[]}`}, "prod")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "admin-prod.json"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `{"Statement":[]}`, string(data))
}

func TestNewLocalSink_DefaultsToWorkingDir(t *testing.T) {
	assert.Equal(t, ".", NewLocalSink("").Dir)
}

func TestS3Sink_NoPrefix(t *testing.T) {
	putter := &mockPutter{}
	sink := NewS3Sink(putter, "policies", "")

	loc, err := sink.Save(context.Background(), Rendered{Name: "admin"}, "default")
	require.NoError(t, err)
	assert.Equal(t, "s3://policies/admin-default.json", loc)
	assert.Equal(t, []string{"policies/admin-default.json"}, putter.keys)
}
