package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3MirrorRequiresBucket(t *testing.T) {
	_, err := NewS3Mirror(context.Background(), S3Options{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3MirrorObjectKey(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "tenderlist", want: "tenderlist/20250731T093015Z/lists.csv"},
		{prefix: "tenderlist/", want: "tenderlist/20250731T093015Z/lists.csv"},
		{prefix: "", want: "20250731T093015Z/lists.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			m, err := NewS3Mirror(context.Background(), S3Options{
				Bucket:   "backups",
				Region:   "us-east-1",
				Endpoint: "http://localhost:9000",
				Prefix:   tt.prefix,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.ObjectKey("20250731T093015Z/lists.csv"))
		})
	}
}
