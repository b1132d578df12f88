package policy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureTransport_JSON(t *testing.T) {
	got, err := SecureTransport("foo-deployment").JSON()
	require.NoError(t, err)

	want := `{"Version":"2012-10-17","Statement":[{"Sid":"AllowSSLRequestsOnly","Principal":{"AWS":"*"},"Effect":"Deny","Action":["s3:*"],"Resource":["arn:aws:s3:::foo-deployment","arn:aws:s3:::foo-deployment/*"],"Condition":{"Bool":{"aws:SecureTransport":false}}}]}`
	assert.Equal(t, want, got)
}

func TestSecureTransport_ResourcesAreOnlyTheBucket(t *testing.T) {
	raw, err := SecureTransport("foo-deployment").JSON()
	require.NoError(t, err)

	var decoded struct {
		Statement []struct {
			Resource []string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded.Statement, 1)
	assert.Equal(t,
		[]string{"arn:aws:s3:::foo-deployment", "arn:aws:s3:::foo-deployment/*"},
		decoded.Statement[0].Resource,
	)
}

func TestBucketARN(t *testing.T) {
	tests := []struct {
		bucket      string
		wantBucket  string
		wantObjects string
	}{
		{
			bucket:      "myenv-deployment",
			wantBucket:  "arn:aws:s3:::myenv-deployment",
			wantObjects: "arn:aws:s3:::myenv-deployment/*",
		},
		{
			// names that look like a placeholder are used verbatim
			bucket:      "AMPLIFY_BUCKET",
			wantBucket:  "arn:aws:s3:::AMPLIFY_BUCKET",
			wantObjects: "arn:aws:s3:::AMPLIFY_BUCKET/*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			assert.Equal(t, tt.wantBucket, BucketARN(tt.bucket))
			assert.Equal(t, tt.wantObjects, ObjectsARN(tt.bucket))
		})
	}
}
