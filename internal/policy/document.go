package policy

import (
	"encoding/json"
	"fmt"
)

const (
	// Version is the IAM policy language version
	Version = "2012-10-17"

	// SecureTransportSid identifies the TLS-only statement
	SecureTransportSid = "AllowSSLRequestsOnly"
)

// Document is an S3 bucket policy
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single bucket policy statement. Field order matches the
// order in which the document is serialized.
type Statement struct {
	Sid       string                     `json:"Sid"`
	Principal map[string]string          `json:"Principal"`
	Effect    string                     `json:"Effect"`
	Action    []string                   `json:"Action"`
	Resource  []string                   `json:"Resource"`
	Condition map[string]map[string]bool `json:"Condition"`
}

// BucketARN returns the ARN of an S3 bucket
func BucketARN(bucket string) string {
	return fmt.Sprintf("arn:aws:s3:::%s", bucket)
}

// ObjectsARN returns the ARN matching every object in an S3 bucket
func ObjectsARN(bucket string) string {
	return BucketARN(bucket) + "/*"
}

// SecureTransport builds the policy that denies every S3 action on the bucket
// and its objects unless the request arrives over TLS.
func SecureTransport(bucket string) *Document {
	return &Document{
		Version: Version,
		Statement: []Statement{
			{
				Sid: SecureTransportSid,
				Principal: map[string]string{
					"AWS": "*",
				},
				Effect: "Deny",
				Action: []string{"s3:*"},
				Resource: []string{
					BucketARN(bucket),
					ObjectsARN(bucket),
				},
				Condition: map[string]map[string]bool{
					"Bool": {
						"aws:SecureTransport": false,
					},
				},
			},
		},
	}
}

// JSON returns the serialized policy
func (d *Document) JSON() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bucket policy: %w", err)
	}
	return string(data), nil
}
