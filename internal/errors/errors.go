package errors

import "errors"

var (
	ErrDiscovery          = errors.New("failed to discover amplify applications")
	ErrEmptyStackName     = errors.New("backend environment has no stack name")
	ErrPolicyRejected     = errors.New("bucket policy rejected by policy guard")
	ErrMissingResponseURL = errors.New("custom resource event has no ResponseURL")
	ErrResponseRejected   = errors.New("custom resource response rejected")
)
