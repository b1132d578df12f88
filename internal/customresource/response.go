// Package customresource reports the outcome of a CloudFormation custom
// resource invocation back to CloudFormation.
package customresource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"github.com/savaki/bucket-hardener/internal/errors"
)

const (
	// DataKey is the attribute name exposed to the template via Fn::GetAtt
	DataKey = "Data"

	DataSuccess = "Success"
	DataFailure = "Failure"

	// DefaultResponseTimeout bounds delivery of the callback
	DefaultResponseTimeout = 30 * time.Second
)

// Responder delivers the single terminal response for an event
type Responder interface {
	Respond(ctx context.Context, event *cfn.Event, status cfn.StatusType, data map[string]interface{}) error
}

// Data returns the response data for status
func Data(status cfn.StatusType) map[string]interface{} {
	if status == cfn.StatusSuccess {
		return map[string]interface{}{DataKey: DataSuccess}
	}
	return map[string]interface{}{DataKey: DataFailure}
}

// NewResponse builds the response CloudFormation expects for event
func NewResponse(event *cfn.Event, status cfn.StatusType, data map[string]interface{}) *cfn.Response {
	response := cfn.NewResponse(event)
	response.Status = status
	response.Data = data
	response.Reason = "See the details in CloudWatch Log Stream: " + lambdacontext.LogStreamName

	switch {
	case event.PhysicalResourceID != "":
		response.PhysicalResourceID = event.PhysicalResourceID
	case lambdacontext.LogStreamName != "":
		response.PhysicalResourceID = lambdacontext.LogStreamName
	default:
		response.PhysicalResourceID = event.LogicalResourceID
	}

	return response
}

// HTTPResponder PUTs the response to the event's pre-signed ResponseURL
type HTTPResponder struct {
	timeout time.Duration
}

// NewHTTPResponder returns a responder that gives up on the callback after
// timeout. A zero timeout uses DefaultResponseTimeout.
func NewHTTPResponder(timeout time.Duration) *HTTPResponder {
	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}
	return &HTTPResponder{
		timeout: timeout,
	}
}

func (r *HTTPResponder) Respond(ctx context.Context, event *cfn.Event, status cfn.StatusType, data map[string]interface{}) error {
	logger := zerolog.Ctx(ctx)

	if event.ResponseURL == "" {
		return errors.ErrMissingResponseURL
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Send uses http.DefaultClient, which has no timeout of its own
	response := NewResponse(event, status, data)
	done := make(chan error, 1)
	go func() { done <- response.Send() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %w", errors.ErrResponseRejected, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("failed to send response: %w", ctx.Err())
	}

	logger.Info().Str("status", string(status)).Msg("Sent custom resource response")
	return nil
}

// WriterResponder writes the response as indented JSON, for local runs
type WriterResponder struct {
	w io.Writer
}

func NewWriterResponder(w io.Writer) *WriterResponder {
	return &WriterResponder{
		w: w,
	}
}

func (r *WriterResponder) Respond(ctx context.Context, event *cfn.Event, status cfn.StatusType, data map[string]interface{}) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewResponse(event, status, data))
}
