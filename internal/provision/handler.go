// Package provision implements the custom resource entry point: it dispatches
// on the request type and guarantees exactly one response per event.
package provision

import (
	"context"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/rs/zerolog"
	"github.com/savaki/bucket-hardener/internal/customresource"
	"github.com/savaki/bucket-hardener/internal/hardener"
)

// Runner performs the Create/Update work
type Runner interface {
	Run(ctx context.Context) (*hardener.Result, error)
}

type Handler struct {
	runner    Runner
	responder customresource.Responder
}

func NewHandler(runner Runner, responder customresource.Responder) *Handler {
	return &Handler{
		runner:    runner,
		responder: responder,
	}
}

// HandleEvent processes a custom resource event. The outcome of the work is
// reported through the responder; the returned error is only ever the
// failure to deliver that response.
func (h *Handler) HandleEvent(ctx context.Context, event cfn.Event) error {
	logger := zerolog.Ctx(ctx).With().
		Str("request_id", event.RequestID).
		Str("request_type", string(event.RequestType)).
		Str("stack_id", event.StackID).
		Str("logical_resource_id", event.LogicalResourceID).
		Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Str("resource_type", event.ResourceType).
		Str("physical_resource_id", event.PhysicalResourceID).
		Msg("Received custom resource event")

	if event.RequestType == cfn.RequestDelete {
		logger.Info().Msg("Delete request - skipping")
		return h.respond(ctx, &event, cfn.StatusSuccess)
	}

	return h.respond(ctx, &event, h.run(ctx))
}

// run converts every error and panic from the runner into FAILED
func (h *Handler) run(ctx context.Context) (status cfn.StatusType) {
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic while hardening bucket")
			status = cfn.StatusFailed
		}
	}()

	result, err := h.runner.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to harden deployment bucket")
		return cfn.StatusFailed
	}
	if result == nil {
		logger.Error().Msg("Hardening returned no result")
		return cfn.StatusFailed
	}

	event := logger.Info()
	if result.Status != cfn.StatusSuccess {
		event = logger.Warn()
	}
	event.
		Str("status", string(result.Status)).
		Str("app_id", result.AppID).
		Str("bucket", result.Bucket).
		Str("reason", result.Reason).
		Msg("Hardening finished")

	return result.Status
}

func (h *Handler) respond(ctx context.Context, event *cfn.Event, status cfn.StatusType) error {
	logger := zerolog.Ctx(ctx)

	if err := h.responder.Respond(ctx, event, status, customresource.Data(status)); err != nil {
		logger.Error().Err(err).Str("status", string(status)).Msg("Failed to send custom resource response")
		return err
	}
	return nil
}
