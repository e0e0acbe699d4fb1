package llm

import (
	"context"
	"strconv"

	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/telemetry"
)

// TracingCompleter wraps a Completer with OpenTelemetry tracing.
type TracingCompleter struct {
	next Completer
}

// WithTracing wraps a completer with tracing instrumentation.
func WithTracing(c Completer) Completer {
	return &TracingCompleter{next: c}
}

// Complete implements Completer with a client span per call.
func (tc *TracingCompleter) Complete(ctx context.Context, req *Request) (string, error) {
	tracer := telemetry.GetTracer()

	ctx, span := tracer.StartLLMSpan(ctx, "llm.complete")

	text, err := tc.next.Complete(ctx, req)

	opts := telemetry.LLMSpanOptions{
		Provider: string(req.Provider),
		Model:    req.Model,
		URL:      req.URL,
		Response: text,
	}
	if tracer.Debug() {
		opts.Prompt = string(req.Body)
	}
	if code, convErr := strconv.Atoi(errors.GetMetadata(err)["status_code"]); convErr == nil {
		opts.StatusCode = code
	}

	tracer.EndLLMSpan(span, opts, err)

	return text, err
}
