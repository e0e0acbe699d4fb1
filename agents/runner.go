package agents

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/extract"
	"github.com/vinayprograms/vogsphere/llm"
	"github.com/vinayprograms/vogsphere/logging"
	"github.com/vinayprograms/vogsphere/profiles"
	"github.com/vinayprograms/vogsphere/telemetry"
)

// Runner turns extracted content into a Markdown note with one provider
// call. Overlapping runs are not coordinated.
type Runner struct {
	completer llm.Completer
	logger    *logging.Logger
	opts      Options
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the run logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithOptions sets the prompt assembly options.
func WithOptions(o Options) RunnerOption {
	return func(r *Runner) {
		r.opts = o
	}
}

// NewRunner creates a runner that sends its calls through c.
func NewRunner(c llm.Completer, opts ...RunnerOption) *Runner {
	r := &Runner{
		completer: c,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds the full prompt for content, sends it to the profile's provider
// and returns the generated Markdown unchanged. Configuration problems fail
// before any network attempt.
func (r *Runner) Run(ctx context.Context, content *extract.Content, profile profiles.Profile) (string, error) {
	start := time.Now()
	r.logger.RunStart(profile.Name, string(profile.Provider))

	ctx, span := telemetry.GetTracer().StartSpan(ctx, "agents.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("profile.name", profile.Name),
		attribute.String("llm.provider", string(profile.Provider)),
	)

	text, err := r.run(ctx, content, profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.RunFailed(err)
		return "", err
	}
	span.SetAttributes(attribute.Int("note.chars", len(text)))

	r.logger.RunComplete(time.Since(start), len(text))
	return text, nil
}

func (r *Runner) run(ctx context.Context, content *extract.Content, profile profiles.Profile) (string, error) {
	if content == nil {
		return "", errors.FromCode(errors.ErrCodeExtraction)
	}

	prompt := llm.Prompt{
		System: SystemPrompt,
		User:   Assemble(content, profile.Language, r.opts),
	}
	req, err := llm.BuildRequest(profile.Provider, profile.Fields, prompt)
	if err != nil {
		return "", err
	}

	r.logger.ProviderRequest(req.URL, string(profile.Provider))
	return r.completer.Complete(ctx, req)
}

// Process extracts target first and then runs. An extraction failure is
// returned before any provider call.
func (r *Runner) Process(ctx context.Context, ex extract.Extractor, target string, profile profiles.Profile) (string, error) {
	content, err := ex.Extract(ctx, target)
	if err != nil {
		r.logger.RunFailed(err)
		return "", err
	}
	if content == nil {
		err := errors.FromCode(errors.ErrCodeExtraction)
		r.logger.RunFailed(err)
		return "", err
	}
	r.logger.ExtractionComplete(content.Title, content.URL, len(content.Content))
	return r.Run(ctx, content, profile)
}
