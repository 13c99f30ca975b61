package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/askiada/go-deckbuilder/internal/loader"
	"github.com/askiada/go-deckbuilder/internal/renderer"
	"github.com/askiada/go-deckbuilder/pkg/deck"
	"github.com/askiada/go-deckbuilder/pkg/workflow/model"
)

// AssetExtractor pulls the raster bytes for an image element out of its
// source unit. The default extractor hands back the whole unit.
type AssetExtractor interface {
	Extract(ctx context.Context, unit loader.Unit, el deck.Element) ([]byte, error)
}

type passthroughExtractor struct{}

func (passthroughExtractor) Extract(_ context.Context, unit loader.Unit, _ deck.Element) ([]byte, error) {
	return unit.Data, nil
}

// Result is the outcome of a flow run: the rendered document, the deck that
// went into it, and the degraded subset when the run tolerated partial
// failure.
type Result struct {
	Document renderer.Document
	Config   deck.Config
	Pages    []deck.Page
	Assets   map[string]string
	Failed   map[string]error
}

type flowConfig struct {
	log       *zap.Logger
	policy    RetryPolicy
	bound     int
	pipeOpts  []model.PipelineOption
	extractor AssetExtractor
}

func newFlowConfig(opts []FlowOption) flowConfig {
	cfg := flowConfig{
		log:       zap.NewNop(),
		policy:    DefaultRetryPolicy(),
		bound:     DefaultBound,
		extractor: passthroughExtractor{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// FlowOption configures a flow.
type FlowOption func(*flowConfig)

// WithLogger sets the flow logger.
func WithLogger(log *zap.Logger) FlowOption {
	return func(c *flowConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRetryPolicy sets the retry policy applied to gateway calls.
func WithRetryPolicy(policy RetryPolicy) FlowOption {
	return func(c *flowConfig) { c.policy = policy }
}

// WithBound sets the fan-out concurrency bound.
func WithBound(bound int) FlowOption {
	return func(c *flowConfig) { c.bound = bound }
}

// WithPipelineOptions attaches pipeline options, such as measures and
// drawers, to every run of the flow.
func WithPipelineOptions(opts ...model.PipelineOption) FlowOption {
	return func(c *flowConfig) { c.pipeOpts = append(c.pipeOpts, opts...) }
}

// WithExtractor overrides the asset extractor used by the convert variant.
func WithExtractor(ex AssetExtractor) FlowOption {
	return func(c *flowConfig) {
		if ex != nil {
			c.extractor = ex
		}
	}
}

func failures[O any](results map[string]TaskResult[O]) map[string]error {
	out := map[string]error{}
	for id, res := range results {
		if res.Status == TaskFailed {
			out[id] = res.Err
		}
	}

	return out
}
