package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/askiada/go-deckbuilder/internal/assetstore"
	"github.com/askiada/go-deckbuilder/internal/loader"
	"github.com/askiada/go-deckbuilder/internal/renderer"
	"github.com/askiada/go-deckbuilder/pkg/compose"
	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// CreateRequest describes one create run: turn a Markdown outline into a
// rendered deck.
type CreateRequest struct {
	OutlinePath    string
	OutputPath     string
	Theme          string
	Format         deck.Format
	GenerateImages bool
}

// CreateFlow builds a deck from an outline. One gateway call describes the
// whole deck; the optional enrich stage then generates the requested images
// under the fan-out bound, tolerating partial failure.
type CreateFlow struct {
	gateway  ModelGateway
	store    *assetstore.Store
	renderer renderer.Renderer

	parser *compose.Parser
	runner *Runner
	coord  *Coordinator
	cfg    flowConfig
}

// NewCreateFlow wires a create flow. Gateway, store and renderer are
// mandatory collaborators.
func NewCreateFlow(gw ModelGateway, store *assetstore.Store, rend renderer.Renderer, opts ...FlowOption) (*CreateFlow, error) {
	if gw == nil {
		return nil, ErrGatewayMustBeSet
	}
	if store == nil {
		return nil, ErrStoreMustBeSet
	}
	if rend == nil {
		return nil, ErrRendererMustBeSet
	}

	cfg := newFlowConfig(opts)

	return &CreateFlow{
		gateway:  gw,
		store:    store,
		renderer: rend,
		parser:   compose.NewParser(cfg.log),
		runner:   NewRunner(cfg.log),
		coord:    NewCoordinator(cfg.bound, cfg.log),
		cfg:      cfg,
	}, nil
}

type imageJob struct {
	prompt string
	space  deck.Space
}

// Run executes the create pipeline: ingest, describe, enrich, merge,
// finalize.
func (f *CreateFlow) Run(ctx context.Context, req CreateRequest) (Result, error) {
	var (
		outline  loader.Outline
		deckCfg  deck.Config
		pages    []deck.Page
		assets   = map[string]string{}
		failed   = map[string]error{}
		document renderer.Document
	)

	pipe, err := New("create", f.runner, f.cfg.pipeOpts...)
	if err != nil {
		return Result{}, err
	}

	pipe.AddStage(Stage{
		Name:   "ingest",
		Policy: NoRetry(),
		Run: func(context.Context) error {
			var err error
			outline, err = loader.ReadOutline(req.OutlinePath, f.cfg.log)

			return err
		},
	})

	pipe.AddStage(Stage{
		Name:   "describe",
		Policy: f.cfg.policy,
		Run: func(ctx context.Context) error {
			raw, err := f.gateway.GenerateDeck(ctx, DeckSpec{
				Outline:        outline.Content,
				Theme:          req.Theme,
				Format:         req.Format,
				GenerateImages: req.GenerateImages,
			})
			if err != nil {
				return err
			}

			deckCfg, pages, err = f.parser.ParseDeck(raw)

			return err
		},
	})

	if req.GenerateImages {
		pipe.AddStage(Stage{
			Name:       "enrich",
			Policy:     NoRetry(),
			Concurrent: f.coord.Bound(),
			Run: func(ctx context.Context) error {
				var err error
				assets, failed, err = f.generateImages(ctx, pages)

				return err
			},
		})
	}

	pipe.AddStage(Stage{
		Name:   "merge",
		Policy: NoRetry(),
		Run: func(context.Context) error {
			pages = compose.Assemble(pages, assets)

			return nil
		},
	})

	pipe.AddStage(Stage{
		Name:   "finalize",
		Policy: NoRetry(),
		Run: func(ctx context.Context) error {
			var err error
			document, err = f.renderer.Render(ctx, deckCfg, pages, req.OutputPath)

			return err
		},
	})

	if err := pipe.Run(ctx); err != nil {
		return Result{}, err
	}

	return Result{
		Document: document,
		Config:   deckCfg,
		Pages:    pages,
		Assets:   assets,
		Failed:   failed,
	}, nil
}

// generateImages fans out one generation task per image element that asked
// for one. Retries live inside each task; the batch itself never retries.
func (f *CreateFlow) generateImages(ctx context.Context, pages []deck.Page) (map[string]string, map[string]error, error) {
	var tasks []TaskRequest[imageJob]

	for pi := range pages {
		for ei := range pages[pi].Elements {
			el := &pages[pi].Elements[ei]
			if !el.IsImage() || !el.Generate || el.Prompt == "" {
				continue
			}
			if el.Source == "" {
				el.Source = fmt.Sprintf("page%d_elem%d", pages[pi].Number, ei)
			}
			tasks = append(tasks, TaskRequest[imageJob]{
				ID: el.Source,
				Payload: imageJob{
					prompt: el.Prompt,
					space:  deck.Space{Width: el.Size.Width, Height: el.Size.Height},
				},
			})
		}
	}
	if len(tasks) == 0 {
		f.cfg.log.Debug("no image elements request generation")

		return map[string]string{}, map[string]error{}, nil
	}

	results, err := RunAll(ctx, f.coord, tasks, func(ctx context.Context, task TaskRequest[imageJob]) (string, error) {
		data, err := RunStep(ctx, f.runner, "generate "+task.ID, f.cfg.policy, func(ctx context.Context) ([]byte, error) {
			return f.gateway.GenerateImage(ctx, task.Payload.prompt, task.Payload.space)
		})
		if err != nil {
			return "", err
		}

		loc, err := f.store.Write(data, task.ID+".png")
		if err != nil {
			return "", err
		}

		return string(loc), nil
	})
	if err != nil {
		return nil, nil, err
	}

	failed := failures(results)
	if len(failed) > 0 {
		f.cfg.log.Warn("deck assembled without some generated images",
			zap.Int("missing", len(failed)))
	}

	return Successes(results), failed, nil
}
