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

// ConvertRequest describes one convert run: turn a directory of page images
// into a rendered deck.
type ConvertRequest struct {
	InputDir   string
	OutputPath string
	Format     deck.Format
}

// ConvertFlow rebuilds a deck from page images. Each unit is analysed
// independently under the fan-out bound; a unit that fails analysis is
// skipped with a warning, and only a run in which every unit fails aborts.
type ConvertFlow struct {
	gateway  ModelGateway
	store    *assetstore.Store
	renderer renderer.Renderer

	parser *compose.Parser
	runner *Runner
	coord  *Coordinator
	cfg    flowConfig
}

// NewConvertFlow wires a convert flow. Gateway, store and renderer are
// mandatory collaborators.
func NewConvertFlow(gw ModelGateway, store *assetstore.Store, rend renderer.Renderer, opts ...FlowOption) (*ConvertFlow, error) {
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

	return &ConvertFlow{
		gateway:  gw,
		store:    store,
		renderer: rend,
		parser:   compose.NewParser(cfg.log),
		runner:   NewRunner(cfg.log),
		coord:    NewCoordinator(cfg.bound, cfg.log),
		cfg:      cfg,
	}, nil
}

// Run executes the convert pipeline: ingest, describe, enrich, merge,
// finalize.
func (f *ConvertFlow) Run(ctx context.Context, req ConvertRequest) (Result, error) {
	deckCfg := deck.ConfigForFormat(string(req.Format))

	var (
		units    []loader.Unit
		pages    []deck.Page
		assets   = map[string]string{}
		failed   = map[string]error{}
		document renderer.Document
	)

	pipe, err := New("convert", f.runner, f.cfg.pipeOpts...)
	if err != nil {
		return Result{}, err
	}

	pipe.AddStage(Stage{
		Name:   "ingest",
		Policy: NoRetry(),
		Run: func(ctx context.Context) error {
			src, err := loader.NewDirSource(req.InputDir)
			if err != nil {
				return err
			}
			units, err = loader.Drain(ctx, src)

			return err
		},
	})

	pipe.AddStage(Stage{
		Name:       "describe",
		Policy:     NoRetry(),
		Concurrent: f.coord.Bound(),
		Run: func(ctx context.Context) error {
			var err error
			units, pages, failed, err = f.analyzeUnits(ctx, units, deckCfg.Space)

			return err
		},
	})

	pipe.AddStage(Stage{
		Name:   "enrich",
		Policy: NoRetry(),
		Run: func(ctx context.Context) error {
			assets = f.extractAssets(ctx, units, pages)

			return nil
		},
	})

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

// analyzeUnits fans the units out for analysis and reassembles the surviving
// pages in unit order, each normalised from its own coordinate space into
// the target space. It returns the surviving units alongside their pages.
func (f *ConvertFlow) analyzeUnits(ctx context.Context, units []loader.Unit, target deck.Space) ([]loader.Unit, []deck.Page, map[string]error, error) {
	tasks := make([]TaskRequest[loader.Unit], 0, len(units))
	for _, unit := range units {
		tasks = append(tasks, TaskRequest[loader.Unit]{ID: unit.ID, Payload: unit})
	}

	results, err := RunAll(ctx, f.coord, tasks, func(ctx context.Context, task TaskRequest[loader.Unit]) (deck.Page, error) {
		unit := task.Payload

		raw, err := RunStep(ctx, f.runner, "analyze "+unit.ID, f.cfg.policy, func(ctx context.Context) ([]byte, error) {
			return f.gateway.AnalyzePage(ctx, PageImage{Data: unit.Data, MIME: unit.MIME, Space: unit.Space})
		})
		if err != nil {
			return deck.Page{}, err
		}

		page, err := f.parser.ParsePage(raw, unit.Space)
		if err != nil {
			return deck.Page{}, err
		}
		if err := compose.NormalizePage(&page, unit.Space, target); err != nil {
			return deck.Page{}, err
		}

		return page, nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	// Completion order is irrelevant: pages keep their input positions, and
	// the numbering closes ranks over skipped units.
	kept := make([]loader.Unit, 0, len(units))
	pages := make([]deck.Page, 0, len(units))
	for _, unit := range units {
		res := results[unit.ID]
		if res.Status != TaskSuccess {
			f.cfg.log.Warn("skipping unit after failed analysis",
				zap.String("id", unit.ID), zap.Error(res.Err))

			continue
		}

		page := res.Value
		page.Number = len(pages) + 1
		kept = append(kept, unit)
		pages = append(pages, page)
	}

	return kept, pages, failures(results), nil
}

// extractAssets stages the raster content of every image element. Extraction
// failures degrade the element to its placeholder source instead of failing
// the run.
func (f *ConvertFlow) extractAssets(ctx context.Context, units []loader.Unit, pages []deck.Page) map[string]string {
	assets := map[string]string{}

	for pi := range pages {
		for ei := range pages[pi].Elements {
			el := &pages[pi].Elements[ei]
			if !el.IsImage() {
				continue
			}
			if el.Source == "" {
				el.Source = fmt.Sprintf("page%d_elem%d", pages[pi].Number, ei)
			}

			data, err := f.cfg.extractor.Extract(ctx, units[pi], *el)
			if err != nil {
				f.cfg.log.Warn("unable to extract image asset",
					zap.String("id", el.Source), zap.Error(err))

				continue
			}

			loc, err := f.store.Write(data, el.Source+".png")
			if err != nil {
				f.cfg.log.Warn("unable to stage image asset",
					zap.String("id", el.Source), zap.Error(err))

				continue
			}
			assets[el.Source] = string(loc)
		}
	}

	return assets
}
