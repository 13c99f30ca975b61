// Command deckbuilder turns outlines or page images into structured decks
// through a generative service.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-deckbuilder/internal/assetstore"
	"github.com/askiada/go-deckbuilder/internal/config"
	"github.com/askiada/go-deckbuilder/internal/gateway"
	"github.com/askiada/go-deckbuilder/internal/renderer"
	"github.com/askiada/go-deckbuilder/pkg/deck"
	"github.com/askiada/go-deckbuilder/pkg/workflow"
	"github.com/askiada/go-deckbuilder/pkg/workflow/drawer"
	"github.com/askiada/go-deckbuilder/pkg/workflow/measure"
	"github.com/askiada/go-deckbuilder/pkg/workflow/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	gw    *gateway.Gemini
	store *assetstore.Store
}

func rootCmd() *cobra.Command {
	var (
		cfgPath  string
		format   string
		theme    string
		output   string
		report   string
		withImgs bool
	)

	root := &cobra.Command{
		Use:           "deckbuilder",
		Short:         "Build structured decks from outlines or page images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file")
	root.PersistentFlags().StringVar(&format, "format", "", "deck format (16:9 or 4:3)")
	root.PersistentFlags().StringVar(&theme, "theme", "", "deck theme")
	root.PersistentFlags().StringVarP(&output, "output", "o", "deck.json", "output document path")
	root.PersistentFlags().StringVar(&report, "report", "", "write a DOT pipeline report to this path")

	create := &cobra.Command{
		Use:   "create <outline>",
		Short: "Generate a deck from a Markdown outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer rt.close()

			flow, err := workflow.NewCreateFlow(rt.gw, rt.store, rendererFor(output),
				flowOptions(rt, report)...)
			if err != nil {
				return err
			}

			res, err := flow.Run(cmd.Context(), workflow.CreateRequest{
				OutlinePath:    args[0],
				OutputPath:     output,
				Theme:          pick(theme, rt.cfg.Theme),
				Format:         deck.Format(pick(format, rt.cfg.DeckFormat)),
				GenerateImages: withImgs,
			})
			if err != nil {
				return err
			}

			return printResult(cmd, res)
		},
	}
	create.Flags().BoolVar(&withImgs, "images", false, "generate images for elements that request them")

	convert := &cobra.Command{
		Use:   "convert <dir>",
		Short: "Rebuild a deck from a directory of page images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer rt.close()

			flow, err := workflow.NewConvertFlow(rt.gw, rt.store, rendererFor(output),
				flowOptions(rt, report)...)
			if err != nil {
				return err
			}

			res, err := flow.Run(cmd.Context(), workflow.ConvertRequest{
				InputDir:   args[0],
				OutputPath: output,
				Format:     deck.Format(pick(format, rt.cfg.DeckFormat)),
			})
			if err != nil {
				return err
			}

			return printResult(cmd, res)
		},
	}

	root.AddCommand(create, convert)

	return root
}

func setup(ctx context.Context, cfgPath string) (*runtime, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := buildLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.NewGemini(ctx, gateway.Config{
		APIKey:     cfg.Gateway.APIKey,
		TextModel:  cfg.Gateway.TextModel,
		ImageModel: cfg.Gateway.ImageModel,
	}, log)
	if err != nil {
		return nil, err
	}

	var storeOpts []assetstore.Option
	if cfg.Assets.MaxBytes > 0 {
		storeOpts = append(storeOpts, assetstore.WithMaxBytes(cfg.Assets.MaxBytes))
	}
	if cfg.Assets.MaxCount > 0 {
		storeOpts = append(storeOpts, assetstore.WithMaxCount(cfg.Assets.MaxCount))
	}
	store, err := assetstore.NewStaging(cfg.Assets.Root, log, storeOpts...)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, gw: gw, store: store}, nil
}

func (rt *runtime) close() {
	_ = rt.log.Sync()
}

func flowOptions(rt *runtime, report string) []workflow.FlowOption {
	opts := []workflow.FlowOption{
		workflow.WithLogger(rt.log),
		workflow.WithBound(rt.cfg.Concurrency),
		workflow.WithRetryPolicy(workflow.RetryPolicy{
			MaxAttempts: rt.cfg.Retry.MaxAttempts,
			BaseDelay:   rt.cfg.Retry.BaseDelay.Std(),
			Multiplier:  rt.cfg.Retry.Multiplier,
		}),
	}

	msr := measure.NewDefaultMeasure()
	pipeOpts := []model.PipelineOption{measure.NewPipelineMeasure(msr)}
	if report != "" {
		pipeOpts = append(pipeOpts, drawer.NewPipelineDrawer(report, msr))
	}

	return append(opts, workflow.WithPipelineOptions(pipeOpts...))
}

func printResult(cmd *cobra.Command, res workflow.Result) error {
	cmd.Printf("wrote %s (%d page(s), %d byte(s))\n",
		res.Document.Path, res.Document.Pages, res.Document.Bytes)
	if len(res.Failed) > 0 {
		cmd.Printf("degraded: %d task(s) failed\n", len(res.Failed))
	}

	return nil
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func rendererFor(outPath string) renderer.Renderer {
	if strings.EqualFold(filepath.Ext(outPath), ".md") {
		return renderer.MarkdownRenderer{}
	}

	return renderer.JSONRenderer{}
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}

	return fallback
}
