package main

import (
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geocover-cli/internal/boundary"
	"github.com/sells-group/geocover-cli/internal/coverage"
	"github.com/sells-group/geocover-cli/internal/store"
)

var (
	batchInput       string
	batchMaxDepth    int
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute coverage for every country in a boundary file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := batchInput
		if input == "" {
			input = cfg.Boundaries.Path
		}
		maxDepth := batchMaxDepth
		if maxDepth == 0 {
			maxDepth = cfg.Coverage.MaxDepth
		}

		countries, err := boundary.Load(input)
		if err != nil {
			return err
		}
		if len(countries) == 0 {
			return eris.Errorf("no countries found in %s", input)
		}

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runID, err := st.CreateRun(ctx, input, len(countries))
		if err != nil {
			return err
		}
		zap.L().Info("batch started",
			zap.String("run_id", runID),
			zap.Int("countries", len(countries)),
			zap.Int("max_depth", maxDepth),
		)

		var done atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		for _, country := range countries {
			country := country
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				result := coverage.FindCountryGeohashes(country.Geometry, country.Code, country.Name, maxDepth)
				if err := st.SaveResult(gctx, runID, result, maxDepth); err != nil {
					return err
				}

				zap.L().Info("country done",
					zap.String("country", country.Code),
					zap.Int("cells", result.TotalCount),
					zap.Int64("progress", done.Add(1)),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			_ = st.FinishRun(ctx, runID, "failed")
			return eris.Wrap(err, "batch run")
		}

		if err := st.FinishRun(ctx, runID, "completed"); err != nil {
			return err
		}
		zap.L().Info("batch completed", zap.String("run_id", runID), zap.Int64("countries", done.Load()))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "boundary file, .geojson or .shp (default from config)")
	batchCmd.Flags().IntVar(&batchMaxDepth, "max-depth", 0, "subdivision depth limit (default from config)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max countries processed in parallel")
	rootCmd.AddCommand(batchCmd)
}
