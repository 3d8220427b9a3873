package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/geocover-cli/internal/boundary"
	"github.com/sells-group/geocover-cli/internal/server"
	"github.com/sells-group/geocover-cli/internal/store"
)

var (
	servePort    int
	serveInput   string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve coverage results over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := serveInput
		if input == "" {
			input = cfg.Boundaries.Path
		}
		countries, err := boundary.Load(input)
		if err != nil {
			return err
		}
		zap.L().Info("boundaries loaded", zap.String("path", input), zap.Int("countries", len(countries)))

		var st *store.Store
		if !serveNoStore {
			st, err = store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		srv := server.New(server.Options{
			Countries:       countries,
			Store:           st,
			DefaultMaxDepth: cfg.Coverage.MaxDepth,
			CacheEntries:    cfg.Server.CacheEntries,
			CacheTTL:        time.Duration(cfg.Server.CacheTTLMins) * time.Minute,
			RateLimit:       rate.Limit(cfg.Server.RateLimit),
			RateBurst:       cfg.Server.RateBurst,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = httpSrv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveInput, "input", "", "boundary file, .geojson or .shp (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "disable the persistent result cache")
	rootCmd.AddCommand(serveCmd)
}
