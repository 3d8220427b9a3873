package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geocover-cli/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persistent result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show result cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored coverage results",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		n, err := st.Clear(cmd.Context())
		if err != nil {
			return err
		}

		zap.L().Info("cache cleared", zap.Int64("deleted", n))
		fmt.Printf("deleted %d results\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
