package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/geocover-cli/internal/boundary"
	"github.com/sells-group/geocover-cli/internal/coverage"
)

var (
	coverInput    string
	coverCountry  string
	coverMaxDepth int
	coverFormat   string
	coverSummary  bool
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Compute geohash coverage for one country",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := coverInput
		if input == "" {
			input = cfg.Boundaries.Path
		}
		maxDepth := coverMaxDepth
		if maxDepth == 0 {
			maxDepth = cfg.Coverage.MaxDepth
		}

		countries, err := boundary.Load(input)
		if err != nil {
			return err
		}

		country, ok := boundary.Find(countries, coverCountry)
		if !ok {
			return eris.Errorf("country %q not found in %s", coverCountry, input)
		}

		result := coverage.FindCountryGeohashes(country.Geometry, country.Code, country.Name, maxDepth)
		zap.L().Info("coverage computed",
			zap.String("country", result.CountryCode),
			zap.Int("cells", result.TotalCount),
			zap.Int("max_depth", result.MaxDepth),
			zap.Float64("compute_ms", result.ComputeMillis),
		)

		if coverSummary {
			printSummary(result)
			return nil
		}
		return renderResult(os.Stdout, result, coverFormat)
	},
}

// renderResult writes the result in the requested format.
func renderResult(w io.Writer, result *coverage.CountryResult, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode json")
		}
	default:
		return eris.Errorf("unknown format %q (want json or yaml)", format)
	}
	return nil
}

// printSummary writes a per-depth table to stdout.
func printSummary(result *coverage.CountryResult) {
	fmt.Printf("%s (%s): %d cells, %.1fms\n",
		result.CountryName, result.CountryCode, result.TotalCount, result.ComputeMillis)
	fmt.Printf("%-6s %10s %12s %8s\n", "depth", "contained", "overlapping", "total")
	for _, dc := range result.DepthSummary() {
		fmt.Printf("%-6d %10d %12d %8d\n", dc.Depth, dc.Contained, dc.Overlapping, dc.Total)
	}
}

func init() {
	coverCmd.Flags().StringVar(&coverInput, "input", "", "boundary file, .geojson or .shp (default from config)")
	coverCmd.Flags().StringVar(&coverCountry, "country", "", "ISO country code")
	coverCmd.Flags().IntVar(&coverMaxDepth, "max-depth", 0, "subdivision depth limit (default from config)")
	coverCmd.Flags().StringVar(&coverFormat, "format", "json", "output format: json or yaml")
	coverCmd.Flags().BoolVar(&coverSummary, "summary", false, "print a per-depth summary instead of the full result")
	_ = coverCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(coverCmd)
}
