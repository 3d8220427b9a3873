package coverage

import (
	"sort"
	"time"
)

// CountryResult is the terminal output of one FindCountryGeohashes call.
// It is constructed once, never mutated after return, and carries no
// relationship to any other call's result.
type CountryResult struct {
	CountryCode    string       `json:"country_code" yaml:"country_code"`
	CountryName    string       `json:"country_name" yaml:"country_name"`
	Results        []CellResult `json:"results" yaml:"results"`
	FullyContained []string     `json:"fully_contained" yaml:"fully_contained"`
	Overlapping    []string     `json:"overlapping" yaml:"overlapping"`
	TotalCount     int          `json:"total_count" yaml:"total_count"`
	MaxDepth       int          `json:"max_depth" yaml:"max_depth"`
	ComputeMillis  float64      `json:"compute_ms" yaml:"compute_ms"`
}

// DepthCount summarizes one depth level of a result.
type DepthCount struct {
	Depth       int `json:"depth" yaml:"depth"`
	Contained   int `json:"contained" yaml:"contained"`
	Overlapping int `json:"overlapping" yaml:"overlapping"`
	Total       int `json:"total" yaml:"total"`
}

// DepthGroup lists the geohashes of one depth level, split by status and
// sorted lexicographically.
type DepthGroup struct {
	Depth       int      `json:"depth" yaml:"depth"`
	Contained   []string `json:"contained" yaml:"contained"`
	Overlapping []string `json:"overlapping" yaml:"overlapping"`
}

// aggregate partitions the explorer's flat cell list into the final result.
// MaxDepth is the deepest depth actually reached, which may be less than the
// requested limit for a small country.
func aggregate(code, name string, cells []CellResult, elapsed time.Duration) *CountryResult {
	r := &CountryResult{
		CountryCode:    code,
		CountryName:    name,
		Results:        cells,
		FullyContained: make([]string, 0, len(cells)),
		Overlapping:    make([]string, 0, len(cells)),
		TotalCount:     len(cells),
		ComputeMillis:  float64(elapsed.Microseconds()) / 1000,
	}

	for _, c := range cells {
		switch c.Status {
		case StatusContained:
			r.FullyContained = append(r.FullyContained, c.Geohash)
		case StatusOverlapping:
			r.Overlapping = append(r.Overlapping, c.Geohash)
		}
		if c.Depth > r.MaxDepth {
			r.MaxDepth = c.Depth
		}
	}

	return r
}

// DepthSummary returns per-depth cell counts, ordered by ascending depth.
// Depths with no cells are omitted.
func (r *CountryResult) DepthSummary() []DepthCount {
	byDepth := make(map[int]*DepthCount)
	for _, c := range r.Results {
		dc, ok := byDepth[c.Depth]
		if !ok {
			dc = &DepthCount{Depth: c.Depth}
			byDepth[c.Depth] = dc
		}
		switch c.Status {
		case StatusContained:
			dc.Contained++
		case StatusOverlapping:
			dc.Overlapping++
		}
		dc.Total++
	}

	out := make([]DepthCount, 0, len(byDepth))
	for _, dc := range byDepth {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

// GroupByDepth returns the geohash strings of each depth level split by
// status, sorted lexicographically within a depth, ordered by ascending
// depth.
func (r *CountryResult) GroupByDepth() []DepthGroup {
	byDepth := make(map[int]*DepthGroup)
	for _, c := range r.Results {
		dg, ok := byDepth[c.Depth]
		if !ok {
			dg = &DepthGroup{Depth: c.Depth}
			byDepth[c.Depth] = dg
		}
		switch c.Status {
		case StatusContained:
			dg.Contained = append(dg.Contained, c.Geohash)
		case StatusOverlapping:
			dg.Overlapping = append(dg.Overlapping, c.Geohash)
		}
	}

	out := make([]DepthGroup, 0, len(byDepth))
	for _, dg := range byDepth {
		sort.Strings(dg.Contained)
		sort.Strings(dg.Overlapping)
		out = append(out, *dg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}
