// Package server exposes the coverage engine over HTTP. Results are served
// from a two-level cache: an in-process LRU in front of the optional SQLite
// store, with the engine as the source of truth on a miss.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/geocover-cli/internal/boundary"
	"github.com/sells-group/geocover-cli/internal/coverage"
	"github.com/sells-group/geocover-cli/internal/store"
)

// maxDepthLimit caps the depth a request may ask for. Depth 5 is already
// 32^5 cells in the worst case; anything beyond that belongs in a batch run.
const maxDepthLimit = 5

// Server serves coverage results for a fixed set of country boundaries.
type Server struct {
	countries       map[string]boundary.Country
	store           *store.Store // optional
	cache           *ResultCache
	limiter         *rate.Limiter
	defaultMaxDepth int
}

// Options configures a Server.
type Options struct {
	Countries       []boundary.Country
	Store           *store.Store // nil disables the persistent layer
	DefaultMaxDepth int
	CacheEntries    int
	CacheTTL        time.Duration
	RateLimit       rate.Limit
	RateBurst       int
}

// New creates a Server from loaded boundaries.
func New(opts Options) *Server {
	byCode := make(map[string]boundary.Country, len(opts.Countries))
	for _, c := range opts.Countries {
		byCode[strings.ToUpper(c.Code)] = c
	}
	if opts.DefaultMaxDepth < 1 {
		opts.DefaultMaxDepth = coverage.DefaultMaxDepth
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 256
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 20
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 40
	}
	return &Server{
		countries:       byCode,
		store:           opts.Store,
		cache:           NewResultCache(opts.CacheEntries, opts.CacheTTL),
		limiter:         rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		defaultMaxDepth: opts.DefaultMaxDepth,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Get("/v1/countries", s.handleCountries)
	r.Get("/v1/countries/{code}/geohashes", s.handleGeohashes)
	r.Get("/v1/cache/stats", s.handleCacheStats)

	return r
}

// rateLimit rejects requests beyond the configured global rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"countries": len(s.countries),
	})
}

// countryInfo is the listing entry for /v1/countries.
type countryInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleCountries(w http.ResponseWriter, _ *http.Request) {
	out := make([]countryInfo, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, countryInfo{Code: c.Code, Name: c.Name})
	}
	sortCountries(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGeohashes(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	country, ok := s.countries[code]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown country code")
		return
	}

	maxDepth := s.defaultMaxDepth
	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > maxDepthLimit {
			writeError(w, http.StatusBadRequest, "max_depth must be an integer between 1 and 5")
			return
		}
		maxDepth = d
	}

	if data := s.cache.Get(code, maxDepth); data != nil {
		writeRawJSON(w, http.StatusOK, data)
		return
	}

	if s.store != nil {
		res, err := s.store.GetResult(r.Context(), code, maxDepth)
		if err != nil {
			zap.L().Warn("server: store lookup failed", zap.String("country", code), zap.Error(err))
		} else if res != nil {
			s.respondResult(w, code, maxDepth, res)
			return
		}
	}

	res := coverage.FindCountryGeohashes(country.Geometry, country.Code, country.Name, maxDepth)
	zap.L().Info("server: computed coverage",
		zap.String("country", code),
		zap.Int("max_depth", maxDepth),
		zap.Int("cells", res.TotalCount),
		zap.Float64("compute_ms", res.ComputeMillis),
	)

	if s.store != nil {
		if err := s.store.SaveResult(r.Context(), "", res, maxDepth); err != nil {
			zap.L().Warn("server: store save failed", zap.String("country", code), zap.Error(err))
		}
	}
	s.respondResult(w, code, maxDepth, res)
}

// respondResult encodes the result once, feeding both the LRU cache and the
// response body.
func (s *Server) respondResult(w http.ResponseWriter, code string, maxDepth int, res *coverage.CountryResult) {
	data, err := json.Marshal(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode result")
		return
	}
	s.cache.Put(code, maxDepth, data)
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sortCountries orders the listing by code.
func sortCountries(list []countryInfo) {
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
}
