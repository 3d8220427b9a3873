package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"golang.org/x/time/rate"

	"github.com/sells-group/geocover-cli/internal/boundary"
	"github.com/sells-group/geocover-cli/internal/coverage"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	square := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 30, 0, 30, 30, 0, 30, 0, 0}, []int{10})
	return New(Options{
		Countries: []boundary.Country{
			{Code: "SQ", Name: "Squareland", Geometry: square},
		},
		DefaultMaxDepth: 2,
	})
}

func doGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doGet(t, testServer(t), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["countries"])
}

func TestListCountries(t *testing.T) {
	rec := doGet(t, testServer(t), "/v1/countries")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []countryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "SQ", body[0].Code)
}

func TestGeohashesComputesResult(t *testing.T) {
	rec := doGet(t, testServer(t), "/v1/countries/sq/geohashes")
	require.Equal(t, http.StatusOK, rec.Code)

	var res coverage.CountryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "SQ", res.CountryCode)
	assert.NotZero(t, res.TotalCount)
	assert.LessOrEqual(t, res.MaxDepth, 2)
	assert.Contains(t, res.Overlapping, "s")
}

func TestGeohashesMaxDepthParam(t *testing.T) {
	rec := doGet(t, testServer(t), "/v1/countries/SQ/geohashes?max_depth=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var res coverage.CountryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	for _, c := range res.Results {
		assert.Equal(t, 1, c.Depth)
	}
}

func TestGeohashesUnknownCountry(t *testing.T) {
	rec := doGet(t, testServer(t), "/v1/countries/XX/geohashes")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeohashesBadMaxDepth(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "6"} {
		rec := doGet(t, testServer(t), "/v1/countries/SQ/geohashes?max_depth="+raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

func TestGeohashesServedFromCache(t *testing.T) {
	srv := testServer(t)

	first := doGet(t, srv, "/v1/countries/SQ/geohashes")
	require.Equal(t, http.StatusOK, first.Code)
	second := doGet(t, srv, "/v1/countries/SQ/geohashes")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())

	stats := srv.cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
}

func TestCacheStatsEndpoint(t *testing.T) {
	srv := testServer(t)
	_ = doGet(t, srv, "/v1/countries/SQ/geohashes")

	rec := doGet(t, srv, "/v1/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Entries)
}

func TestRateLimit(t *testing.T) {
	square := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 30, 0, 30, 30, 0, 30, 0, 0}, []int{10})
	srv := New(Options{
		Countries: []boundary.Country{{Code: "SQ", Name: "Squareland", Geometry: square}},
		RateLimit: rate.Limit(0.001),
		RateBurst: 1,
	})

	first := doGet(t, srv, "/health")
	require.Equal(t, http.StatusOK, first.Code)

	second := doGet(t, srv, "/health")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
