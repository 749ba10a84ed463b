package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/loader"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/model"
)

const testIndex = `{"posts": [
  {"title": "Rust Guide", "url": "/rust-guide/", "content": "<p>Ownership &amp; borrowing.</p>", "tags": ["systems", "rust", "memory", "safety"]},
  {"title": "Go Tutorial", "url": "/go/", "content": "<p>Goroutines, and rust mentioned once.</p>", "tags": []},
  {"title": "Cooking", "path": "cooking/index.html", "content": "Pasta.", "categories": [{"name": "Life"}]}
]}`

// indexServer serves the test index and counts fetches. status can be
// changed between requests.
type indexServer struct {
	*httptest.Server
	hits   int32
	status int32
}

func newIndexServer(t *testing.T) *indexServer {
	t.Helper()
	s := &indexServer{status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.hits, 1)
		status := int(atomic.LoadInt32(&s.status))
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(testIndex))
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *indexServer) Hits() int32 {
	return atomic.LoadInt32(&s.hits)
}

func setupTestRouter(t *testing.T, srv *indexServer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache := loader.NewCache(loader.New(), srv.URL+"/search.json")
	router := gin.New()
	SetupRoutes(router, NewAPI(cache, config.Settings{HighlightClass: "hl"}, nil))
	return router
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) SearchResponse {
	t.Helper()
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheckHandler(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	w := doRequest(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["collection_loaded"])
}

func TestSearchHandler_RanksResults(t *testing.T) {
	srv := newIndexServer(t)
	router := setupTestRouter(t, srv)

	w := doRequest(router, http.MethodGet, "/search?q=rust")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeSearch(t, w)
	assert.NotEmpty(t, resp.QueryID)
	assert.Equal(t, "rust", resp.Query)
	assert.Equal(t, render.KindResults, resp.Kind)
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, `<mark class="hl">Rust</mark> Guide`, string(resp.Results[0].Title))
	assert.Equal(t, 15, resp.Results[0].Score)
	assert.Len(t, resp.Results[0].Tags, 3)
	assert.Equal(t, "Go Tutorial", string(resp.Results[1].Title))
	assert.Equal(t, 1, resp.Results[1].Score)
	assert.True(t, resp.Results[1].Matches.Content)

	// second search reuses the collection
	doRequest(router, http.MethodGet, "/search?q=go")
	assert.Equal(t, int32(1), srv.Hits())
}

func TestSearchHandler_NoResults(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	resp := decodeSearch(t, doRequest(router, http.MethodGet, "/search?q=haskell"))
	assert.Equal(t, render.KindEmpty, resp.Kind)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, config.DefaultNoResultsText, resp.Message)
	assert.NotNil(t, resp.Results)
}

func TestSearchHandler_ShortQuerySkipsLoad(t *testing.T) {
	srv := newIndexServer(t)
	router := setupTestRouter(t, srv)

	for _, q := range []string{"", "r", "%20r%20"} {
		w := doRequest(router, http.MethodGet, "/search?q="+q)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeSearch(t, w)
		assert.Equal(t, render.KindCleared, resp.Kind)
		assert.Empty(t, resp.Results)
	}
	assert.Equal(t, int32(0), srv.Hits())
}

func TestSearchHandler_HTMLFormat(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	w := doRequest(router, http.MethodGet, "/search?q=rust&format=html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.NotEmpty(t, w.Header().Get("X-Query-ID"))
	assert.Contains(t, w.Body.String(), `<mark class="hl">Rust</mark> Guide`)
	assert.Contains(t, w.Body.String(), `href="/rust-guide/"`)
}

func TestSearchHandler_Validation(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	tests := []struct {
		name   string
		target string
		code   ErrorCode
	}{
		{name: "unknown format", target: "/search?q=rust&format=xml", code: ErrorCodeValidationFailed},
		{name: "query too long", target: "/search?q=" + strings.Repeat("a", 300), code: ErrorCodeInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, "Bad Request", apiErr.Error)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestSearchHandler_LoadFailureThenRetry(t *testing.T) {
	srv := newIndexServer(t)
	atomic.StoreInt32(&srv.status, http.StatusInternalServerError)
	router := setupTestRouter(t, srv)

	w := doRequest(router, http.MethodGet, "/search?q=rust")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrorCodeLoadFailed, apiErr.Code)
	assert.Contains(t, apiErr.Message, "500")
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "500", apiErr.Details[0].Code)
	assert.Equal(t, srv.URL+"/search.json", apiErr.Details[0].Message)

	atomic.StoreInt32(&srv.status, http.StatusOK)
	w = doRequest(router, http.MethodGet, "/search?q=rust")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeSearch(t, w).Total)
	assert.Equal(t, int32(2), srv.Hits())
}

func TestGetDocumentsHandler(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	w := doRequest(router, http.MethodGet, "/documents?page=2&page_size=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Documents []DocumentSummary `json:"documents"`
		Total     int               `json:"total"`
		Page      int               `json:"page"`
		PageSize  int               `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Page)
	require.Len(t, body.Documents, 1)
	assert.Equal(t, "Cooking", body.Documents[0].Title)
	assert.Equal(t, "cooking/index.html", body.Documents[0].URL)
	assert.Equal(t, []string{"Life"}, body.Documents[0].Categories)

	w = doRequest(router, http.MethodGet, "/documents?page=9")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Documents)

	w = doRequest(router, http.MethodGet, "/documents?page=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReloadHandler(t *testing.T) {
	srv := newIndexServer(t)
	router := setupTestRouter(t, srv)

	doRequest(router, http.MethodGet, "/search?q=rust")
	assert.Equal(t, int32(1), srv.Hits())

	w := doRequest(router, http.MethodPost, "/reload")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), srv.Hits())

	doRequest(router, http.MethodGet, "/search?q=rust")
	assert.Equal(t, int32(2), srv.Hits())

	w = doRequest(router, http.MethodPost, "/reload?eager=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(3), srv.Hits())

	atomic.StoreInt32(&srv.status, http.StatusServiceUnavailable)
	w = doRequest(router, http.MethodPost, "/reload?eager=true")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetAnalyticsHandler(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	doRequest(router, http.MethodGet, "/search?q=rust")
	doRequest(router, http.MethodGet, "/search?q=Rust")
	doRequest(router, http.MethodGet, "/search?q=haskell")
	doRequest(router, http.MethodGet, "/search?q=r") // not executed, not tracked

	w := doRequest(router, http.MethodGet, "/analytics")
	require.Equal(t, http.StatusOK, w.Code)

	var summary model.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalSearches)
	assert.Equal(t, 1, summary.ZeroResultCount)
	assert.True(t, summary.CollectionLoaded)
	assert.Equal(t, 3, summary.DocumentCount)
	require.NotEmpty(t, summary.PopularSearches)
	assert.Equal(t, "rust", summary.PopularSearches[0].Query)
	assert.Equal(t, 2, summary.PopularSearches[0].SearchCount)
}

func TestMiddleware(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))

	w := doRequest(router, http.MethodGet, "/health")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = doRequest(router, http.MethodOptions, "/search")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, newIndexServer(t))
	doRequest(router, http.MethodGet, "/search?q=rust")

	w := doRequest(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "site_search_searches_total")
	assert.Contains(t, w.Body.String(), "site_search_index_loads_total")
}

func TestValidatePagination(t *testing.T) {
	page, size, result := ValidatePagination(0, 0)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, size)

	_, size, _ = ValidatePagination(1, 1000)
	assert.Equal(t, maxPageSize, size)

	_, _, result = ValidatePagination(-1, -1)
	assert.Len(t, result.Errors, 2)
}
