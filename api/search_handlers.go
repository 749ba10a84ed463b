package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/site-search/internal/errors"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/internal/search"
	"github.com/gcbaptista/site-search/model"
)

// SearchRequest holds the query parameters of a search.
type SearchRequest struct {
	Query  string `form:"q"`
	Format string `form:"format"` // "json" (default) or "html"
}

// SearchResponse is the JSON body returned by SearchHandler.
type SearchResponse struct {
	QueryID string              `json:"query_id"` // unique UUID for this search query
	Query   string              `json:"query"`
	Total   int                 `json:"total"`
	Took    int64               `json:"took"` // milliseconds
	Kind    render.Kind         `json:"kind"`
	Message string              `json:"message,omitempty"`
	Results []render.ResultView `json:"results"`
}

// DocumentSummary is the listing form of a document.
type DocumentSummary struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// SearchHandler handles GET /search?q=...
// Queries below the minimum length return a cleared view without loading the index.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	var req SearchRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	queryID := uuid.New().String()
	query := search.NormalizeQuery(req.Query)

	var view render.View
	total := 0
	if !search.IsSearchable(query, api.searcher.MinChars()) {
		view = api.renderer.Cleared(query)
	} else {
		docs, err := api.source.Get(c.Request.Context())
		if err != nil {
			api.sendLoadError(c, err)
			return
		}

		results := api.searcher.Search(query, docs)
		total = len(results)
		view = api.renderer.Render(results, query)

		api.analytics.TrackSearchEvent(model.SearchEvent{
			QueryID:      queryID,
			Query:        query,
			ResponseTime: time.Since(startTime),
			ResultCount:  total,
		})
	}

	if req.Format == "html" {
		fragment, err := view.HTML()
		if err != nil {
			SendInternalError(c, "render results", err)
			return
		}
		c.Header("X-Query-ID", queryID)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		QueryID: queryID,
		Query:   query,
		Total:   total,
		Took:    time.Since(startTime).Milliseconds(),
		Kind:    view.Kind,
		Message: view.Message,
		Results: view.Results,
	})
}

// GetDocumentsHandler lists the loaded collection with pagination.
func (api *API) GetDocumentsHandler(c *gin.Context) {
	var params struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	page, pageSize, result := ValidatePagination(params.Page, params.PageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	docs, err := api.source.Get(c.Request.Context())
	if err != nil {
		api.sendLoadError(c, err)
		return
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(docs) {
		start = len(docs)
	}
	if end > len(docs) {
		end = len(docs)
	}

	summaries := make([]DocumentSummary, 0, end-start)
	for _, doc := range docs[start:end] {
		summaries = append(summaries, DocumentSummary{
			Title:      doc.Title,
			URL:        doc.URL,
			Tags:       doc.Tags,
			Categories: doc.Categories,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": summaries,
		"total":     len(docs),
		"page":      page,
		"page_size": pageSize,
	})
}

// ReloadHandler drops the cached collection. With eager=true the index is
// fetched again immediately and load failures are reported.
func (api *API) ReloadHandler(c *gin.Context) {
	api.source.Invalidate()
	api.logger.Info("search index invalidated")

	if c.Query("eager") != "true" {
		c.JSON(http.StatusOK, gin.H{"message": "Search index will be reloaded on next search"})
		return
	}

	docs, err := api.source.Get(c.Request.Context())
	if err != nil {
		api.sendLoadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Search index reloaded", "total": len(docs)})
}

// sendLoadError reports an index load failure with the same message the
// search widget shows inline.
func (api *API) sendLoadError(c *gin.Context, err error) {
	if errors.Is(err, internalErrors.ErrLoadFailed) {
		SendLoadError(c, api.renderer.Failure(err).Message, err)
		return
	}
	SendInternalError(c, "load search index", err)
}
