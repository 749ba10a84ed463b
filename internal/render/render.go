// Package render turns ranked search results into display views: highlighted
// titles, excerpts and tags, or the loading, empty and error placeholders.
package render

import (
	"bytes"
	"html/template"

	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/search"
	"github.com/gcbaptista/site-search/services"
)

// Kind identifies what a View shows.
type Kind string

const (
	KindResults Kind = "results"
	KindEmpty   Kind = "empty"
	KindLoading Kind = "loading"
	KindError   Kind = "error"
	KindCleared Kind = "cleared" // query too short, results area emptied
)

// ResultView is one rendered result. Title, Excerpt and Tags are safe HTML
// with query occurrences wrapped in <mark> elements.
type ResultView struct {
	Title   template.HTML       `json:"title"`
	URL     string              `json:"url"`
	Excerpt template.HTML       `json:"excerpt"`
	Tags    []template.HTML     `json:"tags,omitempty"`
	Score   int                 `json:"score"`
	Matches services.MatchFlags `json:"matches"`
}

// View is what the results area should show.
type View struct {
	Kind    Kind         `json:"kind"`
	Query   string       `json:"query,omitempty"`
	Message string       `json:"message,omitempty"`
	Results []ResultView `json:"results"`
}

// Renderer builds views using the configured marker class, display strings
// and excerpt length.
type Renderer struct {
	highlightClass string
	noResultsText  string
	loadingText    string
	excerptLength  int
	maxTags        int
}

// NewRenderer creates a Renderer from settings. Defaults are applied to a copy.
func NewRenderer(settings config.Settings) *Renderer {
	settings.ApplyDefaults()
	return &Renderer{
		highlightClass: settings.HighlightClass,
		noResultsText:  settings.NoResultsText,
		loadingText:    settings.LoadingText,
		excerptLength:  settings.ExcerptLength,
		maxTags:        settings.MaxTags,
	}
}

// Render produces the view for ranked results. An empty result list yields
// the no-results placeholder.
func (r *Renderer) Render(results []services.ScoredResult, query string) View {
	q := search.NormalizeQuery(query)
	if len(results) == 0 {
		return View{Kind: KindEmpty, Query: q, Message: r.noResultsText, Results: []ResultView{}}
	}

	views := make([]ResultView, 0, len(results))
	for _, res := range results {
		doc := res.Document

		// Highlight escapes its input, so the HTML conversions below are safe
		excerpt := search.Excerpt(doc.Content, q, r.excerptLength)
		rv := ResultView{
			Title:   template.HTML(search.Highlight(doc.Title, q, r.highlightClass)),
			URL:     doc.URL,
			Excerpt: template.HTML(search.Highlight(excerpt, q, r.highlightClass)),
			Score:   res.Score,
			Matches: res.Matches,
		}

		for i, tag := range doc.Tags {
			if i >= r.maxTags {
				break
			}
			rv.Tags = append(rv.Tags, template.HTML(search.Highlight(tag, q, r.highlightClass)))
		}
		views = append(views, rv)
	}

	return View{Kind: KindResults, Query: q, Results: views}
}

// Cleared is the view for a query below the minimum length.
func (r *Renderer) Cleared(query string) View {
	return View{Kind: KindCleared, Query: search.NormalizeQuery(query), Results: []ResultView{}}
}

// Loading is the view shown while the index is being fetched.
func (r *Renderer) Loading() View {
	return View{Kind: KindLoading, Message: r.loadingText, Results: []ResultView{}}
}

// Failure is the inline view shown when the index could not be loaded.
func (r *Renderer) Failure(err error) View {
	msg := "Search is unavailable right now. Please try again."
	if err != nil {
		msg = "Failed to load search index: " + err.Error()
	}
	return View{Kind: KindError, Message: msg, Results: []ResultView{}}
}

var viewTemplate = template.Must(template.New("view").Parse(`
{{- if eq .Kind "results" -}}
<ul class="search-results">
{{- range .Results }}
<li class="search-result">
<a class="search-result-title" href="{{ .URL }}">{{ .Title }}</a>
<p class="search-result-excerpt">{{ .Excerpt }}</p>
{{- if .Tags }}
<div class="search-result-tags">{{ range .Tags }}<span class="search-result-tag">{{ . }}</span>{{ end }}</div>
{{- end }}
</li>
{{- end }}
</ul>
{{- else if eq .Kind "empty" -}}
<div class="search-no-results"><p>{{ .Message }}</p></div>
{{- else if eq .Kind "loading" -}}
<div class="search-loading">{{ .Message }}</div>
{{- else if eq .Kind "error" -}}
<div class="search-error">{{ .Message }}</div>
{{- end -}}
`))

// HTML renders the view as an HTML fragment for the results container.
func (v View) HTML() (string, error) {
	var buf bytes.Buffer
	if err := viewTemplate.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
