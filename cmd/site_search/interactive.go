package main

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/loader"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/internal/search"
	"github.com/gcbaptista/site-search/internal/session"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// terminalSink prints session views as plain text.
type terminalSink struct {
	mu             sync.Mutex
	out            io.Writer
	highlightClass string
}

func (t *terminalSink) Render(view render.View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, formatView(view, t.highlightClass))
}

func (t *terminalSink) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "(results cleared)")
}

// runInteractive treats every stdin line as the new content of the search
// box. ":open", ":close", ":reload" and ":quit" control the widget.
func runInteractive(cache *loader.Cache, settings config.Settings, log *zap.Logger, in io.Reader, out io.Writer) {
	sink := &terminalSink{out: out, highlightClass: settings.HighlightClass}
	s := session.New(
		cache,
		search.NewService(settings.MinChars, log),
		render.NewRenderer(settings),
		sink,
		session.WithDebounce(settings.Debounce),
		session.WithLogger(log),
	)
	s.Open()

	fmt.Fprintln(out, "Type to search. Commands: :open :close :reload :quit")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit":
			s.Close()
			return
		case ":open":
			s.Open()
		case ":close":
			s.Close()
		case ":reload":
			cache.Invalidate()
		default:
			s.Input(line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("failed to read input", zap.Error(err))
	}
	s.Close()
}

// formatView renders a view as terminal text, showing highlights in bold.
func formatView(view render.View, highlightClass string) string {
	open := "<mark>"
	if highlightClass != "" {
		open = `<mark class="` + html.EscapeString(highlightClass) + `">`
	}
	plain := func(s string) string {
		s = strings.ReplaceAll(s, open, ansiBold)
		s = strings.ReplaceAll(s, "</mark>", ansiReset)
		return html.UnescapeString(s)
	}

	var b strings.Builder
	switch view.Kind {
	case render.KindResults:
		for i, r := range view.Results {
			fmt.Fprintf(&b, "%d. %s  [%d] %s\n", i+1, plain(string(r.Title)), r.Score, r.URL)
			fmt.Fprintf(&b, "   %s\n", plain(string(r.Excerpt)))
			if len(r.Tags) > 0 {
				tags := make([]string, len(r.Tags))
				for j, tag := range r.Tags {
					tags[j] = "#" + plain(string(tag))
				}
				fmt.Fprintf(&b, "   %s\n", strings.Join(tags, " "))
			}
		}
	case render.KindCleared:
	default:
		fmt.Fprintln(&b, view.Message)
	}
	return b.String()
}
