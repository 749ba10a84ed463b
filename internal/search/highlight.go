package search

import (
	"html"
	"regexp"
	"strings"
)

// Highlight HTML-escapes text and wraps every case-insensitive occurrence of
// query in a <mark> element carrying class. The query is matched literally,
// so characters such as '+', '.' or '*' have no pattern meaning.
func Highlight(text, query, class string) string {
	q := NormalizeQuery(query)
	if q == "" || text == "" {
		return html.EscapeString(text)
	}

	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return html.EscapeString(text)
	}

	open := "<mark>"
	if class != "" {
		open = `<mark class="` + html.EscapeString(class) + `">`
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString(open)
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString("</mark>")
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
