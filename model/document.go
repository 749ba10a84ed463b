package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the normalized, searchable form of one post or page entry.
// Documents are built once from a RawEntry and never modified afterwards.
type Document struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Content    string   `json:"content"` // Plain text, HTML already stripped
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// Collection is the ordered set of documents for one search session.
// Order is the order of entries in the source index.
type Collection []Document

// Label is a tag or category name. The index may encode it either as a plain
// string or as an object carrying a "name" field; both decode to the name.
type Label string

// UnmarshalJSON implements json.Unmarshaler for Label.
// Values that are neither a string nor an object with a string name decode to "".
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)
		return nil
	}

	var named struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &named); err == nil {
		*l = Label(named.Name)
		return nil
	}

	*l = ""
	return nil
}

// RawEntry is one entry of the search index exactly as it appears on the wire.
type RawEntry struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Path       string  `json:"path"` // Used when URL is empty
	Content    string  `json:"content"`
	Tags       []Label `json:"tags"`
	Categories []Label `json:"categories"`
}

// RawIndex is the decoded search index. The index may be a flat array of
// entries or an object with a "posts" array.
type RawIndex struct {
	Posts []RawEntry
}

// UnmarshalJSON implements json.Unmarshaler for RawIndex.
func (ri *RawIndex) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty search index")
	}

	switch trimmed[0] {
	case '[':
		var entries []RawEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		ri.Posts = entries
	case '{':
		var wrapped struct {
			Posts []RawEntry `json:"posts"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return err
		}
		ri.Posts = wrapped.Posts
	default:
		return fmt.Errorf("search index must be an array or an object with a 'posts' field")
	}
	return nil
}

// NewDocument normalizes a raw entry into a Document.
// stripHTML converts the entry's HTML content to plain text; nil keeps it as-is.
func NewDocument(raw RawEntry, stripHTML func(string) string) Document {
	url := raw.URL
	if url == "" {
		url = raw.Path
	}

	content := raw.Content
	if stripHTML != nil {
		content = stripHTML(content)
	}

	return Document{
		Title:      raw.Title,
		URL:        url,
		Content:    content,
		Tags:       labelsToStrings(raw.Tags),
		Categories: labelsToStrings(raw.Categories),
	}
}

// NewCollection normalizes every entry of the index, preserving order.
func NewCollection(index RawIndex, stripHTML func(string) string) Collection {
	docs := make(Collection, 0, len(index.Posts))
	for _, raw := range index.Posts {
		docs = append(docs, NewDocument(raw, stripHTML))
	}
	return docs
}

// labelsToStrings converts labels to their text form. Empty labels are kept
// so that positions in the source index are preserved.
func labelsToStrings(labels []Label) []string {
	result := make([]string, 0, len(labels)) // Never nil
	for _, l := range labels {
		result = append(result, string(l))
	}
	return result
}
