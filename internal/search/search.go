package search

import (
	"strings"
	"unicode"

	"github.com/Wididit/Wididit-server/internal/domain"
)

// EntryRecord is the document stored in the index for an entry.
type EntryRecord struct {
	ID        int64    `json:"id"`
	Author    string   `json:"author"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Published int64    `json:"published"`
}

func RecordOf(e domain.Entry) EntryRecord {
	return EntryRecord{
		ID:        e.ID,
		Author:    e.Author.UserID().String(),
		Title:     e.Title,
		Summary:   e.Summary,
		Content:   e.Content,
		Tags:      e.Tags,
		Published: e.Published.Unix(),
	}
}

// ParseTerms splits a free text query into quoted phrases, excluded words (prefixed with '-') and
// required words. An unterminated quote runs to the end of the text.
func ParseTerms(text string) domain.TextFilter {
	var f domain.TextFilter

	for {
		text = strings.TrimSpace(text)
		if text == "" {
			return f
		}

		if text[0] == '"' {
			phrase, rest, _ := strings.Cut(text[1:], `"`)
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				f.Phrases = append(f.Phrases, phrase)
			}
			text = rest
			continue
		}

		word := text
		if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
			word = text[:i]
		}
		text = text[len(word):]
		switch {
		case word == "-":
		case strings.HasPrefix(word, "-"):
			f.Exclude = append(f.Exclude, word[1:])
		default:
			f.Include = append(f.Include, word)
		}
	}
}
