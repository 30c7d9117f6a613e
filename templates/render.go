// Package templates holds the HTML components of the web pages.
package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/a-h/templ"
)

var root = &url.URL{Path: "/"}

// html writes markup and stops at the first write error, which Render then returns.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s ...string) {
	for _, part := range s {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *html) href(u string) {
	h.attr("href", string(templ.URL(u)))
}

func (h *html) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func component(f func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		f(h)
		return h.err
	})
}

func PersonPath(id domain.UserID) string {
	return conversions.PersonPage(root, id).Path
}

func EntryPath(ref domain.EntryRef) string {
	return conversions.EntryPage(root, ref).Path
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

// paragraphs splits plain text content on blank lines.
func paragraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
