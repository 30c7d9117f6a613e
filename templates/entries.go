package templates

import (
	"net/url"
	"strings"

	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/a-h/templ"
)

// EntryForm is the post and edit form. Tags and Contributors are entered as comma separated lists.
type EntryForm struct {
	Title        string
	Subtitle     string
	Summary      string
	Content      string
	Tags         string
	Contributors string
	InReplyTo    string
}

func FormOf(e domain.Entry) EntryForm {
	f := EntryForm{
		Title:    e.Title,
		Subtitle: e.Subtitle,
		Summary:  e.Summary,
		Content:  e.Content,
		Tags:     strings.Join(e.Tags, ", "),
	}
	contributors := make([]string, len(e.Contributors))
	for i, c := range e.Contributors {
		contributors[i] = c.UserID().String()
	}
	f.Contributors = strings.Join(contributors, ", ")
	if e.InReplyTo != nil {
		f.InReplyTo = e.InReplyTo.String()
	}
	return f
}

// EntryPage describes what the viewer of an entry may do with it.
type EntryPage struct {
	Entry     domain.Entry
	History   []domain.Revision
	Sharers   []domain.Person
	CanEdit   bool
	CanDelete bool
	CanShare  bool
	Shared    bool
	Form      EntryForm
}

func personLink(h *html, p domain.Person) {
	h.raw("<a")
	h.href(PersonPath(p.UserID()))
	h.raw(">")
	h.text(p.UserID().String())
	h.raw("</a>")
}

func entryBody(h *html, e domain.Entry, link bool) {
	h.raw(`<article class="entry"><h2>`)
	if link {
		h.raw("<a")
		h.href(EntryPath(e.Ref()))
		h.raw(">")
	}
	if e.Title != "" {
		h.text(e.Title)
	} else {
		h.text(e.Ref().String())
	}
	if link {
		h.raw("</a>")
	}
	h.raw("</h2>")
	if e.Subtitle != "" {
		h.raw(`<p class="subtitle">`)
		h.text(e.Subtitle)
		h.raw("</p>")
	}

	h.raw(`<p class="meta">by `)
	personLink(h, e.Author)
	for _, c := range e.Contributors {
		h.raw(", ")
		personLink(h, c)
	}
	h.raw(" on <time>")
	h.text(formatTime(e.Published))
	h.raw("</time>")
	if e.InReplyTo != nil {
		h.raw(", in reply to <a")
		h.href(EntryPath(*e.InReplyTo))
		h.raw(">")
		h.text(e.InReplyTo.String())
		h.raw("</a>")
	}
	h.raw("</p>")

	if e.Summary != "" {
		h.raw(`<p class="summary">`)
		h.text(e.Summary)
		h.raw("</p>")
	}
	for _, p := range paragraphs(e.Content) {
		h.raw("<p>")
		h.text(p)
		h.raw("</p>")
	}

	if len(e.Tags) != 0 {
		h.raw(`<ul class="tags">`)
		for _, t := range e.Tags {
			h.raw("<li><a")
			h.href("/?tag=" + url.QueryEscape(t))
			h.raw(">#")
			h.text(t)
			h.raw("</a></li>")
		}
		h.raw("</ul>")
	}
	h.raw("</article>")
}

func EntryList(entries []domain.Entry) templ.Component {
	return component(func(h *html) {
		if len(entries) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`)
			return
		}
		for _, e := range entries {
			entryBody(h, e, true)
		}
	})
}

// Index is the home page: the public entries, with a post form for those logged in.
func Index(entries []domain.Entry, authenticated bool) templ.Component {
	return component(func(h *html) {
		if authenticated {
			h.render(PostForm("/web/post/", EntryForm{}, nil))
		}
		h.raw("<h1>Latest entries</h1>")
		h.render(EntryList(entries))
	})
}

func Entry(p EntryPage) templ.Component {
	return component(func(h *html) {
		entryBody(h, p.Entry, false)
		action := EntryPath(p.Entry.Ref())

		if p.CanShare {
			h.raw(`<form method="post"`)
			h.attr("action", action+"share")
			h.raw(">")
			if p.Shared {
				h.raw(`<input type="hidden" name="undo" value="1"><button>Unshare</button>`)
			} else {
				h.raw("<button>Share</button>")
			}
			h.raw("</form>")
		}
		if p.CanDelete {
			h.raw(`<form method="post"`)
			h.attr("action", action+"delete")
			h.raw(`><button class="danger">Delete</button></form>`)
		}

		if len(p.Sharers) != 0 {
			h.raw(`<p class="sharers">Shared by `)
			for i, s := range p.Sharers {
				if i > 0 {
					h.raw(", ")
				}
				personLink(h, s)
			}
			h.raw("</p>")
		}

		if p.CanEdit {
			h.raw("<h2>Edit</h2>")
			h.render(entryForm(action, p.Form, "Save", p.CanDelete))
		}

		if len(p.History) != 0 {
			h.raw(`<h2>History</h2><ol class="history">`)
			for _, r := range p.History {
				h.raw("<li><time>")
				h.text(formatTime(r.Created))
				h.raw("</time> ")
				h.text(r.Editor.String())
				h.raw("<pre>")
				h.text(r.Diff)
				h.raw("</pre></li>")
			}
			h.raw("</ol>")
		}
	})
}

// PostForm shows the form for a new entry, and the entry as it would look when preview is set.
func PostForm(action string, f EntryForm, preview *domain.Entry) templ.Component {
	return component(func(h *html) {
		if preview != nil {
			h.raw(`<section class="preview"><h2>Preview</h2>`)
			entryBody(h, *preview, false)
			h.raw("</section>")
		}
		h.render(entryForm(action, f, "Post", true))
	})
}

func entryForm(action string, f EntryForm, submit string, contributors bool) templ.Component {
	return component(func(h *html) {
		h.raw(`<form class="entry-form" method="post"`)
		h.attr("action", action)
		h.raw(">")
		input(h, "title", "Title", f.Title)
		input(h, "subtitle", "Subtitle", f.Subtitle)
		input(h, "summary", "Summary", f.Summary)
		h.raw(`<label>Content<textarea name="content" rows="8">`)
		h.text(f.Content)
		h.raw("</textarea></label>")
		input(h, "tags", "Tags", f.Tags)
		if contributors {
			input(h, "contributors", "Contributors", f.Contributors)
		}
		if submit == "Post" {
			input(h, "in_reply_to", "In reply to", f.InReplyTo)
			h.raw(`<button name="preview" value="1">Preview</button>`)
		}
		h.raw(`<button name="post" value="1">`)
		h.text(submit)
		h.raw("</button></form>")
	})
}

func input(h *html, name, label, value string) {
	h.raw("<label>")
	h.text(label)
	h.raw(`<input type="text"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw("></label>")
}
