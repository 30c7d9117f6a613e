package templates

import (
	"github.com/a-h/templ"
)

type Place int

const (
	PlaceNone Place = iota
	PlaceHome
	PlacePost
	PlaceProfile
	PlaceEntry
	PlaceConnect
	PlaceRegister
)

type PageData struct {
	SiteName      string
	PageTitle     string
	Authenticated bool
	Username      string
	ProfilePath   string
	Place         Place
	// Flash is a one line notice shown above the page content.
	Flash string
	Err   error
	Child templ.Component
}

func Layout(d PageData) templ.Component {
	return component(func(h *html) {
		h.raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		if d.PageTitle != "" {
			h.text(d.PageTitle)
			h.raw(" - ")
		}
		h.text(d.SiteName)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		h.raw(`<header><a class="site" href="/">`)
		h.text(d.SiteName)
		h.raw("</a><nav>")
		navLink(h, "/", "Home", d.Place == PlaceHome)
		if d.Authenticated {
			navLink(h, "/web/post/", "Post", d.Place == PlacePost)
			navLink(h, d.ProfilePath, d.Username, d.Place == PlaceProfile)
			navLink(h, "/web/disconnect/", "Log out", false)
		} else {
			navLink(h, "/web/connect/", "Log in", d.Place == PlaceConnect)
			navLink(h, "/web/register/", "Register", d.Place == PlaceRegister)
		}
		h.raw("</nav></header><main>")

		if d.Err != nil {
			h.raw(`<p class="error">`)
			h.text(d.Err.Error())
			h.raw("</p>")
		}
		if d.Flash != "" {
			h.raw(`<p class="flash">`)
			h.text(d.Flash)
			h.raw("</p>")
		}
		h.render(d.Child)
		h.raw("</main></body></html>\n")
	})
}

func navLink(h *html, path, label string, current bool) {
	h.raw("<a")
	h.href(path)
	if current {
		h.raw(` aria-current="page"`)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// Message is a page with nothing but a title and a sentence, used after logging in or out.
func Message(title, message string) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>")
		h.text(title)
		h.raw("</h1><p>")
		h.text(message)
		h.raw("</p>")
	})
}
