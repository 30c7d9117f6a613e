package templates

import (
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/a-h/templ"
)

type ProfilePage struct {
	Person        domain.Person
	Entries       []domain.Entry
	Subscriptions []domain.Person
	Subscribers   []domain.Person
	// CanSubscribe is false for anonymous visitors and on one's own page.
	CanSubscribe bool
	Subscribed   bool
	Self         bool
}

func Profile(p ProfilePage) templ.Component {
	return component(func(h *html) {
		id := p.Person.UserID()
		h.raw(`<section class="profile"><h1>`)
		h.text(id.String())
		h.raw("</h1>")
		if p.Person.Biography != "" {
			h.raw(`<p class="biography">`)
			h.text(p.Person.Biography)
			h.raw("</p>")
		}

		if p.CanSubscribe {
			h.raw(`<form method="post"`)
			h.attr("action", PersonPath(id)+"subscribe")
			h.raw(">")
			if p.Subscribed {
				h.raw(`<input type="hidden" name="undo" value="1"><button>Unsubscribe</button>`)
			} else {
				h.raw("<button>Subscribe</button>")
			}
			h.raw("</form>")
		}
		if p.Self {
			h.raw(`<form method="post"`)
			h.attr("action", PersonPath(id))
			h.raw(`><label>Biography<textarea name="biography" rows="3">`)
			h.text(p.Person.Biography)
			h.raw("</textarea></label><button>Save</button></form>")
		}

		people(h, "Subscriptions", p.Subscriptions)
		people(h, "Subscribers", p.Subscribers)
		h.raw("</section><h2>Entries</h2>")
		h.render(EntryList(p.Entries))
	})
}

func people(h *html, title string, list []domain.Person) {
	if len(list) == 0 {
		return
	}
	h.raw("<h2>")
	h.text(title)
	h.raw(`</h2><ul class="people">`)
	for _, p := range list {
		h.raw("<li>")
		personLink(h, p)
		h.raw("</li>")
	}
	h.raw("</ul>")
}

func Connect(action string) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Log in</h1><form method="post"`)
		h.attr("action", action)
		h.raw(">")
		input(h, "username", "Username or email", "")
		h.raw(`<label>Password<input type="password" name="password"></label>`)
		h.raw("<button>Log in</button></form>")
	})
}

// RegisterForm keeps what was typed when registration fails. Passwords are never echoed back.
type RegisterForm struct {
	Username  string
	Email     string
	Biography string
}

func Register(action string, f RegisterForm, open bool) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>Register</h1>")
		if !open {
			h.raw("<p>Registration is closed on this server.</p>")
			return
		}
		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.raw(">")
		input(h, "username", "Username", f.Username)
		input(h, "email", "Email", f.Email)
		h.raw(`<label>Biography<textarea name="biography" rows="3">`)
		h.text(f.Biography)
		h.raw("</textarea></label>")
		h.raw(`<label>Password<input type="password" name="password"></label>`)
		h.raw(`<label>Password again<input type="password" name="password2"></label>`)
		h.raw("<button>Register</button></form>")
	})
}
