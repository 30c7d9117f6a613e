package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/templates"
	"github.com/rs/zerolog/log"
)

const SessionKey = "person"

type Session struct {
	PersonID  int64
	AccountID int64
	Username  string
}

type key struct{}

func GetSession(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(key{}).(Session)
	return s, ok
}

// caller loads the person behind the session; an anonymous caller is returned when there is none.
func (h *Handler) caller(ctx context.Context) (service.Caller, error) {
	s, ok := GetSession(ctx)
	if !ok {
		return service.Caller{}, nil
	}
	return h.service.CallerOf(ctx, s.PersonID)
}

func SessionMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s Session
			session := handler.SessionManager.Load(r)
			err := session.GetObject(SessionKey, &s)
			if err != nil {
				log.Debug().Err(err).Msg("unreadable session")
			}
			if err == nil && s.PersonID != 0 {
				r = r.WithContext(context.WithValue(r.Context(), key{}, s))
			}

			h.ServeHTTP(w, r)
		})
	}
}

// AuthenticatedMiddleware sends anonymous visitors to the login page, which brings them back afterwards.
func AuthenticatedMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r.Context()); ok {
				h.ServeHTTP(w, r)
				return
			}
			prev := r.URL.Path
			if r.Method != http.MethodGet {
				prev = r.Referer()
			}
			http.Redirect(w, r, ConnectRoute+"?"+url.Values{"prev": {prev}}.Encode(), http.StatusSeeOther)
		})
	}
}

// localPath keeps prev only when it points into this site. Browsers read a backslash as a slash, so "/\host"
// would leave it as well.
func localPath(prev string) string {
	u, err := url.Parse(prev)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") ||
		strings.Contains(u.Path, `\`) {
		return "/"
	}
	if uri := u.RequestURI(); strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "//") {
		return uri
	}
	return "/"
}

func GetConnect(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderConnect(w, r, http.StatusOK, nil)
	}
}

func (h *Handler) renderConnect(w http.ResponseWriter, r *http.Request, status int, err error) {
	action := ConnectRoute
	if prev := r.URL.Query().Get("prev"); prev != "" {
		action += "?" + url.Values{"prev": {prev}}.Encode()
	}
	h.render(w, r, status, templates.PageData{
		PageTitle: "Log in",
		Place:     templates.PlaceConnect,
		Err:       err,
		Child:     templates.Connect(action),
	})
}

// Connect logs the visitor in, ending any session they already had.
func Connect(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := h.SessionManager.Load(r)
		if err := r.ParseForm(); err != nil {
			h.renderConnect(w, r, http.StatusBadRequest, errors.New("unreadable form"))
			return
		}

		a, authenticated, err := h.service.AuthenticateUser(ctx, r.PostForm.Get("username"), r.PostForm.Get("password"))
		if err != nil && !errors.Is(err, service.ErrInvalidInput) {
			log.Error().Err(err).Msg("authenticating web user")
			h.renderConnect(w, r, http.StatusInternalServerError, errors.New("unable to log in right now"))
			return
		}
		if !authenticated {
			h.renderConnect(w, r, http.StatusUnauthorized, errors.New("invalid username or password"))
			return
		}

		if err = session.PutObject(w, SessionKey, Session{
			PersonID:  a.PersonID,
			AccountID: a.ID,
			Username:  a.Username,
		}); err != nil {
			log.Error().Err(err).Msg("storing session")
			h.renderConnect(w, r, http.StatusInternalServerError, errors.New("failed to create session"))
			return
		}
		http.Redirect(w, r, localPath(r.URL.Query().Get("prev")), http.StatusSeeOther)
	}
}

func Disconnect(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.SessionManager.Load(r).Destroy(w); err != nil {
			log.Error().Err(err).Msg("destroying session")
		}
		http.Redirect(w, r, localPath(r.URL.Query().Get("prev")), http.StatusSeeOther)
	}
}

func GetRegister(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderRegister(w, r, http.StatusOK, templates.RegisterForm{}, nil)
	}
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, f templates.RegisterForm, err error) {
	h.render(w, r, status, templates.PageData{
		PageTitle: "Register",
		Place:     templates.PlaceRegister,
		Err:       err,
		Child:     templates.Register(RegisterRoute, f, h.Config.RegistrationOpen),
	})
}

// Register creates an account and logs its owner in.
func Register(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			h.renderRegister(w, r, http.StatusBadRequest, templates.RegisterForm{}, errors.New("unreadable form"))
			return
		}
		form := templates.RegisterForm{
			Username:  r.PostForm.Get("username"),
			Email:     r.PostForm.Get("email"),
			Biography: r.PostForm.Get("biography"),
		}
		password := r.PostForm.Get("password")
		if password != r.PostForm.Get("password2") {
			h.renderRegister(w, r, http.StatusBadRequest, form, errors.New("the passwords do not match"))
			return
		}

		p, err := h.service.Register(ctx, service.NewAccount{
			Username:  form.Username,
			Email:     form.Email,
			Password:  password,
			Biography: form.Biography,
		})
		if err != nil {
			code := GetCode(err)
			if code == http.StatusInternalServerError {
				log.Error().Err(err).Msg("web registration")
				err = errors.New("registration failed")
			}
			h.renderRegister(w, r, code, form, err)
			return
		}

		err = h.SessionManager.Load(r).PutObject(w, SessionKey, Session{
			PersonID:  p.ID,
			AccountID: p.AccountID,
			Username:  p.Username,
		})
		if err != nil {
			log.Error().Err(err).Msg("storing session")
		}
		http.Redirect(w, r, templates.PersonPath(p.UserID()), http.StatusSeeOther)
	}
}
