package web

import (
	"errors"
	"net/http"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/templates"
	"github.com/a-h/templ"
	"github.com/alexedwards/scs"
	"github.com/rs/zerolog/log"
)

const (
	ConnectRoute    = "/web/connect/"
	DisconnectRoute = "/web/disconnect/"
	RegisterRoute   = "/web/register/"
	PostRoute       = "/web/post/"
)

type Handler struct {
	Config         *config.Configuration
	service        service.Service
	SessionManager *scs.Manager
}

func New(config *config.Configuration, service service.Service, manager *scs.Manager) Handler {
	return Handler{
		Config:         config,
		service:        service,
		SessionManager: manager,
	}
}

// render wraps child in the page layout, filling in the session part of the header.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, d templates.PageData) {
	s, ok := GetSession(r.Context())
	d.SiteName = h.Config.Name
	d.Authenticated = ok
	if ok {
		d.Username = s.Username
		d.ProfilePath = templates.PersonPath(domain.UserID{Username: s.Username, Hostname: h.Config.Hostname})
	}

	templ.Handler(templates.Layout(d), templ.WithStatus(status), templ.WithErrorHandler(renderFailed)).ServeHTTP(w, r)
}

// renderFailed replaces a page that could not be rendered; nothing of it has been sent yet.
func renderFailed(r *http.Request, err error) http.Handler {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("rendering page")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}

// fail renders err on an otherwise empty page. Internal errors are logged and not shown.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := GetCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("web request failed")
		err = errors.New("something went wrong on our side")
	}
	h.render(w, r, code, templates.PageData{
		PageTitle: http.StatusText(code),
		Err:       err,
	})
}

func GetCode(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidEntryRef):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
