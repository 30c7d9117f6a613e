// Package api serves the JSON API under /api and the ActivityPub documents and inboxes of local people.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/internal/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// MaxBodySize bounds the JSON bodies the API reads.
const MaxBodySize = 1 << 20

type Handler struct {
	Config  *config.Configuration
	service service.Service
	// tokens is nil when no Redis server is configured; bearer tokens are then unavailable.
	tokens *tokens.RedisStore
}

func New(config *config.Configuration, service service.Service, store *tokens.RedisStore) *Handler {
	return &Handler{
		Config:  config,
		service: service,
		tokens:  store,
	}
}

func (h *Handler) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.StripSlashes)
		r.Use(Authenticate(h))

		r.Post("/token", IssueToken(h))
		r.Delete("/token", RevokeToken(h))

		r.Route("/server", func(r chi.Router) {
			r.Get("/", ListServers(h))
			r.Post("/", AddServer(h))
		})

		r.Route("/people", func(r chi.Router) {
			r.Get("/", ListPeople(h))
			r.Post("/", Register(h))
			r.Route("/{userid}", func(r chi.Router) {
				r.Get("/", GetPerson(h))
				r.Put("/", UpdatePerson(h))
				r.Post("/discover", Discover(h))
				r.Get("/subscriptions", Subscriptions(h))
				r.Get("/subscribers", Subscribers(h))
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", Subscribe(h))
			r.Delete("/{userid}", Unsubscribe(h))
		})

		r.Route("/entry", func(r chi.Router) {
			r.Get("/", QueryEntries(h))
			r.Route("/{userid}", func(r chi.Router) {
				r.Get("/", AuthorEntries(h))
				r.Post("/", CreateEntry(h))
				r.Route("/{entryid}", func(r chi.Router) {
					r.Get("/", GetEntry(h))
					r.Put("/", EditEntry(h))
					r.Delete("/", DeleteEntry(h))
					r.Get("/history", EntryHistory(h))
					r.Get("/share", Sharers(h))
					r.Post("/share", Share(h))
					r.Delete("/share", Unshare(h))
				})
			})
		})
	})

	h.MountActivityPub(r)
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetCode maps an error returned by the service to an HTTP status.
func GetCode(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidEntryRef),
		errors.Is(err, federation.ErrMissingProperty),
		errors.Is(err, federation.ErrUnprocessablePropValue):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, federation.ErrUnauthenticated),
		errors.Is(err, tokens.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, federation.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict), errors.Is(err, db.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := GetCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="wididit"`)
	}
	writeJSON(w, code, errorResponse{Error: msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: malformed body: %s", service.ErrInvalidInput, err)
}
