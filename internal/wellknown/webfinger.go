package wellknown

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const JRDContentType = "application/jrd+json"

type Handler struct {
	Config  *config.Configuration
	service service.Service
}

func Mount(cfg *config.Configuration, s service.Service, r chi.Router) {
	h := &Handler{Config: cfg, service: s}
	r.Route("/.well-known", func(r chi.Router) {
		r.Get("/webfinger", WebfingerEndpoint(h))
	})
}

// WebfingerEndpoint answers acct: lookups for the people of this server.
func WebfingerEndpoint(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.URL.Query().Get("resource")
		acct, found := strings.CutPrefix(resource, "acct:")
		if !found || !strings.Contains(acct, "@") {
			http.Error(w, "resource must be acct:user@host", http.StatusBadRequest)
			return
		}

		id, err := domain.ParseUserID(acct, h.Config.Hostname)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if id.Hostname != h.Config.Hostname {
			http.Error(w, "not a user of this server", http.StatusBadRequest)
			return
		}

		p, err := h.service.ResolvePerson(r.Context(), id.String())
		if err != nil {
			http.Error(w, "", handleErr(err))
			return
		}

		res := federation.WebfingerResponse{
			Subject: "acct:" + id.String(),
			Aliases: []string{p.ApId.String()},
			Links: []federation.WebfingerLink{
				{Rel: "self", Type: federation.ContentType, Href: p.ApId.String()},
				{Rel: "http://webfinger.net/rel/profile-page", Type: "text/html", Href: conversions.PersonPage(h.Config.Url, id).String()},
			},
		}

		w.Header().Set("Content-Type", JRDContentType)
		if err = json.NewEncoder(w).Encode(res); err != nil {
			log.Error().Err(err).Msg("unable to marshal webfinger response")
		}
	}
}

func handleErr(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("webfinger lookup")
		return http.StatusInternalServerError
	}
}
