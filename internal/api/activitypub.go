package api

import (
	"errors"
	"fmt"
	"net/http"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MountActivityPub serves the documents other servers dereference and the inboxes they post to. Browsers asking
// for a person or an entry are sent to its web page.
func (h *Handler) MountActivityPub(r chi.Router) {
	r.Get("/actor", InstanceActor(h))
	r.Get("/people/{username}", Actor(h))
	r.Post("/people/{username}/inbox", Inbox(h))
	r.Get("/entry/{userid}/{entryid}", Note(h))
}

func writeActivity(w http.ResponseWriter, r *http.Request, t vocab.Type) {
	data, err := conversions.Serialize(t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", federation.ContentType)
	if _, err = w.Write(data); err != nil {
		log.Error().Err(err).Msg("writing activity")
	}
}

func InstanceActor(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		srv, err := h.service.LocalServer(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeActivity(w, r, conversions.InstanceActor(srv, h.Config.Url.JoinPath("actor"), h.Config.Url))
	}
}

func (h *Handler) localPerson(r *http.Request) (domain.Person, error) {
	id := domain.UserID{Username: chi.URLParam(r, "username"), Hostname: h.Config.Hostname}
	return h.service.ResolvePerson(r.Context(), id.String())
}

func Actor(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.localPerson(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		page := conversions.PersonPage(h.Config.Url, p.UserID())
		if !federation.WantsActivity(r) {
			http.Redirect(w, r, page.String(), http.StatusSeeOther)
			return
		}
		writeActivity(w, r, conversions.PersonToActor(p, page))
	}
}

// Inbox accepts an activity for a local person. Activities this server does not act on are accepted and
// dropped so that the sender does not retry them.
func Inbox(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.service.ReceiveActivity(r.Context(), r, chi.URLParam(r, "username"))
		switch {
		case err == nil:
		case errors.Is(err, federation.ErrUnsupported):
			log.Debug().Err(err).Str("inbox", r.URL.Path).Msg("ignoring activity")
		default:
			log.Warn().Err(err).Str("inbox", r.URL.Path).Msg("rejected activity")
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func Note(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.service.GetEntry(r.Context(), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !e.Author.IsLocal(h.Config.Hostname) {
			writeError(w, r, fmt.Errorf("%w: %s is not published here", db.ErrNotFound, e.Ref()))
			return
		}

		page := conversions.EntryPage(h.Config.Url, e.Ref())
		if !federation.WantsActivity(r) {
			http.Redirect(w, r, page.String(), http.StatusSeeOther)
			return
		}
		writeActivity(w, r, conversions.EntryToNote(e, e.InReplyToApId, page))
	}
}
