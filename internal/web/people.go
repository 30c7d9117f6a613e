package web

import (
	"errors"
	"net/http"

	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/templates"
	"github.com/go-chi/chi/v5"
)

func contains(people []domain.Person, id int64) bool {
	for _, p := range people {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Profile shows a person with their own entries and the entries they shared.
func Profile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		p, err := h.service.ResolvePerson(ctx, chi.URLParam(r, "userid"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		userid := p.UserID().String()

		page := templates.ProfilePage{Person: p}
		if page.Entries, err = h.service.QueryEntries(ctx, caller, domain.EntryFilter{Authors: []string{userid}}); err != nil {
			h.fail(w, r, err)
			return
		}
		if page.Subscriptions, err = h.service.Subscriptions(ctx, userid); err != nil {
			h.fail(w, r, err)
			return
		}
		if page.Subscribers, err = h.service.Subscribers(ctx, userid); err != nil {
			h.fail(w, r, err)
			return
		}

		if !caller.Anonymous() {
			page.Self = caller.Person.ID == p.ID
			page.CanSubscribe = !page.Self
			page.Subscribed = contains(page.Subscribers, caller.Person.ID)
		}

		place := templates.PlaceNone
		if page.Self {
			place = templates.PlaceProfile
		}
		h.render(w, r, http.StatusOK, templates.PageData{
			PageTitle: userid,
			Place:     place,
			Child:     templates.Profile(page),
		})
	}
}

func UpdateProfile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err = r.ParseForm(); err != nil {
			h.fail(w, r, errors.Join(service.ErrInvalidInput, err))
			return
		}

		biography := r.PostForm.Get("biography")
		p, err := h.service.UpdatePerson(ctx, caller, chi.URLParam(r, "userid"), service.PersonUpdate{Biography: &biography})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, templates.PersonPath(p.UserID()), http.StatusSeeOther)
	}
}

// Subscribe toggles the caller's subscription to the person in the path. The form sets undo to unsubscribe.
func Subscribe(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err = r.ParseForm(); err != nil {
			h.fail(w, r, errors.Join(service.ErrInvalidInput, err))
			return
		}

		target := chi.URLParam(r, "userid")
		if r.PostForm.Get("undo") != "" {
			err = h.service.Unsubscribe(ctx, caller, target)
		} else {
			_, err = h.service.Subscribe(ctx, caller, target)
		}
		if err != nil && !errors.Is(err, service.ErrConflict) {
			h.fail(w, r, err)
			return
		}

		id, err := domain.ParseUserID(target, h.Config.Hostname)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, templates.PersonPath(id), http.StatusSeeOther)
	}
}
