package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/go-chi/chi/v5"
)

// intParam reads a non negative integer query parameter, returning def when it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non negative integer", service.ErrInvalidInput, name)
	}
	return n, nil
}

func ListServers(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		servers, err := h.service.ListServers(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		views := make([]ServerView, len(servers))
		for i, s := range servers {
			views[i] = serverView(s)
		}
		writeJSON(w, http.StatusOK, views)
	}
}

type serverRequest struct {
	Hostname string `json:"hostname"`
}

func AddServer(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serverRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		s, err := h.service.AddServer(r.Context(), CallerFrom(r.Context()), req.Hostname)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, serverView(s))
	}
}

func ListPeople(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intParam(r, "limit", 0)
		if err != nil {
			writeError(w, r, err)
			return
		}
		offset, err := intParam(r, "offset", 0)
		if err != nil {
			writeError(w, r, err)
			return
		}

		people, err := h.service.ListPeople(r.Context(), limit, offset)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, peopleView(people))
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Biography string `json:"biography"`
}

func Register(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		p, err := h.service.Register(r.Context(), service.NewAccount{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			Biography: req.Biography,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, personView(p))
	}
}

func GetPerson(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.service.ResolvePerson(r.Context(), chi.URLParam(r, "userid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, personView(p))
	}
}

type personUpdateRequest struct {
	Biography *string `json:"biography"`
	Password  *string `json:"password"`
}

func UpdatePerson(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req personUpdateRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		p, err := h.service.UpdatePerson(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), service.PersonUpdate{
			Biography: req.Biography,
			Password:  req.Password,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, personView(p))
	}
}

// Discover queues the lookup of a person on another server. The result shows up later through GetPerson.
func Discover(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := h.service.DiscoverPerson(ctx, CallerFrom(ctx), chi.URLParam(r, "userid")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func Subscriptions(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		people, err := h.service.Subscriptions(r.Context(), chi.URLParam(r, "userid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, peopleView(people))
	}
}

func Subscribers(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		people, err := h.service.Subscribers(r.Context(), chi.URLParam(r, "userid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, peopleView(people))
	}
}

type subscribeRequest struct {
	Target string `json:"target"`
}

func Subscribe(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		s, err := h.service.Subscribe(ctx, CallerFrom(ctx), req.Target)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, SubscriptionView{
			Subscriber: s.Subscriber.UserID().String(),
			Target:     s.Target.UserID().String(),
			Created:    s.Created,
		})
	}
}

func Unsubscribe(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := h.service.Unsubscribe(ctx, CallerFrom(ctx), chi.URLParam(r, "userid")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
