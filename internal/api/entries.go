package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/go-chi/chi/v5"
)

type entryRequest struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Summary      string   `json:"summary"`
	Content      string   `json:"content"`
	Rights       string   `json:"rights"`
	Generator    string   `json:"generator"`
	Tags         []string `json:"tags"`
	Contributors []string `json:"contributors"`
	InReplyTo    string   `json:"in_reply_to"`
	// Patch is only read on edits.
	Patch string `json:"patch"`
}

func (e entryRequest) toNewEntry() domain.NewEntry {
	return domain.NewEntry{
		Title:        e.Title,
		Subtitle:     e.Subtitle,
		Summary:      e.Summary,
		Content:      e.Content,
		Rights:       e.Rights,
		Generator:    e.Generator,
		Tags:         e.Tags,
		Contributors: e.Contributors,
		InReplyTo:    e.InReplyTo,
		Patch:        e.Patch,
	}
}

// boolParam treats a present but empty parameter, as in ?native, as true.
func boolParam(r *http.Request, name string) (bool, error) {
	q := r.URL.Query()
	if !q.Has(name) {
		return false, nil
	}
	raw := q.Get(name)
	if raw == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", service.ErrInvalidInput, name)
	}
	return b, nil
}

func entryFilter(r *http.Request) (f domain.EntryFilter, err error) {
	q := r.URL.Query()
	if f.Native, err = boolParam(r, "native"); err != nil {
		return
	}
	if f.Shared, err = boolParam(r, "shared"); err != nil {
		return
	}
	if f.Limit, err = intParam(r, "limit", 0); err != nil {
		return
	}
	if f.Offset, err = intParam(r, "offset", 0); err != nil {
		return
	}
	f.Authors = q["author"]
	f.Timeline = q.Get("timeline")
	f.Tag = q.Get("tag")
	f.Text = q.Get("q")
	f.InReplyTo = q.Get("in_reply_to")
	return
}

func queryEntries(h *Handler, w http.ResponseWriter, r *http.Request, f domain.EntryFilter) {
	ctx := r.Context()
	entries, err := h.service.QueryEntries(ctx, CallerFrom(ctx), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesView(entries))
}

func QueryEntries(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := entryFilter(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		queryEntries(h, w, r, f)
	}
}

// AuthorEntries is QueryEntries restricted to the author in the path.
func AuthorEntries(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := entryFilter(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if f.Timeline != "" || len(f.Authors) != 0 {
			writeError(w, r, fmt.Errorf("%w: the author is given by the path", service.ErrInvalidInput))
			return
		}
		f.Authors = []string{chi.URLParam(r, "userid")}
		queryEntries(h, w, r, f)
	}
}

func CreateEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Patch != "" {
			writeError(w, r, fmt.Errorf("%w: a new entry cannot be a patch", service.ErrInvalidInput))
			return
		}

		ctx := r.Context()
		e, err := h.service.CreateEntry(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), req.toNewEntry())
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Location", "/api/entry/"+e.Ref().String())
		writeJSON(w, http.StatusCreated, entryView(e))
	}
}

func GetEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.service.GetEntry(r.Context(), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entryView(e))
	}
}

func EditEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		e, err := h.service.EditEntry(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"), req.toNewEntry())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entryView(e))
	}
}

func DeleteEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := h.service.DeleteEntry(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func EntryHistory(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		revisions, err := h.service.EntryHistory(r.Context(), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		views := make([]RevisionView, len(revisions))
		for i, rev := range revisions {
			views[i] = RevisionView{
				Editor:  rev.Editor.String(),
				Diff:    rev.Diff,
				Created: rev.Created,
			}
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func Sharers(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		people, err := h.service.Sharers(r.Context(), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, peopleView(people))
	}
}

func Share(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s, err := h.service.Share(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, ShareView{
			Person:  s.Person.UserID().String(),
			Created: s.Created,
		})
	}
}

func Unshare(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := h.service.Unshare(ctx, CallerFrom(ctx), chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
