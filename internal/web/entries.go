package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/templates"
	"github.com/go-chi/chi/v5"
)

const MaxMemory = 64 * 1024

// splitList reads the comma or space separated lists of the entry form.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

func readEntryForm(w http.ResponseWriter, r *http.Request) (templates.EntryForm, domain.NewEntry, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxMemory)
	if err := r.ParseForm(); err != nil {
		return templates.EntryForm{}, domain.NewEntry{}, errors.Join(service.ErrInvalidInput, err)
	}

	f := templates.EntryForm{
		Title:        r.PostForm.Get("title"),
		Subtitle:     r.PostForm.Get("subtitle"),
		Summary:      r.PostForm.Get("summary"),
		Content:      r.PostForm.Get("content"),
		Tags:         r.PostForm.Get("tags"),
		Contributors: r.PostForm.Get("contributors"),
		InReplyTo:    strings.TrimSpace(r.PostForm.Get("in_reply_to")),
	}
	return f, domain.NewEntry{
		Title:        f.Title,
		Subtitle:     f.Subtitle,
		Summary:      f.Summary,
		Content:      f.Content,
		Tags:         splitList(f.Tags),
		Contributors: splitList(f.Contributors),
		InReplyTo:    f.InReplyTo,
	}, nil
}

// Index lists public entries, narrowed by the tag and q parameters when present.
func Index(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		q := r.URL.Query()
		entries, err := h.service.QueryEntries(ctx, caller, domain.EntryFilter{
			Tag:  q.Get("tag"),
			Text: q.Get("q"),
		})
		if err != nil {
			h.fail(w, r, err)
			return
		}

		h.render(w, r, http.StatusOK, templates.PageData{
			Place: templates.PlaceHome,
			Child: templates.Index(entries, !caller.Anonymous()),
		})
	}
}

func (h *Handler) showEntry(w http.ResponseWriter, r *http.Request, status int, form *templates.EntryForm, failure error) {
	ctx := r.Context()
	caller, err := h.caller(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	userid, entryid := chi.URLParam(r, "userid"), chi.URLParam(r, "entryid")
	e, err := h.service.GetEntry(ctx, userid, entryid)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page := templates.EntryPage{Entry: e}
	if page.History, err = h.service.EntryHistory(ctx, userid, entryid); err != nil {
		h.fail(w, r, err)
		return
	}
	if page.Sharers, err = h.service.Sharers(ctx, userid, entryid); err != nil {
		h.fail(w, r, err)
		return
	}

	if !caller.Anonymous() {
		page.CanEdit = e.Author.IsLocal(h.Config.Hostname) && e.CanEdit(caller.Person)
		page.CanDelete = e.CanDelete(caller.Person)
		page.CanShare = true
		page.Shared = contains(page.Sharers, caller.Person.ID)
	}
	page.Form = templates.FormOf(e)
	if form != nil {
		page.Form = *form
	}

	title := e.Title
	if title == "" {
		title = e.Ref().String()
	}
	h.render(w, r, status, templates.PageData{
		PageTitle: title,
		Place:     templates.PlaceEntry,
		Err:       failure,
		Child:     templates.Entry(page),
	})
}

func ShowEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.showEntry(w, r, http.StatusOK, nil, nil)
	}
}

// EditEntry saves the edit form of the entry page. On failure the page is shown again with what was typed.
func EditEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		form, ne, err := readEntryForm(w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		e, err := h.service.EditEntry(ctx, caller, chi.URLParam(r, "userid"), chi.URLParam(r, "entryid"), ne)
		if err != nil {
			code := GetCode(err)
			if code == http.StatusInternalServerError || code == http.StatusNotFound {
				h.fail(w, r, err)
				return
			}
			h.showEntry(w, r, code, &form, err)
			return
		}
		http.Redirect(w, r, templates.EntryPath(e.Ref()), http.StatusSeeOther)
	}
}

// ShareEntry shares the entry, or stops sharing it when the form sets undo.
func ShareEntry(h *Handler) http.HandlerFunc {
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

		userid, entryid := chi.URLParam(r, "userid"), chi.URLParam(r, "entryid")
		if r.PostForm.Get("undo") != "" {
			err = h.service.Unshare(ctx, caller, userid, entryid)
		} else {
			_, err = h.service.Share(ctx, caller, userid, entryid)
		}
		if err != nil && !errors.Is(err, service.ErrConflict) {
			h.fail(w, r, err)
			return
		}

		ref, err := domain.ParseEntryRef(userid+"/"+entryid, h.Config.Hostname)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, templates.EntryPath(ref), http.StatusSeeOther)
	}
}

func DeleteEntry(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if err = h.service.DeleteEntry(ctx, caller, chi.URLParam(r, "userid"), chi.URLParam(r, "entryid")); err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, templates.PersonPath(caller.Person.UserID()), http.StatusSeeOther)
	}
}

func GetPost(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := templates.EntryForm{InReplyTo: r.URL.Query().Get("in_reply_to")}
		h.render(w, r, http.StatusOK, templates.PageData{
			PageTitle: "New entry",
			Place:     templates.PlacePost,
			Child:     templates.PostForm(PostRoute, form, nil),
		})
	}
}

// Post publishes a new entry, or shows how it would look when the preview button was used.
func Post(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, err := h.caller(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		form, ne, err := readEntryForm(w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		page := templates.PageData{
			PageTitle: "New entry",
			Place:     templates.PlacePost,
		}

		if r.PostForm.Get("preview") != "" {
			preview := domain.Entry{
				Author:    caller.Person,
				Title:     strings.TrimSpace(ne.Title),
				Subtitle:  ne.Subtitle,
				Summary:   ne.Summary,
				Content:   ne.Content,
				Tags:      domain.NormalizeTags(ne.Tags),
				Published: time.Now(),
			}
			page.Child = templates.PostForm(PostRoute, form, &preview)
			h.render(w, r, http.StatusOK, page)
			return
		}

		e, err := h.service.CreateEntry(ctx, caller, caller.Person.UserID().String(), ne)
		if err != nil {
			code := GetCode(err)
			if code == http.StatusInternalServerError {
				h.fail(w, r, err)
				return
			}
			page.Err = err
			page.Child = templates.PostForm(PostRoute, form, nil)
			h.render(w, r, code, page)
			return
		}
		http.Redirect(w, r, templates.EntryPath(e.Ref()), http.StatusSeeOther)
	}
}
