package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	authenticated := AuthenticatedMiddleware(h)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(h))
		r.Get("/", Index(h))

		r.Route("/web", func(r chi.Router) {
			r.Get("/connect/", GetConnect(h))
			r.Post("/connect/", Connect(h))
			r.Get("/disconnect/", Disconnect(h))
			r.Get("/register/", GetRegister(h))
			r.Post("/register/", Register(h))

			r.Get("/people/{userid}/", Profile(h))
			r.With(authenticated).Post("/people/{userid}/", UpdateProfile(h))
			r.With(authenticated).Post("/people/{userid}/subscribe", Subscribe(h))

			r.Get("/entry/{userid}/{entryid}/", ShowEntry(h))
			r.With(authenticated).Post("/entry/{userid}/{entryid}/", EditEntry(h))
			r.With(authenticated).Post("/entry/{userid}/{entryid}/share", ShareEntry(h))
			r.With(authenticated).Post("/entry/{userid}/{entryid}/delete", DeleteEntry(h))

			r.With(authenticated).Get("/post/", GetPost(h))
			r.With(authenticated).Post("/post/", Post(h))
		})
	})

	h.MountStaticRoutes(r)
}

func (h *Handler) MountStaticRoutes(r chi.Router) {
	dir := h.Config.StaticDir
	if !filepath.IsAbs(dir) {
		wd, _ := os.Getwd()
		dir = filepath.Join(wd, dir)
	}

	fileServer := http.FileServer(http.FS(os.DirFS(dir)))
	r.Handle("/static/{name}", http.StripPrefix(
		"/static/",
		fileServer,
	))
}
