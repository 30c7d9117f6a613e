package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/internal/tokens"
	"github.com/rs/zerolog/log"
)

type key struct{}

// CallerFrom returns the caller authenticated by Authenticate; anonymous when the request carried no credentials.
func CallerFrom(ctx context.Context) service.Caller {
	c, _ := ctx.Value(key{}).(service.Caller)
	return c
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (h *Handler) basicCaller(r *http.Request, user, password string) (service.Caller, error) {
	ctx := r.Context()
	a, authenticated, err := h.service.AuthenticateUser(ctx, user, password)
	if errors.Is(err, service.ErrInvalidInput) || (err == nil && !authenticated) {
		return service.Caller{}, fmt.Errorf("%w: wrong username or password", service.ErrUnauthorized)
	}
	if err != nil {
		return service.Caller{}, err
	}
	return h.service.CallerOf(ctx, a.PersonID)
}

func (h *Handler) tokenCaller(r *http.Request, token string) (service.Caller, error) {
	if h.tokens == nil {
		return service.Caller{}, fmt.Errorf("%w: tokens are not enabled", service.ErrUnauthorized)
	}
	t, err := h.tokens.Lookup(r.Context(), token)
	if err != nil {
		return service.Caller{}, err
	}
	return h.service.CallerOf(r.Context(), t.PersonID)
}

// Authenticate resolves HTTP Basic credentials or a bearer token to a caller. Requests without credentials go
// through as anonymous; requests with wrong ones are rejected.
func Authenticate(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var caller service.Caller
			var err error

			if user, password, ok := r.BasicAuth(); ok {
				caller, err = h.basicCaller(r, user, password)
			} else if token, ok := bearerToken(r); ok {
				caller, err = h.tokenCaller(r, token)
			} else if r.Header.Get("Authorization") != "" {
				err = fmt.Errorf("%w: unsupported authorization scheme", service.ErrUnauthorized)
			}

			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key{}, caller)))
		})
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken trades HTTP Basic credentials for a bearer token.
func IssueToken(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.tokens == nil {
			writeError(w, r, fmt.Errorf("%w: no token store configured", service.ErrUnavailable))
			return
		}
		if _, _, ok := r.BasicAuth(); !ok {
			writeError(w, r, fmt.Errorf("%w: tokens are issued against a username and password", service.ErrUnauthorized))
			return
		}

		caller := CallerFrom(r.Context())
		token, err := h.tokens.Issue(r.Context(), tokens.Token{
			AccountID: caller.Account.ID,
			PersonID:  caller.Person.ID,
			Username:  caller.Person.Username,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		log.Info().Str("person", caller.Person.UserID().String()).Msg("token issued")
		writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
	}
}

func RevokeToken(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: no bearer token", service.ErrUnauthorized))
			return
		}
		if h.tokens == nil {
			writeError(w, r, fmt.Errorf("%w: no token store configured", service.ErrUnavailable))
			return
		}
		if err := h.tokens.Revoke(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
