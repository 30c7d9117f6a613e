package wellknown

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/Wididit/Wididit-server/internal/config"
	dbimpl "github.com/Wididit/Wididit-server/internal/db/impl"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/initialization"
	"github.com/Wididit/Wididit-server/internal/service"
	core "github.com/Wididit/Wididit-server/internal/service/impl"
	"github.com/go-chi/chi/v5"
)

var router chi.Router

func TestMain(m *testing.M) {
	u, _ := url.Parse("https://test.host")
	cfg := config.Configuration{
		Hostname:   "test.host",
		Url:        u,
		RsaKeySize: 1024,
	}
	d, err := initialization.OpenDB("file:wellknowntest?mode=memory&cache=shared")
	if err != nil {
		os.Exit(1)
	}
	if err = initialization.SetupDB(&cfg, d, "../../migrations", "wellknowntest"); err != nil {
		os.Exit(1)
	}
	if err = initialization.EnsureInstance(d, &cfg); err != nil {
		os.Exit(1)
	}

	s := core.New(cfg, dbimpl.New(cfg, d), nil, nil)
	_, err = s.CreateAccount(context.Background(), service.NewAccount{
		Username: "alice",
		Email:    "alice@mail.test",
		Password: "correct horse",
	})
	if err != nil {
		os.Exit(1)
	}

	router = chi.NewRouter()
	Mount(&cfg, s, router)
	os.Exit(m.Run())
}

func webfinger(resource string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/.well-known/webfinger?"+url.Values{"resource": {resource}}.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestWebfinger(t *testing.T) {
	w := webfinger("acct:alice@test.host")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != JRDContentType {
		t.Errorf("unexpected content type %s", ct)
	}

	var res federation.WebfingerResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Subject != "acct:alice@test.host" {
		t.Errorf("unexpected subject %s", res.Subject)
	}
	self, err := res.Self()
	if err != nil {
		t.Fatal(err)
	}
	if self.String() != "https://test.host/people/alice" {
		t.Errorf("unexpected actor %s", self)
	}
}

func TestWebfingerErrors(t *testing.T) {
	tests := []struct {
		resource string
		code     int
	}{
		{"acct:bob@test.host", http.StatusNotFound},
		{"acct:alice@other.host", http.StatusBadRequest},
		{"acct:alice", http.StatusBadRequest},
		{"https://test.host/people/alice", http.StatusBadRequest},
		{"acct:not valid@test.host", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			if w := webfinger(tt.resource); w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}
