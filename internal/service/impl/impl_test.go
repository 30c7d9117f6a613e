package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	dbimpl "github.com/Wididit/Wididit-server/internal/db/impl"
	"github.com/Wididit/Wididit-server/internal/diff"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/initialization"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/google/go-cmp/cmp"
)

var (
	ctx = context.Background()
	cfg config.Configuration
	DB  db.DB
)

func TestMain(m *testing.M) {
	u, _ := url.Parse("https://test.host")
	cfg = config.Configuration{
		Hostname:         "test.host",
		Url:              u,
		RsaKeySize:       1024,
		RegistrationOpen: true,
		PageSize:         20,
		MaxPageSize:      100,
	}
	d, err := initialization.OpenDB("file:coretest?mode=memory&cache=shared")
	if err != nil {
		os.Exit(1)
	}
	if err = initialization.SetupDB(&cfg, d, "../../../migrations", "coretest"); err != nil {
		os.Exit(1)
	}
	if err = initialization.EnsureInstance(d, &cfg); err != nil {
		os.Exit(1)
	}
	DB = dbimpl.New(cfg, d)
	os.Exit(m.Run())
}

// fakeGateway records what the service asks of the federation layer. Discover succeeds for the people in
// remote.
type fakeGateway struct {
	mu     sync.Mutex
	calls  []string
	remote map[string]domain.Person
	seq    int
}

func (g *fakeGateway) record(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) ReceiveActivity(ctx context.Context, r *http.Request, recipient domain.Person) error {
	g.record("receive %s", recipient.Username)
	return nil
}

func (g *fakeGateway) Discover(ctx context.Context, userid domain.UserID) (domain.Person, error) {
	g.record("discover %s", userid)
	p, ok := g.remote[userid.String()]
	if !ok {
		return domain.Person{}, errors.New("no such actor")
	}
	return DB.UpsertRemotePerson(ctx, p, time.Now())
}

func (g *fakeGateway) EnqueueDiscover(userid domain.UserID) error {
	g.record("enqueue discover %s", userid)
	return nil
}

func (g *fakeGateway) ActivityIRI() *url.URL {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return cfg.Url.JoinPath("activities", fmt.Sprint(g.seq))
}

func (g *fakeGateway) Follow(ctx context.Context, s domain.Subscription) error {
	g.record("follow %s %s", s.Target.UserID(), s.ApId)
	return nil
}

func (g *fakeGateway) Unfollow(ctx context.Context, s domain.Subscription) error {
	g.record("unfollow %s %s", s.Target.UserID(), s.ApId)
	return nil
}

func (g *fakeGateway) PublishEntry(ctx context.Context, e domain.Entry) error {
	g.record("create %s", e.Ref())
	return nil
}

func (g *fakeGateway) PublishUpdate(ctx context.Context, e domain.Entry) error {
	g.record("update %s", e.Ref())
	return nil
}

func (g *fakeGateway) PublishDelete(ctx context.Context, e domain.Entry) error {
	g.record("delete %s", e.Ref())
	return nil
}

func (g *fakeGateway) PublishShare(ctx context.Context, sharer domain.Person, e domain.Entry) error {
	g.record("share %s %s", sharer.Username, e.Ref())
	return nil
}

func (g *fakeGateway) PublishUnshare(ctx context.Context, sharer domain.Person, e domain.Entry) error {
	g.record("unshare %s %s", sharer.Username, e.Ref())
	return nil
}

func newService(t *testing.T) (*AppService, *fakeGateway) {
	t.Helper()
	g := &fakeGateway{remote: map[string]domain.Person{}}
	return New(cfg, DB, g, nil), g
}

func account(t *testing.T, s *AppService, username string, admin bool) service.Caller {
	t.Helper()
	p, err := s.CreateAccount(ctx, service.NewAccount{
		Username: username,
		Email:    username + "@mail.test",
		Password: "correct horse",
		Admin:    admin,
	})
	if err != nil {
		t.Fatalf("creating %s: %s", username, err)
	}
	c, err := s.CallerOf(ctx, p.ID)
	if err != nil {
		t.Fatalf("caller %s: %s", username, err)
	}
	return c
}

func remotePerson(username, host string) domain.Person {
	apId, _ := url.Parse(fmt.Sprintf("https://%s/users/%s", host, username))
	return domain.Person{
		Username: username,
		Hostname: host,
		ApId:     apId,
		Inbox:    apId.JoinPath("inbox"),
	}
}

func TestCreateAccountAndAuthenticate(t *testing.T) {
	s, _ := newService(t)
	c := account(t, s, "authuser", false)

	if c.Person.ApId.String() != "https://test.host/people/authuser" {
		t.Errorf("unexpected actor IRI %s", c.Person.ApId)
	}
	if c.Person.PublicKey == "" {
		t.Error("expected a public key")
	}

	for _, user := range []string{"authuser", "AuthUser@Mail.test"} {
		a, ok, err := s.AuthenticateUser(ctx, user, "correct horse")
		if err != nil {
			t.Fatal(err)
		}
		if !ok || a.PersonID != c.Person.ID {
			t.Errorf("expected %s to authenticate as person %d, got %t and %d", user, c.Person.ID, ok, a.PersonID)
		}
	}

	if _, ok, err := s.AuthenticateUser(ctx, "authuser", "Correct Horse"); ok || err != nil {
		t.Errorf("expected wrong password to fail without error, got %t, %v", ok, err)
	}
	if _, ok, err := s.AuthenticateUser(ctx, "nobody", "correct horse"); ok || err != nil {
		t.Errorf("expected unknown user to fail without error, got %t, %v", ok, err)
	}
}

func TestCreateAccountErrors(t *testing.T) {
	s, _ := newService(t)
	account(t, s, "taken", false)

	tests := []struct {
		name string
		a    service.NewAccount
		want error
	}{
		{"duplicate username", service.NewAccount{Username: "taken", Email: "other@mail.test", Password: "long enough"}, service.ErrConflict},
		{"duplicate email", service.NewAccount{Username: "other", Email: "taken@mail.test", Password: "long enough"}, service.ErrConflict},
		{"bad username", service.NewAccount{Username: "no spaces", Email: "x@mail.test", Password: "long enough"}, service.ErrInvalidInput},
		{"short password", service.NewAccount{Username: "shorty", Email: "shorty@mail.test", Password: "short"}, service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateAccount(ctx, tt.a); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterClosed(t *testing.T) {
	closed := cfg
	closed.RegistrationOpen = false
	s := New(closed, DB, nil, nil)

	_, err := s.Register(ctx, service.NewAccount{Username: "latecomer", Email: "late@mail.test", Password: "long enough"})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdatePerson(t *testing.T) {
	s, _ := newService(t)
	owner := account(t, s, "owner", false)
	other := account(t, s, "intruder", false)

	bio := "hello there"
	if _, err := s.UpdatePerson(ctx, other, "owner", service.PersonUpdate{Biography: &bio}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	password := "a new password"
	p, err := s.UpdatePerson(ctx, owner, "owner@test.host", service.PersonUpdate{Biography: &bio, Password: &password})
	if err != nil {
		t.Fatal(err)
	}
	if p.Biography != bio {
		t.Errorf("expected biography %q, got %q", bio, p.Biography)
	}
	if _, ok, _ := s.AuthenticateUser(ctx, "owner", password); !ok {
		t.Error("expected the new password to work")
	}
}

func TestResolvePerson(t *testing.T) {
	s, _ := newService(t)
	c := account(t, s, "resolved", false)

	for _, id := range []string{"resolved", "resolved@test.host", "@resolved@TEST.HOST"} {
		p, err := s.ResolvePerson(ctx, id)
		if err != nil {
			t.Fatalf("%s: %s", id, err)
		}
		if p.ID != c.Person.ID {
			t.Errorf("%s resolved to %d, expected %d", id, p.ID, c.Person.ID)
		}
	}

	for _, id := range []string{"ghost", "resolved@unknown.host"} {
		if _, err := s.ResolvePerson(ctx, id); !errors.Is(err, db.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", id, err)
		}
	}
	if _, err := s.ResolvePerson(ctx, "bad user"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEntryLifecycle(t *testing.T) {
	s, g := newService(t)
	author := account(t, s, "writer", false)
	helper := account(t, s, "helper", false)
	reader := account(t, s, "reader", false)

	if _, err := s.CreateEntry(ctx, reader, "writer", domain.NewEntry{Content: "impostor"}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.CreateEntry(ctx, service.Caller{}, "writer", domain.NewEntry{Content: "anonymous"}); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	e, err := s.CreateEntry(ctx, author, "writer", domain.NewEntry{
		Title:        " First ",
		Content:      "the quick brown fox",
		Tags:         []string{"Animals/Fox", "#animals/fox"},
		Contributors: []string{"helper", "writer", "helper@test.host"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Seq != 1 || e.Title != "First" {
		t.Errorf("unexpected entry %d %q", e.Seq, e.Title)
	}
	if diff := cmp.Diff([]string{"animals/fox"}, e.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if len(e.Contributors) != 1 || e.Contributors[0].ID != helper.Person.ID {
		t.Errorf("expected helper as the only contributor, got %v", e.Contributors)
	}

	reply, err := s.CreateEntry(ctx, reader, "reader", domain.NewEntry{Content: "nice", InReplyTo: "writer/1"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.InReplyTo == nil || *reply.InReplyTo != e.Ref() {
		t.Errorf("expected reply to %s, got %v", e.Ref(), reply.InReplyTo)
	}
	if _, err = s.CreateEntry(ctx, reader, "reader", domain.NewEntry{Content: "x", InReplyTo: "writer/99"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a missing parent, got %v", err)
	}

	if _, err = s.EditEntry(ctx, reader, "writer", "1", domain.NewEntry{Content: "vandalized"}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	edited, err := s.EditEntry(ctx, helper, "writer", "1", domain.NewEntry{Title: "First", Content: "the quick red fox"})
	if err != nil {
		t.Fatal(err)
	}
	if edited.Content != "the quick red fox" {
		t.Errorf("unexpected content %q", edited.Content)
	}
	if len(edited.Contributors) != 1 {
		t.Errorf("a contributor's edit changed the contributors: %v", edited.Contributors)
	}

	history, err := s.EntryHistory(ctx, "writer", "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Editor != helper.Person.UserID() || history[0].Diff == "" {
		t.Errorf("unexpected history %+v", history)
	}

	if err = s.DeleteEntry(ctx, helper, "writer", "1"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err = s.DeleteEntry(ctx, author, "writer", "1"); err != nil {
		t.Fatal(err)
	}
	if _, err = s.GetEntry(ctx, "writer", "1"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	want := []string{
		"create writer@test.host/1",
		"create reader@test.host/1",
		"update writer@test.host/1",
		"delete writer@test.host/1",
	}
	if diff := cmp.Diff(want, g.Calls()); diff != "" {
		t.Errorf("gateway calls mismatch (-want +got):\n%s", diff)
	}
}

func TestEditEntryWithPatch(t *testing.T) {
	s, _ := newService(t)
	author := account(t, s, "patcher", false)

	before := "The quick brown fox jumps over the lazy dog."
	after := "The quick red fox leaps over the lazy dog!"
	_, err := s.CreateEntry(ctx, author, "patcher", domain.NewEntry{
		Title:   "Foxes",
		Summary: "about foxes",
		Content: before,
		Tags:    []string{"animals"},
	})
	if err != nil {
		t.Fatal(err)
	}

	e, err := s.EditEntry(ctx, author, "patcher", "1", domain.NewEntry{Patch: diff.FindPatches(before, after)})
	if err != nil {
		t.Fatal(err)
	}
	if e.Content != after {
		t.Errorf("expected %q, got %q", after, e.Content)
	}
	if e.Title != "Foxes" || e.Summary != "about foxes" || len(e.Tags) != 1 || e.Tags[0] != "animals" {
		t.Errorf("expected the other fields to be kept, got %+v", e)
	}

	// Fields set along with a patch are changed.
	e, err = s.EditEntry(ctx, author, "patcher", "1", domain.NewEntry{
		Title: "Red foxes",
		Patch: diff.FindPatches(after, after+" Twice."),
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Title != "Red foxes" || e.Summary != "about foxes" || e.Content != after+" Twice." {
		t.Errorf("unexpected entry %+v", e)
	}

	if _, err = s.EditEntry(ctx, author, "patcher", "1", domain.NewEntry{Content: "0000000000000000000000000000"}); err != nil {
		t.Fatal(err)
	}
	patch := diff.FindPatches("alpha beta gamma", "alpha delta gamma")
	if _, err = s.EditEntry(ctx, author, "patcher", "1", domain.NewEntry{Patch: patch}); !errors.Is(err, service.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestEntryNotFound(t *testing.T) {
	s, _ := newService(t)
	account(t, s, "empty", false)

	if _, err := s.GetEntry(ctx, "empty", "1"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetEntry(ctx, "empty", "first"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQueryEntries(t *testing.T) {
	s, _ := newService(t)
	alice := account(t, s, "qalice", false)
	bob := account(t, s, "qbob", false)
	carol := account(t, s, "qcarol", false)

	mustPost := func(c service.Caller, content string, tags ...string) domain.Entry {
		t.Helper()
		e, err := s.CreateEntry(ctx, c, c.Person.Username, domain.NewEntry{Content: content, Tags: tags})
		if err != nil {
			t.Fatal(err)
		}
		return e
	}
	a1 := mustPost(alice, "alice writes about jazz", "music/jazz")
	b1 := mustPost(bob, "bob writes about rock", "music/rock")
	mustPost(carol, "carol writes about music", "music")

	if _, err := s.Share(ctx, bob, "qalice", "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Subscribe(ctx, carol, "qbob"); err != nil {
		t.Fatal(err)
	}

	refs := func(entries []domain.Entry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Ref().String()
		}
		return out
	}

	tests := []struct {
		name   string
		caller service.Caller
		f      domain.EntryFilter
		want   []string
	}{
		{"native author", service.Caller{}, domain.EntryFilter{Native: true, Authors: []string{"qbob"}}, []string{b1.Ref().String()}},
		{"author with shares", service.Caller{}, domain.EntryFilter{Authors: []string{"qbob"}}, []string{b1.Ref().String(), a1.Ref().String()}},
		{"timeline of caller", carol, domain.EntryFilter{Timeline: "me"}, []string{b1.Ref().String(), a1.Ref().String()}},
		{"shared timeline", service.Caller{}, domain.EntryFilter{Timeline: "qcarol", Shared: true}, []string{a1.Ref().String()}},
		{"empty timeline", service.Caller{}, domain.EntryFilter{Timeline: "qalice"}, []string{}},
		{"tag descendants", service.Caller{}, domain.EntryFilter{Native: true, Authors: []string{"qalice", "qbob"}, Tag: "#Music"}, []string{b1.Ref().String(), a1.Ref().String()}},
		{"text", service.Caller{}, domain.EntryFilter{Native: true, Authors: []string{"qalice", "qbob"}, Text: "about -rock"}, []string{a1.Ref().String()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.QueryEntries(ctx, tt.caller, tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, refs(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := s.QueryEntries(ctx, alice, domain.EntryFilter{Authors: []string{"qbob"}, Timeline: "me"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.QueryEntries(ctx, service.Caller{}, domain.EntryFilter{Timeline: "me"}); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	s, g := newService(t)
	fan := account(t, s, "fan", false)
	account(t, s, "star", false)

	if _, err := s.Subscribe(ctx, fan, "fan"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a self subscription, got %v", err)
	}
	if _, err := s.Subscribe(ctx, fan, "star"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Subscribe(ctx, fan, "star"); !errors.Is(err, service.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	g.remote["faraway@remote.test"] = remotePerson("faraway", "remote.test")
	sub, err := s.Subscribe(ctx, fan, "faraway@remote.test")
	if err != nil {
		t.Fatal(err)
	}
	if sub.ApId == nil {
		t.Error("expected a Follow IRI for a remote subscription")
	}
	if _, err = s.Subscribe(ctx, fan, "nobody@remote.test"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	subscriptions, err := s.Subscriptions(ctx, "fan")
	if err != nil {
		t.Fatal(err)
	}
	if len(subscriptions) != 2 {
		t.Errorf("expected 2 subscriptions, got %d", len(subscriptions))
	}

	if err = s.Unsubscribe(ctx, fan, "faraway@remote.test"); err != nil {
		t.Fatal(err)
	}
	if err = s.Unsubscribe(ctx, fan, "faraway@remote.test"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	follow := sub.ApId.String()
	want := []string{
		"follow star@test.host <nil>",
		"discover faraway@remote.test",
		"follow faraway@remote.test " + follow,
		"discover nobody@remote.test",
		"unfollow faraway@remote.test " + follow,
	}
	if diff := cmp.Diff(want, g.Calls()); diff != "" {
		t.Errorf("gateway calls mismatch (-want +got):\n%s", diff)
	}
}

func TestShare(t *testing.T) {
	s, g := newService(t)
	author := account(t, s, "shared", false)
	sharer := account(t, s, "sharer", false)

	if _, err := s.CreateEntry(ctx, author, "shared", domain.NewEntry{Content: "worth sharing"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Share(ctx, sharer, "shared", "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Share(ctx, sharer, "shared", "1"); !errors.Is(err, service.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	sharers, err := s.Sharers(ctx, "shared", "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sharers) != 1 || sharers[0].ID != sharer.Person.ID {
		t.Errorf("unexpected sharers %v", sharers)
	}

	if err = s.Unshare(ctx, sharer, "shared", "1"); err != nil {
		t.Fatal(err)
	}

	want := []string{"create shared@test.host/1", "share sharer shared@test.host/1", "unshare sharer shared@test.host/1"}
	if diff := cmp.Diff(want, g.Calls()); diff != "" {
		t.Errorf("gateway calls mismatch (-want +got):\n%s", diff)
	}
}

func TestServers(t *testing.T) {
	s, _ := newService(t)
	admin := account(t, s, "root", true)
	user := account(t, s, "mortal", false)

	if _, err := s.AddServer(ctx, user, "peer.test"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.AddServer(ctx, admin, "not a host"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	srv, err := s.AddServer(ctx, admin, " Peer.Test ")
	if err != nil {
		t.Fatal(err)
	}
	if srv.Hostname != "peer.test" || srv.Local {
		t.Errorf("unexpected server %+v", srv)
	}
	if _, err = s.AddServer(ctx, admin, "peer.test"); !errors.Is(err, service.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	local, err := s.LocalServer(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !local.Local || local.Hostname != cfg.Hostname {
		t.Errorf("unexpected local server %+v", local)
	}
}

func TestDiscoverPerson(t *testing.T) {
	s, g := newService(t)
	c := account(t, s, "explorer", false)

	if err := s.DiscoverPerson(ctx, c, "someone"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a local userid, got %v", err)
	}
	if err := New(cfg, DB, nil, nil).DiscoverPerson(ctx, c, "someone@new.test"); !errors.Is(err, service.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	if err := s.DiscoverPerson(ctx, c, "someone@new.test"); err != nil {
		t.Fatal(err)
	}
	if _, err := DB.GetServerByHostname(ctx, "new.test"); err != nil {
		t.Errorf("expected new.test to be known: %v", err)
	}
	if diff := cmp.Diff([]string{"enqueue discover someone@new.test"}, g.Calls()); diff != "" {
		t.Errorf("gateway calls mismatch (-want +got):\n%s", diff)
	}
}

func TestReceiveActivity(t *testing.T) {
	s, g := newService(t)
	account(t, s, "inboxowner", false)

	r, _ := http.NewRequest(http.MethodPost, "https://test.host/people/inboxowner/inbox", nil)
	if err := s.ReceiveActivity(ctx, r, "inboxowner"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReceiveActivity(ctx, r, "nobody"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"receive inboxowner"}, g.Calls()); diff != "" {
		t.Errorf("gateway calls mismatch (-want +got):\n%s", diff)
	}
}
