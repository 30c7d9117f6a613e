package gateway

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"code.superseriousbusiness.org/httpsig"
	"github.com/Wididit/Wididit-server/internal/client"
	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/initialization"
	"github.com/Wididit/Wididit-server/internal/utils"
	"github.com/rs/zerolog/log"
)

var DB db.DB
var ctx = context.Background()
var cfg config.Configuration
var instanceKey *rsa.PrivateKey

func TestMain(m *testing.M) {
	u, _ := url.Parse("https://test.host")
	cfg = config.Configuration{
		Hostname:   "test.host",
		Url:        u,
		RsaKeySize: 1024,
	}

	d, err := initialization.OpenDB("file:gatewaytest?mode=memory&cache=shared")
	if err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}
	if err = initialization.SetupDB(&cfg, d, "../../migrations", "gatewaytest"); err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}
	if err = initialization.EnsureInstance(d, &cfg); err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}
	DB = impl.New(cfg, d)

	if instanceKey, err = rsa.GenerateKey(rand.Reader, 1024); err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}
	os.Exit(m.Run())
}

// newGateway returns a gateway whose queued tasks are collected instead of run.
func newGateway(t *testing.T) (*FedGatewayImpl, *[]Task) {
	t.Helper()
	c, err := client.New(DB, &http.Client{Timeout: 5 * time.Second}, instanceKey,
		[]httpsig.Algorithm{httpsig.RSA_SHA256}, federation.KeyID(cfg.Url.JoinPath("actor")))
	if err != nil {
		t.Fatal(err)
	}
	c.Scheme = "http"

	g := New(DB, c, &cfg, nil, nil)
	tasks := &[]Task{}
	g.enqueue = func(task Task) error {
		*tasks = append(*tasks, task)
		return nil
	}
	return g, tasks
}

func localPerson(t *testing.T, username string) domain.Person {
	t.Helper()
	_, priv, err := utils.GenerateKeysPem(1024)
	if err != nil {
		t.Fatal(err)
	}
	p, err := DB.InsertAccount(ctx, domain.Person{
		Username: username,
		Hostname: cfg.Hostname,
		ApId:     cfg.Url.JoinPath("people", username),
		Inbox:    cfg.Url.JoinPath("people", username, "inbox"),
	}, priv, domain.Account{
		Email:    username + "@mail.test",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("creating %s: %s", username, err)
	}
	return p
}

// remote is another server hosting a single person.
type remote struct {
	server *httptest.Server
	key    *rsa.PrivateKey
	person domain.Person
	inbox  chan []byte
	// claims, when set, is served at the actor IRI in place of person.
	claims *domain.Person
	// self, when set, is the actor IRI webfinger answers with.
	self *url.URL
	// notes holds the serialized notes served under the actor IRI, by path.
	notes sync.Map
}

func newRemote(t *testing.T, username string) *remote {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := utils.EncodePublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	rm := &remote{key: key, inbox: make(chan []byte, 10)}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/"+username, func(w http.ResponseWriter, r *http.Request) {
		served := rm.person
		if rm.claims != nil {
			served = *rm.claims
		}
		data, err := conversions.Serialize(conversions.PersonToActor(served, nil))
		if err != nil {
			t.Error(err)
		}
		w.Header().Set("Content-Type", federation.ContentType)
		w.Write(data)
	})
	mux.HandleFunc("GET /users/"+username+"/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := rm.notes.Load(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", federation.ContentType)
		w.Write(data.([]byte))
	})
	mux.HandleFunc("POST /users/"+username+"/inbox", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rm.inbox <- body
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /.well-known/webfinger", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("resource") != "acct:"+rm.person.UserID().String() {
			http.NotFound(w, r)
			return
		}
		self := rm.person.ApId
		if rm.self != nil {
			self = rm.self
		}
		json.NewEncoder(w).Encode(federation.WebfingerResponse{
			Subject: "acct:" + rm.person.UserID().String(),
			Links:   []federation.WebfingerLink{{Rel: "self", Type: federation.ContentType, Href: self.String()}},
		})
	})
	rm.server = httptest.NewServer(mux)
	t.Cleanup(rm.server.Close)

	base, _ := url.Parse(rm.server.URL)
	rm.person = domain.Person{
		Username:  username,
		Hostname:  base.Host,
		ApId:      base.JoinPath("users", username),
		Inbox:     base.JoinPath("users", username, "inbox"),
		PublicKey: pub,
	}
	return rm
}

func (rm *remote) iri(path string) *url.URL {
	return rm.person.ApId.JoinPath(path)
}

// publish makes the remote server serve n at its id.
func (rm *remote) publish(t *testing.T, n vocab.ActivityStreamsNote) {
	t.Helper()
	data, err := conversions.Serialize(n)
	if err != nil {
		t.Fatal(err)
	}
	rm.notes.Store(idOfType(n).Path, data)
}

// request posts activity to the inbox of recipient, signed with the key of the remote person.
func (rm *remote) request(t *testing.T, activity vocab.Type, recipient domain.Person) *http.Request {
	t.Helper()
	return rm.signedRequest(t, activity, recipient, rm.key)
}

func (rm *remote) signedRequest(t *testing.T, activity vocab.Type, recipient domain.Person, key *rsa.PrivateKey) *http.Request {
	t.Helper()
	body, err := conversions.Serialize(activity)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, recipient.Inbox.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", federation.ContentType)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	signer, _, err := httpsig.NewSigner([]httpsig.Algorithm{httpsig.RSA_SHA256}, httpsig.DigestSha256,
		[]string{httpsig.RequestTarget, "date", "digest"}, httpsig.Signature, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if err = signer.SignRequest(key, federation.KeyID(rm.person.ApId).String(), req, body); err != nil {
		t.Fatal(err)
	}
	return req
}

func payloadType(t *testing.T, task Task) vocab.Type {
	t.Helper()
	asType, err := conversions.Deserialize(ctx, task.Payload)
	if err != nil {
		t.Fatalf("queued payload is not an activity: %s", err)
	}
	return asType
}

func note(rm *remote, id, content string, tags ...string) vocab.ActivityStreamsNote {
	return conversions.EntryToNote(domain.Entry{
		Author:    rm.person,
		ApId:      rm.iri(id),
		Content:   content,
		Tags:      tags,
		Published: time.Now().Truncate(time.Second),
	}, nil, nil)
}

func TestReceiveFollow(t *testing.T) {
	g, tasks := newGateway(t)
	alice := localPerson(t, "alice")
	bob := newRemote(t, "bob")

	follow := conversions.NewFollow(bob.iri("follows/1"), bob.person.ApId, alice.ApId)
	if err := g.ReceiveActivity(ctx, bob.request(t, follow, alice), alice); err != nil {
		t.Fatal(err)
	}

	subscribers, err := DB.GetSubscribers(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(subscribers) != 1 || subscribers[0].ApId.String() != bob.person.ApId.String() {
		t.Fatalf("expected bob to be subscribed, got %+v", subscribers)
	}

	if len(*tasks) != 1 {
		t.Fatalf("expected one queued delivery, got %d", len(*tasks))
	}
	task := (*tasks)[0]
	if task.Type != Deliver || task.To != bob.person.Inbox.String() || task.From != alice.ID {
		t.Errorf("unexpected task %+v", task)
	}
	if name := payloadType(t, task).GetTypeName(); name != streams.ActivityStreamsAcceptName {
		t.Errorf("expected an Accept, got %s", name)
	}

	// A repeated follow is accepted again without a second subscription.
	if err = g.ReceiveActivity(ctx, bob.request(t, follow, alice), alice); err != nil {
		t.Fatal(err)
	}
	if subscribers, _ = DB.GetSubscribers(ctx, alice.ID); len(subscribers) != 1 {
		t.Errorf("expected one subscriber, got %d", len(subscribers))
	}

	undo, err := conversions.NewUndo(bob.iri("undo/1"), bob.person.ApId, follow)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.ReceiveActivity(ctx, bob.request(t, undo, alice), alice); err != nil {
		t.Fatal(err)
	}
	if subscribers, _ = DB.GetSubscribers(ctx, alice.ID); len(subscribers) != 0 {
		t.Errorf("expected no subscriber after undo, got %d", len(subscribers))
	}
}

func TestReceiveBadSignature(t *testing.T) {
	g, _ := newGateway(t)
	carol := localPerson(t, "carol")
	mallory := newRemote(t, "mallory")

	other, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}
	follow := conversions.NewFollow(mallory.iri("follows/1"), mallory.person.ApId, carol.ApId)
	err = g.ReceiveActivity(ctx, mallory.signedRequest(t, follow, carol, other), carol)
	if !errors.Is(err, federation.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestReceiveTamperedBody(t *testing.T) {
	g, _ := newGateway(t)
	dave := localPerson(t, "dave")
	eve := newRemote(t, "eve")

	req := eve.request(t, conversions.NewFollow(eve.iri("follows/1"), eve.person.ApId, dave.ApId), dave)
	req.Body = io.NopCloser(strings.NewReader(`{"type": "Follow"}`))

	if err := g.ReceiveActivity(ctx, req, dave); !errors.Is(err, federation.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestReceiveOnBehalfOfAnother(t *testing.T) {
	g, _ := newGateway(t)
	frank := localPerson(t, "frank")
	oscar := newRemote(t, "oscar")

	impersonated, _ := url.Parse("https://elsewhere.example/users/victim")
	follow := conversions.NewFollow(oscar.iri("follows/1"), impersonated, frank.ApId)
	if err := g.ReceiveActivity(ctx, oscar.request(t, follow, frank), frank); !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestReceiveCreate(t *testing.T) {
	g, _ := newGateway(t)
	grace := localPerson(t, "grace")
	heidi := newRemote(t, "heidi")

	create := conversions.NewCreate(heidi.iri("notes/1/activity"), heidi.person.ApId,
		note(heidi, "notes/1", "hello from afar", "Travel", "not a tag!"), time.Now())
	for range 2 {
		if err := g.ReceiveActivity(ctx, heidi.request(t, create, grace), grace); err != nil {
			t.Fatal(err)
		}
	}

	e, err := DB.GetEntryByApId(ctx, heidi.iri("notes/1"))
	if err != nil {
		t.Fatal(err)
	}
	if e.Seq != 1 || e.Content != "hello from afar" {
		t.Errorf("unexpected entry %+v", e)
	}
	if len(e.Tags) != 1 || e.Tags[0] != "travel" {
		t.Errorf("expected the valid tag only, got %v", e.Tags)
	}

	entries, err := DB.QueryEntries(ctx, domain.EntryQuery{Authors: []int64{e.Author.ID}, Native: true, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected the note to be stored once, got %d entries", len(entries))
	}

	update := conversions.NewUpdate(heidi.iri("notes/1/update"), heidi.person.ApId,
		note(heidi, "notes/1", "hello from very far"), time.Now())
	if err = g.ReceiveActivity(ctx, heidi.request(t, update, grace), grace); err != nil {
		t.Fatal(err)
	}
	if e, _ = DB.GetEntryByApId(ctx, heidi.iri("notes/1")); e.Content != "hello from very far" {
		t.Errorf("expected updated content, got %q", e.Content)
	}
	if revisions, _ := DB.GetRevisions(ctx, e.ID); len(revisions) != 1 {
		t.Errorf("expected one revision, got %d", len(revisions))
	}

	del := conversions.NewDelete(heidi.iri("notes/1/delete"), heidi.person.ApId, heidi.iri("notes/1"))
	if err = g.ReceiveActivity(ctx, heidi.request(t, del, grace), grace); err != nil {
		t.Fatal(err)
	}
	if _, err = DB.GetEntryByApId(ctx, heidi.iri("notes/1")); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected the entry to be deleted, got %v", err)
	}
}

func TestReceiveCreateForSomeoneElse(t *testing.T) {
	g, _ := newGateway(t)
	ivan := localPerson(t, "ivan")
	judy := newRemote(t, "judy")
	kim := newRemote(t, "kim")

	create := conversions.NewCreate(judy.iri("activity/1"), judy.person.ApId, note(kim, "notes/1", "forged"), time.Now())
	if err := g.ReceiveActivity(ctx, judy.request(t, create, ivan), ivan); !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

// An actor document served under another actor's IRI neither authenticates its server nor replaces the key
// of the actor it names.
func TestReceiveFromImpersonator(t *testing.T) {
	g, _ := newGateway(t)
	olive := localPerson(t, "olive")
	victim := newRemote(t, "victim")
	forger := newRemote(t, "forger")

	if _, err := DB.UpsertRemotePerson(ctx, victim.person, time.Now()); err != nil {
		t.Fatal(err)
	}
	claimed := victim.person
	claimed.PublicKey = forger.person.PublicKey
	forger.claims = &claimed

	create := conversions.NewCreate(victim.iri("notes/1/activity"), victim.person.ApId,
		note(victim, "notes/1", "impersonated"), time.Now())
	if err := g.ReceiveActivity(ctx, forger.request(t, create, olive), olive); !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if _, err := DB.GetEntryByApId(ctx, victim.iri("notes/1")); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected no entry, got %v", err)
	}
	stored, err := DB.GetPersonByApId(ctx, victim.person.ApId)
	if err != nil {
		t.Fatal(err)
	}
	if stored.PublicKey != victim.person.PublicKey {
		t.Error("the key of the impersonated actor was replaced")
	}
	if _, err = DB.GetPersonByApId(ctx, forger.person.ApId); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected the forger not to be stored, got %v", err)
	}
}

func TestReceiveCreateOfForeignNote(t *testing.T) {
	g, _ := newGateway(t)
	pete := localPerson(t, "pete")
	owner := newRemote(t, "owner")
	squatter := newRemote(t, "squatter")

	// The note claims an IRI on the server of owner while being attributed to squatter.
	n := conversions.EntryToNote(domain.Entry{
		Author:    squatter.person,
		ApId:      owner.iri("notes/1"),
		Content:   "squatted",
		Published: time.Now().Truncate(time.Second),
	}, nil, nil)
	create := conversions.NewCreate(squatter.iri("activity/1"), squatter.person.ApId, n, time.Now())
	if err := g.ReceiveActivity(ctx, squatter.request(t, create, pete), pete); !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := DB.GetEntryByApId(ctx, owner.iri("notes/1")); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected no entry, got %v", err)
	}
}

func announceOf(rm *remote, id string, n vocab.ActivityStreamsNote) vocab.ActivityStreamsAnnounce {
	a := conversions.NewAnnounce(rm.iri(id), rm.person.ApId, idOfType(n), time.Now())
	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendActivityStreamsNote(n)
	a.SetActivityStreamsObject(obj)
	return a
}

func TestReceiveForgedAnnounce(t *testing.T) {
	g, _ := newGateway(t)
	ruth := localPerson(t, "ruth")
	author := newRemote(t, "author")
	forger := newRemote(t, "forger")

	// The embedded copy comes from another server than the note's, so the note is fetched from its origin,
	// which does not have it.
	forged := announceOf(forger, "shares/1", note(author, "notes/1", "words never written"))
	if err := g.ReceiveActivity(ctx, forger.request(t, forged, ruth), ruth); err == nil {
		t.Error("expected the announce of an unknown note to fail")
	}
	if _, err := DB.GetEntryByApId(ctx, author.iri("notes/1")); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected no entry, got %v", err)
	}

	// Once the origin serves the note, its own version is stored, whatever the embedded copy says.
	author.publish(t, note(author, "notes/1", "the actual words"))
	if err := g.ReceiveActivity(ctx, forger.request(t, forged, ruth), ruth); err != nil {
		t.Fatal(err)
	}
	e, err := DB.GetEntryByApId(ctx, author.iri("notes/1"))
	if err != nil {
		t.Fatal(err)
	}
	if e.Content != "the actual words" || e.Author.ApId.String() != author.person.ApId.String() {
		t.Errorf("unexpected entry %+v", e)
	}
	sharers, err := DB.GetSharers(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sharers) != 1 || sharers[0].ApId.String() != forger.person.ApId.String() {
		t.Errorf("expected the announcer to share the entry, got %+v", sharers)
	}

	// A note hosted by the announcer may not be attributed to someone of another server.
	planted := conversions.EntryToNote(domain.Entry{
		Author:    author.person,
		ApId:      forger.iri("notes/2"),
		Content:   "planted",
		Published: time.Now().Truncate(time.Second),
	}, nil, nil)
	err = g.ReceiveActivity(ctx, forger.request(t, announceOf(forger, "shares/2", planted), ruth), ruth)
	if !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err = DB.GetEntryByApId(ctx, forger.iri("notes/2")); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected no entry, got %v", err)
	}
}

func TestReceiveAnnounce(t *testing.T) {
	g, _ := newGateway(t)
	leo := localPerson(t, "leo")
	mia := newRemote(t, "mia")

	e, err := DB.CreateEntry(ctx, domain.Entry{Author: leo, Content: "worth sharing"}, 0)
	if err != nil {
		t.Fatal(err)
	}

	announce := conversions.NewAnnounce(mia.iri("shares/1"), mia.person.ApId, e.ApId, time.Now())
	if err = g.ReceiveActivity(ctx, mia.request(t, announce, leo), leo); err != nil {
		t.Fatal(err)
	}

	sharers, err := DB.GetSharers(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sharers) != 1 || sharers[0].ApId.String() != mia.person.ApId.String() {
		t.Fatalf("expected mia to share the entry, got %+v", sharers)
	}

	undo, err := conversions.NewUndo(mia.iri("undo/1"), mia.person.ApId, announce)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.ReceiveActivity(ctx, mia.request(t, undo, leo), leo); err != nil {
		t.Fatal(err)
	}
	if sharers, _ = DB.GetSharers(ctx, e.ID); len(sharers) != 0 {
		t.Errorf("expected no sharer after undo, got %d", len(sharers))
	}
}

func TestReceiveUnsupported(t *testing.T) {
	g, _ := newGateway(t)
	nina := localPerson(t, "nina")
	olga := newRemote(t, "olga")

	like := streams.NewActivityStreamsLike()
	id := streams.NewJSONLDIdProperty()
	id.SetIRI(olga.iri("likes/1"))
	like.SetJSONLDId(id)
	actor := streams.NewActivityStreamsActorProperty()
	actor.AppendIRI(olga.person.ApId)
	like.SetActivityStreamsActor(actor)

	if err := g.ReceiveActivity(ctx, olga.request(t, like, nina), nina); !errors.Is(err, federation.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestPublishEntry(t *testing.T) {
	g, tasks := newGateway(t)
	paul := localPerson(t, "paul")
	quinn := localPerson(t, "quinn")
	rita := newRemote(t, "rita")

	remoteRita, err := DB.UpsertRemotePerson(ctx, rita.person, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []domain.Person{quinn, remoteRita} {
		if _, err = DB.Subscribe(ctx, s.ID, paul.ID, nil); err != nil {
			t.Fatal(err)
		}
	}

	e, err := DB.CreateEntry(ctx, domain.Entry{Author: paul, Content: "news", Tags: []string{"news"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.PublishEntry(ctx, e); err != nil {
		t.Fatal(err)
	}

	if len(*tasks) != 1 {
		t.Fatalf("expected a single delivery to the remote subscriber, got %d", len(*tasks))
	}
	task := (*tasks)[0]
	if task.To != rita.person.Inbox.String() || task.From != paul.ID {
		t.Errorf("unexpected task %+v", task)
	}

	create, ok := payloadType(t, task).(vocab.ActivityStreamsCreate)
	if !ok {
		t.Fatal("expected a Create")
	}
	_, object, err := processObject(create)
	if err != nil {
		t.Fatal(err)
	}
	if !sameIRI(idOfType(object), e.ApId) {
		t.Errorf("expected the note %s, got %s", e.ApId, idOfType(object))
	}

	// Entries of remote authors are never published from here.
	*tasks = nil
	stored, err := DB.CreateEntry(ctx, domain.Entry{Author: remoteRita, ApId: rita.iri("notes/9"), Content: "x"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.PublishEntry(ctx, stored); err != nil || len(*tasks) != 0 {
		t.Errorf("expected nothing to be queued, got %d tasks and %v", len(*tasks), err)
	}
}

func TestFollowRemote(t *testing.T) {
	g, tasks := newGateway(t)
	sam := localPerson(t, "sam")
	tina := newRemote(t, "tina")

	target, err := DB.UpsertRemotePerson(ctx, tina.person, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	s, err := DB.Subscribe(ctx, sam.ID, target.ID, g.ActivityIRI())
	if err != nil {
		t.Fatal(err)
	}

	if err = g.Follow(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err = g.Unfollow(ctx, s); err != nil {
		t.Fatal(err)
	}

	if len(*tasks) != 2 {
		t.Fatalf("expected two deliveries, got %d", len(*tasks))
	}
	if name := payloadType(t, (*tasks)[0]).GetTypeName(); name != streams.ActivityStreamsFollowName {
		t.Errorf("expected a Follow, got %s", name)
	}
	if name := payloadType(t, (*tasks)[1]).GetTypeName(); name != streams.ActivityStreamsUndoName {
		t.Errorf("expected an Undo, got %s", name)
	}
	for _, task := range *tasks {
		if task.To != tina.person.Inbox.String() || task.From != sam.ID {
			t.Errorf("unexpected task %+v", task)
		}
	}
}

func TestDeliverTask(t *testing.T) {
	g, _ := newGateway(t)
	uma := localPerson(t, "uma")
	vic := newRemote(t, "vic")

	payload := []byte(`{"type": "Follow"}`)
	err := g.processTask(ctx, Task{Type: Deliver, To: vic.person.Inbox.String(), From: uma.ID, Payload: payload})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case body := <-vic.inbox:
		if string(body) != string(payload) {
			t.Errorf("unexpected body %s", body)
		}
	case <-time.After(time.Second):
		t.Fatal("nothing was delivered")
	}
}

func TestDiscover(t *testing.T) {
	g, _ := newGateway(t)
	walt := newRemote(t, "walt")

	p, err := g.Discover(ctx, walt.person.UserID())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.ApId.String() != walt.person.ApId.String() || p.PublicKey != walt.person.PublicKey {
		t.Errorf("unexpected person %+v", p)
	}

	stored, err := DB.GetPersonByApId(ctx, walt.person.ApId)
	if err != nil || stored.ID != p.ID {
		t.Errorf("expected the person to be stored, got %+v, %v", stored, err)
	}

	_, err = g.Discover(ctx, domain.UserID{Username: "nobody", Hostname: walt.person.Hostname})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscoverOfSomeoneElse(t *testing.T) {
	g, _ := newGateway(t)
	yves := newRemote(t, "yves")
	zack := newRemote(t, "zack")

	yves.self = zack.person.ApId
	if _, err := g.Discover(ctx, yves.person.UserID()); !errors.Is(err, federation.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := DB.GetPersonByApId(ctx, zack.person.ApId); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected zack not to be stored, got %v", err)
	}
}

func TestDiscoverInvalidUsername(t *testing.T) {
	g, _ := newGateway(t)
	abel := newRemote(t, "abel")

	claimed := abel.person
	claimed.Username = "abel@elsewhere"
	abel.claims = &claimed
	if _, err := g.Discover(ctx, abel.person.UserID()); !errors.Is(err, federation.ErrUnprocessablePropValue) {
		t.Errorf("expected ErrUnprocessablePropValue, got %v", err)
	}
	if _, err := DB.GetPersonByApId(ctx, abel.person.ApId); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected abel not to be stored, got %v", err)
	}
}

func TestEnqueueDiscover(t *testing.T) {
	g, tasks := newGateway(t)
	if err := g.EnqueueDiscover(domain.UserID{Username: "xena", Hostname: "far.example"}); err != nil {
		t.Fatal(err)
	}
	if len(*tasks) != 1 || (*tasks)[0].Type != Discover || (*tasks)[0].To != "xena@far.example" {
		t.Errorf("unexpected tasks %+v", *tasks)
	}
}

func TestVerifyDigest(t *testing.T) {
	body := []byte("hello")
	// base64 of the SHA-256 of body
	const sum = "LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ="

	tests := []struct {
		name   string
		header string
		body   []byte
		ok     bool
	}{
		{"matching", "SHA-256=" + sum, body, true},
		{"lowercase algorithm", "sha-256=" + sum, body, true},
		{"among others", "SHA-512=abc, SHA-256=" + sum, body, true},
		{"mismatch", "SHA-256=" + sum, []byte("hullo"), false},
		{"missing", "", body, false},
		{"missing for empty body", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyDigest(tt.header, tt.body)
			if (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
