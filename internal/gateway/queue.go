package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Wididit/Wididit-server/internal/client"
	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/search"
	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// FedGateway is the boundary between the application and other servers. Outgoing activities are queued and
// delivered in the background; incoming ones are verified and applied synchronously.
type FedGateway interface {
	// ReceiveActivity verifies the signature of a request posted to the inbox of recipient and applies the
	// activity it carries.
	ReceiveActivity(ctx context.Context, r *http.Request, recipient domain.Person) error

	// Discover looks a remote person up through webfinger and stores it.
	Discover(ctx context.Context, userid domain.UserID) (domain.Person, error)
	EnqueueDiscover(userid domain.UserID) error

	// ActivityIRI mints the IRI of a new activity.
	ActivityIRI() *url.URL
	Follow(ctx context.Context, s domain.Subscription) error
	Unfollow(ctx context.Context, s domain.Subscription) error

	PublishEntry(ctx context.Context, e domain.Entry) error
	PublishUpdate(ctx context.Context, e domain.Entry) error
	PublishDelete(ctx context.Context, e domain.Entry) error
	PublishShare(ctx context.Context, sharer domain.Person, e domain.Entry) error
	PublishUnshare(ctx context.Context, sharer domain.Person, e domain.Entry) error
}

type FedGatewayImpl struct {
	client *client.HttpClient
	db     db.DB
	queue  *backlite.Client
	cfg    *config.Configuration
	search *search.Service
	// enqueue is replaced in tests.
	enqueue func(Task) error
}

// New registers the federation queue on blClient. The queue is not started; see Start.
func New(DB db.DB, client *client.HttpClient, cfg *config.Configuration, blClient *backlite.Client, s *search.Service) *FedGatewayImpl {
	g := &FedGatewayImpl{
		db:     DB,
		queue:  blClient,
		client: client,
		cfg:    cfg,
		search: s,
	}
	g.enqueue = g.add

	if blClient != nil {
		blClient.Register(backlite.NewQueue[Task](g.processTask))
	}
	return g
}

func (g *FedGatewayImpl) Start(ctx context.Context) {
	g.queue.Start(ctx)
	log.Info().Msg("started federation queue")
}

func (g *FedGatewayImpl) add(t Task) error {
	_, err := g.queue.Add(t).Save()
	if err != nil {
		log.Error().Err(err).Str("type", t.Type.String()).Str("to", t.To).Msg("adding task to queue")
	}
	return err
}

func (g *FedGatewayImpl) ActivityIRI() *url.URL {
	return g.cfg.Url.JoinPath("activities", uuid.NewString())
}

func (g *FedGatewayImpl) EnqueueDiscover(userid domain.UserID) error {
	log.Debug().Str("userid", userid.String()).Msg("enqueuing discovery")
	return g.enqueue(Task{
		Type: Discover,
		To:   userid.String(),
	})
}

func (g *FedGatewayImpl) Fetch(iri *url.URL) error {
	log.Debug().Str("iri", iri.String()).Msg("enqueuing fetch task")
	return g.enqueue(Task{
		Type: Fetch,
		To:   iri.String(),
	})
}

// deliver enqueues one delivery of payload per distinct inbox.
func (g *FedGatewayImpl) deliver(payload []byte, from domain.Person, inboxes []*url.URL) error {
	seen := make(map[string]struct{}, len(inboxes))
	for _, inbox := range inboxes {
		if inbox == nil {
			continue
		}
		to := inbox.String()
		if _, ok := seen[to]; ok {
			continue
		}
		seen[to] = struct{}{}

		err := g.enqueue(Task{
			Type:    Deliver,
			To:      to,
			From:    from.ID,
			Payload: payload,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
