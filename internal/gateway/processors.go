package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

func (g *FedGatewayImpl) processTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if err != nil {
			log.Error().Err(err).Str("type", task.Type.String()).Str("to", task.To).Msg("task failed")
		}
	}()

	switch task.Type {
	case Fetch:
		err = g.fetch(ctx, task.To)
	case Deliver:
		err = g.processDelivery(ctx, task)
	case Discover:
		var userid domain.UserID
		if userid, err = domain.ParseUserID(task.To, g.cfg.Hostname); err == nil {
			_, err = g.Discover(ctx, userid)
		}
	default:
		err = fmt.Errorf("%w: task type %d", federation.ErrUnsupported, task.Type)
	}

	if err != nil || task.Next == nil {
		return err
	}
	_, err = backlite.FromContext(ctx).Add(*task.Next).Save()
	return err
}

func (g *FedGatewayImpl) processDelivery(ctx context.Context, task Task) error {
	inbox, err := url.Parse(task.To)
	if err != nil {
		return err
	}
	log.Debug().Str("inbox", task.To).Int64("from", task.From).Msg("delivering activity")

	if task.From == 0 {
		return g.client.Deliver(ctx, task.Payload, inbox)
	}

	from, err := g.db.GetPersonByID(ctx, task.From)
	if err != nil {
		return err
	}
	return g.client.DeliverAs(ctx, task.Payload, inbox, from)
}

func (g *FedGatewayImpl) fetch(ctx context.Context, to string) error {
	iri, err := url.Parse(to)
	if err != nil {
		return err
	}
	log.Debug().Str("iri", to).Msg("fetching IRI")

	fetchedAt := time.Now()
	asType, err := g.get(ctx, iri)
	if err != nil {
		return err
	}

	switch asType.GetTypeName() {
	case streams.ActivityStreamsNoteName:
		_, err = g.storeObject(ctx, asType, nil)
	default:
		_, err = g.storeActor(ctx, asType, fetchedAt)
	}
	return err
}

// get fetches iri and makes sure the document is the one it was asked for, so that a server cannot answer
// with an object of another server.
func (g *FedGatewayImpl) get(ctx context.Context, iri *url.URL) (vocab.Type, error) {
	asType, err := g.client.Get(ctx, iri)
	if err != nil {
		return nil, err
	}
	if id := idOfType(asType); !sameIRI(id, iri) {
		return nil, fmt.Errorf("%w: %s was served as %v", federation.ErrForbidden, iri, id)
	}
	return asType, nil
}

// Discover resolves userid with webfinger, then fetches and stores its actor.
func (g *FedGatewayImpl) Discover(ctx context.Context, userid domain.UserID) (domain.Person, error) {
	iri, err := g.client.WebFinger(ctx, userid)
	if err != nil {
		return domain.Person{}, err
	}

	fetchedAt := time.Now()
	asType, err := g.get(ctx, iri)
	if err != nil {
		return domain.Person{}, err
	}
	p, err := g.remotePerson(asType)
	if err != nil {
		return domain.Person{}, err
	}
	if !strings.EqualFold(p.Username, userid.Username) || !strings.EqualFold(p.Hostname, userid.Hostname) {
		return domain.Person{}, fmt.Errorf("%w: webfinger of %s points to %s", federation.ErrForbidden, userid, p.UserID())
	}
	return g.db.UpsertRemotePerson(ctx, p, fetchedAt)
}

func (g *FedGatewayImpl) remotePerson(asType vocab.Type) (domain.Person, error) {
	actor, err := conversions.ToActor(asType)
	if err != nil {
		return domain.Person{}, err
	}

	p, err := conversions.ActorToPerson(actor)
	if err != nil {
		return domain.Person{}, err
	}
	if p.IsLocal(g.cfg.Hostname) {
		return domain.Person{}, fmt.Errorf("%w: %s claims to be local", federation.ErrUnprocessablePropValue, p.ApId)
	}
	return p, nil
}

func (g *FedGatewayImpl) storeActor(ctx context.Context, asType vocab.Type, fetchedAt time.Time) (domain.Person, error) {
	p, err := g.remotePerson(asType)
	if err != nil {
		return domain.Person{}, err
	}

	log.Debug().Str("person", p.UserID().String()).Str("iri", p.ApId.String()).Msg("storing remote person")
	return g.db.UpsertRemotePerson(ctx, p, fetchedAt)
}

// actorByIRI returns the person known by iri, fetching it when it is not stored yet.
func (g *FedGatewayImpl) actorByIRI(ctx context.Context, iri *url.URL) (domain.Person, error) {
	p, err := g.db.GetPersonByApId(ctx, iri)
	if !errors.Is(err, db.ErrNotFound) {
		return p, err
	}

	fetchedAt := time.Now()
	asType, err := g.get(ctx, iri)
	if errors.Is(err, federation.ErrForbidden) {
		return domain.Person{}, err
	}
	if err != nil {
		return domain.Person{}, fmt.Errorf("%w: %s", federation.ErrNotFoundIRI, err)
	}
	return g.storeActor(ctx, asType, fetchedAt)
}
