package gateway

import (
	"context"
	"errors"
	"net/url"
	"time"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/rs/zerolog/log"
)

func (g *FedGatewayImpl) isRemote(p domain.Person) bool {
	return !p.IsLocal(g.cfg.Hostname)
}

// Follow sends the Follow recorded by s when the target lives on another server.
func (g *FedGatewayImpl) Follow(ctx context.Context, s domain.Subscription) error {
	if !g.isRemote(s.Target) || g.isRemote(s.Subscriber) {
		return nil
	}

	id := s.ApId
	if id == nil {
		id = g.ActivityIRI()
	}

	payload, err := conversions.Serialize(conversions.NewFollow(id, s.Subscriber.ApId, s.Target.ApId))
	if err != nil {
		return err
	}
	return g.deliver(payload, s.Subscriber, []*url.URL{s.Target.Inbox})
}

func (g *FedGatewayImpl) Unfollow(ctx context.Context, s domain.Subscription) error {
	if !g.isRemote(s.Target) || g.isRemote(s.Subscriber) {
		return nil
	}

	id := s.ApId
	if id == nil {
		id = g.ActivityIRI()
	}

	follow := conversions.NewFollow(id, s.Subscriber.ApId, s.Target.ApId)
	undo, err := conversions.NewUndo(g.ActivityIRI(), s.Subscriber.ApId, follow)
	if err != nil {
		return err
	}

	payload, err := conversions.Serialize(undo)
	if err != nil {
		return err
	}
	return g.deliver(payload, s.Subscriber, []*url.URL{s.Target.Inbox})
}

// remoteAudience returns the inboxes of the remote subscribers of p.
func (g *FedGatewayImpl) remoteAudience(ctx context.Context, p domain.Person) ([]*url.URL, error) {
	subscribers, err := g.db.GetSubscribers(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var inboxes []*url.URL
	for _, s := range subscribers {
		if g.isRemote(s) && s.Inbox != nil {
			inboxes = append(inboxes, s.Inbox)
		}
	}
	return inboxes, nil
}

// entryAudience adds the author of the parent entry to the remote subscribers of the author of e.
func (g *FedGatewayImpl) entryAudience(ctx context.Context, e domain.Entry) ([]*url.URL, error) {
	inboxes, err := g.remoteAudience(ctx, e.Author)
	if err != nil {
		return nil, err
	}

	if e.InReplyToApId != nil {
		parent, err := g.db.GetEntryByApId(ctx, e.InReplyToApId)
		switch {
		case err == nil:
			if g.isRemote(parent.Author) && parent.Author.Inbox != nil {
				inboxes = append(inboxes, parent.Author.Inbox)
			}
		case !errors.Is(err, db.ErrNotFound):
			return nil, err
		}
	}
	return inboxes, nil
}

func (g *FedGatewayImpl) note(e domain.Entry) vocab.ActivityStreamsNote {
	return conversions.EntryToNote(e, e.InReplyToApId, conversions.EntryPage(g.cfg.Url, e.Ref()))
}

func (g *FedGatewayImpl) publish(ctx context.Context, e domain.Entry, activity vocab.Type) error {
	inboxes, err := g.entryAudience(ctx, e)
	if err != nil || len(inboxes) == 0 {
		return err
	}

	payload, err := conversions.Serialize(activity)
	if err != nil {
		return err
	}

	log.Debug().
		Str("type", activity.GetTypeName()).
		Str("entry", e.Ref().String()).
		Int("inboxes", len(inboxes)).
		Msg("publishing entry")
	return g.deliver(payload, e.Author, inboxes)
}

// PublishEntry sends a Create of a local entry to the remote subscribers of its author.
func (g *FedGatewayImpl) PublishEntry(ctx context.Context, e domain.Entry) error {
	if g.isRemote(e.Author) {
		return nil
	}
	return g.publish(ctx, e, conversions.NewCreate(g.ActivityIRI(), e.Author.ApId, g.note(e), e.Published))
}

func (g *FedGatewayImpl) PublishUpdate(ctx context.Context, e domain.Entry) error {
	if g.isRemote(e.Author) {
		return nil
	}
	return g.publish(ctx, e, conversions.NewUpdate(g.ActivityIRI(), e.Author.ApId, g.note(e), e.Updated))
}

func (g *FedGatewayImpl) PublishDelete(ctx context.Context, e domain.Entry) error {
	if g.isRemote(e.Author) || e.ApId == nil {
		return nil
	}
	return g.publish(ctx, e, conversions.NewDelete(g.ActivityIRI(), e.Author.ApId, e.ApId))
}

// announceIRI is stable so that an Announce can be undone without being stored.
func announceIRI(sharer domain.Person, e domain.Entry) *url.URL {
	return sharer.ApId.JoinPath("shares", e.Ref().String())
}

func (g *FedGatewayImpl) shareAudience(ctx context.Context, sharer domain.Person, e domain.Entry) ([]*url.URL, error) {
	inboxes, err := g.remoteAudience(ctx, sharer)
	if err != nil {
		return nil, err
	}
	if g.isRemote(e.Author) && e.Author.Inbox != nil {
		inboxes = append(inboxes, e.Author.Inbox)
	}
	return inboxes, nil
}

// PublishShare sends an Announce of e to the remote subscribers of sharer and to the author of e.
func (g *FedGatewayImpl) PublishShare(ctx context.Context, sharer domain.Person, e domain.Entry) error {
	if g.isRemote(sharer) || e.ApId == nil {
		return nil
	}

	inboxes, err := g.shareAudience(ctx, sharer, e)
	if err != nil || len(inboxes) == 0 {
		return err
	}

	announce := conversions.NewAnnounce(announceIRI(sharer, e), sharer.ApId, e.ApId, time.Now())
	payload, err := conversions.Serialize(announce)
	if err != nil {
		return err
	}
	return g.deliver(payload, sharer, inboxes)
}

func (g *FedGatewayImpl) PublishUnshare(ctx context.Context, sharer domain.Person, e domain.Entry) error {
	if g.isRemote(sharer) || e.ApId == nil {
		return nil
	}

	inboxes, err := g.shareAudience(ctx, sharer, e)
	if err != nil || len(inboxes) == 0 {
		return err
	}

	announce := conversions.NewAnnounce(announceIRI(sharer, e), sharer.ApId, e.ApId, time.Now())
	undo, err := conversions.NewUndo(g.ActivityIRI(), sharer.ApId, announce)
	if err != nil {
		return err
	}

	payload, err := conversions.Serialize(undo)
	if err != nil {
		return err
	}
	return g.deliver(payload, sharer, inboxes)
}
