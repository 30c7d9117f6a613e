package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/diff"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/validate"
	"github.com/rs/zerolog/log"
)

func (g *FedGatewayImpl) ReceiveActivity(ctx context.Context, r *http.Request, recipient domain.Person) error {
	signer, body, err := g.Verify(ctx, r)
	if err != nil {
		return err
	}

	asType, err := conversions.Deserialize(ctx, body)
	if err != nil {
		return err
	}
	return g.ProcessActivity(ctx, signer, asType, recipient)
}

// ProcessActivity applies an activity sent by signer to the inbox of recipient. Activities of other types
// than the supported ones are rejected with ErrUnsupported.
func (g *FedGatewayImpl) ProcessActivity(ctx context.Context, signer domain.Person, asType vocab.Type, recipient domain.Person) error {
	activity, ok := asType.(actorProperty)
	if !ok {
		return fmt.Errorf("%w: %s is not an activity", federation.ErrUnsupported, asType.GetTypeName())
	}

	actor, err := processActor(activity)
	if err != nil {
		return err
	}
	if !sameIRI(actor, signer.ApId) {
		return fmt.Errorf("%w: %s signed an activity of %s", federation.ErrForbidden, signer.ApId, actor)
	}

	log.Debug().
		Str("type", asType.GetTypeName()).
		Str("actor", actor.String()).
		Str("recipient", recipient.UserID().String()).
		Msg("processing activity")

	switch t := asType.(type) {
	case vocab.ActivityStreamsFollow:
		return g.processFollow(ctx, signer, t, recipient)
	case vocab.ActivityStreamsUndo:
		return g.processUndo(ctx, signer, t, recipient)
	case vocab.ActivityStreamsCreate:
		return g.processCreate(ctx, signer, t)
	case vocab.ActivityStreamsUpdate:
		return g.processUpdate(ctx, signer, t)
	case vocab.ActivityStreamsDelete:
		return g.processDelete(ctx, signer, t)
	case vocab.ActivityStreamsAnnounce:
		return g.processAnnounce(ctx, signer, t)
	case vocab.ActivityStreamsAccept:
		log.Info().Str("actor", actor.String()).Msg("follow accepted")
		return nil
	case vocab.ActivityStreamsReject:
		return g.processReject(ctx, signer, t)
	default:
		return fmt.Errorf("%w: %s", federation.ErrUnsupported, asType.GetTypeName())
	}
}

func (g *FedGatewayImpl) processFollow(ctx context.Context, signer domain.Person, follow vocab.ActivityStreamsFollow, recipient domain.Person) error {
	id, err := processId(follow.GetJSONLDId())
	if err != nil {
		return err
	}

	object, _, err := processObject(follow)
	if err != nil {
		return err
	}
	if !sameIRI(object, recipient.ApId) {
		return fmt.Errorf("%w: follow of %s sent to the inbox of %s", federation.ErrUnprocessablePropValue, object, recipient.ApId)
	}

	_, err = g.db.Subscribe(ctx, signer.ID, recipient.ID, id)
	if err != nil && !errors.Is(err, db.ErrConflict) {
		return err
	}

	accept := conversions.NewAccept(g.ActivityIRI(), recipient.ApId, follow)
	payload, err := conversions.Serialize(accept)
	if err != nil {
		return err
	}
	return g.deliver(payload, recipient, []*url.URL{signer.Inbox})
}

func (g *FedGatewayImpl) processUndo(ctx context.Context, signer domain.Person, undo vocab.ActivityStreamsUndo, recipient domain.Person) error {
	_, undone, err := processObject(undo)
	if err != nil {
		return err
	}
	if undone == nil {
		return fmt.Errorf("%w: undo of an object that is not embedded", federation.ErrUnsupported)
	}

	switch t := undone.(type) {
	case vocab.ActivityStreamsFollow:
		_, err = g.db.Unsubscribe(ctx, signer.ID, recipient.ID)
	case vocab.ActivityStreamsAnnounce:
		var object *url.URL
		if object, _, err = processObject(t); err != nil {
			return err
		}
		var e domain.Entry
		if e, err = g.db.GetEntryByApId(ctx, object); err == nil {
			err = g.db.Unshare(ctx, signer.ID, e.ID)
		}
	default:
		return fmt.Errorf("%w: undo of %s", federation.ErrUnsupported, undone.GetTypeName())
	}

	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	return err
}

// processReject drops a subscription of a local person that the remote person refused.
func (g *FedGatewayImpl) processReject(ctx context.Context, signer domain.Person, reject vocab.ActivityStreamsReject) error {
	_, rejected, err := processObject(reject)
	if err != nil {
		return err
	}
	follow, ok := rejected.(vocab.ActivityStreamsFollow)
	if !ok {
		return fmt.Errorf("%w: reject of something other than an embedded follow", federation.ErrUnsupported)
	}

	followerIRI, err := processActor(follow)
	if err != nil {
		return err
	}
	follower, err := g.db.GetPersonByApId(ctx, followerIRI)
	if err != nil {
		return err
	}

	_, err = g.db.Unsubscribe(ctx, follower.ID, signer.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	return err
}

func (g *FedGatewayImpl) processCreate(ctx context.Context, signer domain.Person, create vocab.ActivityStreamsCreate) error {
	iri, object, err := processObject(create)
	if err != nil {
		return err
	}
	if !sameHost(iri, signer.ApId) {
		return fmt.Errorf("%w: %s created %s", federation.ErrForbidden, signer.ApId, iri)
	}

	if object == nil {
		if object, err = g.get(ctx, iri); err != nil {
			return err
		}
	}

	_, err = g.storeObject(ctx, object, &signer)
	return err
}

func (g *FedGatewayImpl) processUpdate(ctx context.Context, signer domain.Person, update vocab.ActivityStreamsUpdate) error {
	_, object, err := processObject(update)
	if err != nil {
		return err
	}

	// Profile updates carry the actor itself.
	if object != nil && sameIRI(idOfType(object), signer.ApId) {
		_, err = g.storeActor(ctx, object, time.Now())
		return err
	}

	n, ok := object.(vocab.ActivityStreamsNote)
	if !ok {
		return fmt.Errorf("%w: update of something other than an embedded note", federation.ErrUnsupported)
	}
	note, err := conversions.NoteToEntry(n)
	if err != nil {
		return err
	}

	e, err := g.db.GetEntryByApId(ctx, note.Entry.ApId)
	if errors.Is(err, db.ErrNotFound) {
		_, err = g.storeObject(ctx, n, &signer)
		return err
	}
	if err != nil {
		return err
	}
	if e.Author.ID != signer.ID {
		return fmt.Errorf("%w: %s is not the author of %s", federation.ErrForbidden, signer.ApId, e.ApId)
	}

	patch := diff.FindPatches(e.Content, note.Entry.Content)
	e.Title = note.Entry.Title
	e.Summary = note.Entry.Summary
	e.Content = note.Entry.Content
	e.Tags = validTags(note.Entry.Tags)
	e.Updated = note.Entry.Updated
	if e.Updated.IsZero() {
		e.Updated = time.Now()
	}

	e, err = g.db.UpdateEntry(ctx, e, signer.ID, patch)
	if err != nil {
		return err
	}
	g.search.IndexEntry(e)
	return nil
}

func (g *FedGatewayImpl) processDelete(ctx context.Context, signer domain.Person, del vocab.ActivityStreamsDelete) error {
	iri, _, err := processObject(del)
	if err != nil {
		return err
	}

	if sameIRI(iri, signer.ApId) {
		log.Info().Str("actor", iri.String()).Msg("remote actor deleted, keeping its entries")
		return nil
	}

	e, err := g.db.GetEntryByApId(ctx, iri)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if e.Author.ID != signer.ID {
		return fmt.Errorf("%w: %s is not the author of %s", federation.ErrForbidden, signer.ApId, e.ApId)
	}

	if err = g.db.DeleteEntry(ctx, e.ID); err != nil {
		return err
	}
	g.search.DeleteEntry(e.ID)
	return nil
}

func (g *FedGatewayImpl) processAnnounce(ctx context.Context, signer domain.Person, announce vocab.ActivityStreamsAnnounce) error {
	iri, object, err := processObject(announce)
	if err != nil {
		return err
	}

	e, err := g.db.GetEntryByApId(ctx, iri)
	if errors.Is(err, db.ErrNotFound) {
		// Only the server of the note may vouch for an embedded copy.
		if object == nil || !sameHost(iri, signer.ApId) {
			if object, err = g.get(ctx, iri); err != nil {
				return err
			}
		}
		e, err = g.storeObject(ctx, object, nil)
	}
	if err != nil {
		return err
	}

	_, err = g.db.Share(ctx, signer.ID, e.ID)
	if errors.Is(err, db.ErrConflict) {
		return nil
	}
	return err
}

// storeObject stores a remote note as an entry of its author. When signer is not nil, the note must be
// attributed to it. A note that is already stored is returned as is.
func (g *FedGatewayImpl) storeObject(ctx context.Context, object vocab.Type, signer *domain.Person) (domain.Entry, error) {
	if object.GetTypeName() != streams.ActivityStreamsNoteName {
		return domain.Entry{}, fmt.Errorf("%w: %s", federation.ErrUnsupported, object.GetTypeName())
	}
	n, ok := object.(vocab.ActivityStreamsNote)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: note", federation.ErrUnprocessablePropValue)
	}

	note, err := conversions.NoteToEntry(n)
	if err != nil {
		return domain.Entry{}, err
	}

	existing, err := g.db.GetEntryByApId(ctx, note.Entry.ApId)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return domain.Entry{}, err
	}

	if !sameHost(note.AttributedTo, note.Entry.ApId) {
		return domain.Entry{}, fmt.Errorf("%w: note %s attributed to %s", federation.ErrForbidden, note.Entry.ApId, note.AttributedTo)
	}

	var author domain.Person
	if signer != nil {
		if !sameIRI(note.AttributedTo, signer.ApId) {
			return domain.Entry{}, fmt.Errorf("%w: %s sent a note of %s", federation.ErrForbidden, signer.ApId, note.AttributedTo)
		}
		author = *signer
	} else if author, err = g.actorByIRI(ctx, note.AttributedTo); err != nil {
		return domain.Entry{}, err
	}
	if author.IsLocal(g.cfg.Hostname) {
		return domain.Entry{}, fmt.Errorf("%w: remote note attributed to local %s", federation.ErrForbidden, author.UserID())
	}

	var parentID int64
	if note.InReplyTo != nil {
		parent, err := g.db.GetEntryByApId(ctx, note.InReplyTo)
		switch {
		case err == nil:
			parentID = parent.ID
		case !errors.Is(err, db.ErrNotFound):
			return domain.Entry{}, err
		}
	}

	e := note.Entry
	e.Author = author
	e.Tags = validTags(e.Tags)
	e, err = g.db.CreateEntry(ctx, e, parentID)
	if err != nil {
		return domain.Entry{}, err
	}

	log.Debug().Str("entry", e.Ref().String()).Str("iri", e.ApId.String()).Msg("stored remote entry")
	g.search.IndexEntry(e)
	return e, nil
}

// validTags drops the tags of remote entries that local ones could not carry.
func validTags(tags []string) []string {
	valid := make([]string, 0, len(tags))
	for _, t := range tags {
		if validate.Tag(t) == nil {
			valid = append(valid, t)
		}
	}
	return valid
}

func idOfType(t vocab.Type) *url.URL {
	if id := t.GetJSONLDId(); id != nil {
		return id.Get()
	}
	return nil
}
