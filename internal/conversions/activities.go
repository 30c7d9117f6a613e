package conversions

import (
	"net/url"
	"time"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/federation"
)

func idProp(iri *url.URL) vocab.JSONLDIdProperty {
	id := streams.NewJSONLDIdProperty()
	id.SetIRI(iri)
	return id
}

func actorProp(actor *url.URL) vocab.ActivityStreamsActorProperty {
	a := streams.NewActivityStreamsActorProperty()
	a.AppendIRI(actor)
	return a
}

func NewFollow(id, actor, object *url.URL) vocab.ActivityStreamsFollow {
	f := streams.NewActivityStreamsFollow()
	f.SetJSONLDId(idProp(id))
	f.SetActivityStreamsActor(actorProp(actor))

	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendIRI(object)
	f.SetActivityStreamsObject(obj)

	return f
}

// NewAccept answers a follow request. The follow is repeated in the object, as other servers expect.
func NewAccept(id, actor *url.URL, follow vocab.ActivityStreamsFollow) vocab.ActivityStreamsAccept {
	a := streams.NewActivityStreamsAccept()
	a.SetJSONLDId(idProp(id))
	a.SetActivityStreamsActor(actorProp(actor))

	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendActivityStreamsFollow(follow)
	a.SetActivityStreamsObject(obj)

	return a
}

// NewUndo retracts an earlier Follow or Announce, which is embedded in the object.
func NewUndo(id, actor *url.URL, activity vocab.Type) (vocab.ActivityStreamsUndo, error) {
	u := streams.NewActivityStreamsUndo()
	u.SetJSONLDId(idProp(id))
	u.SetActivityStreamsActor(actorProp(actor))

	obj := streams.NewActivityStreamsObjectProperty()
	if err := obj.AppendType(activity); err != nil {
		return nil, err
	}
	u.SetActivityStreamsObject(obj)

	return u, nil
}

func NewCreate(id, actor *url.URL, note vocab.ActivityStreamsNote, published time.Time) vocab.ActivityStreamsCreate {
	c := streams.NewActivityStreamsCreate()
	c.SetJSONLDId(idProp(id))
	c.SetActivityStreamsActor(actorProp(actor))

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(federation.Public)
	c.SetActivityStreamsTo(to)

	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendActivityStreamsNote(note)
	c.SetActivityStreamsObject(obj)

	p := streams.NewActivityStreamsPublishedProperty()
	p.Set(published)
	c.SetActivityStreamsPublished(p)

	return c
}

func NewAnnounce(id, actor, object *url.URL, published time.Time) vocab.ActivityStreamsAnnounce {
	a := streams.NewActivityStreamsAnnounce()
	a.SetJSONLDId(idProp(id))
	a.SetActivityStreamsActor(actorProp(actor))

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(federation.Public)
	a.SetActivityStreamsTo(to)

	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendIRI(object)
	a.SetActivityStreamsObject(obj)

	p := streams.NewActivityStreamsPublishedProperty()
	p.Set(published)
	a.SetActivityStreamsPublished(p)

	return a
}

func NewUpdate(id, actor *url.URL, note vocab.ActivityStreamsNote, updated time.Time) vocab.ActivityStreamsUpdate {
	u := streams.NewActivityStreamsUpdate()
	u.SetJSONLDId(idProp(id))
	u.SetActivityStreamsActor(actorProp(actor))

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(federation.Public)
	u.SetActivityStreamsTo(to)

	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendActivityStreamsNote(note)
	u.SetActivityStreamsObject(obj)

	p := streams.NewActivityStreamsPublishedProperty()
	p.Set(updated)
	u.SetActivityStreamsPublished(p)

	return u
}

// NewDelete announces that object is gone. The object is a Tombstone carrying its former id.
func NewDelete(id, actor, object *url.URL) vocab.ActivityStreamsDelete {
	d := streams.NewActivityStreamsDelete()
	d.SetJSONLDId(idProp(id))
	d.SetActivityStreamsActor(actorProp(actor))

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(federation.Public)
	d.SetActivityStreamsTo(to)

	tombstone := streams.NewActivityStreamsTombstone()
	tombstone.SetJSONLDId(idProp(object))
	obj := streams.NewActivityStreamsObjectProperty()
	obj.AppendActivityStreamsTombstone(tombstone)
	d.SetActivityStreamsObject(obj)

	return d
}
