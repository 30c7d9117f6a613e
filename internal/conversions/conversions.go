package conversions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/validate"
)

// PersonToActor renders a local person as an ActivityStreams Person. profile is the person's web page.
func PersonToActor(p domain.Person, profile *url.URL) vocab.ActivityStreamsPerson {
	a := streams.NewActivityStreamsPerson()

	id := streams.NewJSONLDIdProperty()
	id.SetIRI(p.ApId)
	a.SetJSONLDId(id)

	username := streams.NewActivityStreamsPreferredUsernameProperty()
	username.SetXMLSchemaString(p.Username)
	a.SetActivityStreamsPreferredUsername(username)

	name := streams.NewActivityStreamsNameProperty()
	name.AppendXMLSchemaString(p.UserID().String())
	a.SetActivityStreamsName(name)

	if p.Biography != "" {
		summary := streams.NewActivityStreamsSummaryProperty()
		summary.AppendXMLSchemaString(p.Biography)
		a.SetActivityStreamsSummary(summary)
	}

	if profile != nil {
		iri := streams.NewActivityStreamsUrlProperty()
		iri.AppendIRI(profile)
		a.SetActivityStreamsUrl(iri)
	}

	inbox := streams.NewActivityStreamsInboxProperty()
	inbox.SetIRI(p.Inbox)
	a.SetActivityStreamsInbox(inbox)

	if !p.Created.IsZero() {
		created := streams.NewActivityStreamsPublishedProperty()
		created.Set(p.Created)
		a.SetActivityStreamsPublished(created)
	}

	a.SetW3IDSecurityV1PublicKey(PublicKeyProp(p.ApId, p.PublicKey))

	return a
}

// InstanceActor renders this server as an Application actor, the owner of the key used for requests the
// server makes on its own behalf.
func InstanceActor(srv domain.Server, id, home *url.URL) vocab.ActivityStreamsApplication {
	a := streams.NewActivityStreamsApplication()

	idProp := streams.NewJSONLDIdProperty()
	idProp.SetIRI(id)
	a.SetJSONLDId(idProp)

	username := streams.NewActivityStreamsPreferredUsernameProperty()
	username.SetXMLSchemaString(srv.Hostname)
	a.SetActivityStreamsPreferredUsername(username)

	page := streams.NewActivityStreamsUrlProperty()
	page.AppendIRI(home)
	a.SetActivityStreamsUrl(page)

	inbox := streams.NewActivityStreamsInboxProperty()
	inbox.SetIRI(id.JoinPath("inbox"))
	a.SetActivityStreamsInbox(inbox)

	a.SetW3IDSecurityV1PublicKey(PublicKeyProp(id, srv.PublicKey))
	return a
}

func PublicKeyProp(owner *url.URL, publicKeyPem string) vocab.W3IDSecurityV1PublicKeyProperty {
	keyProp := streams.NewW3IDSecurityV1PublicKeyProperty()
	key := streams.NewW3IDSecurityV1PublicKey()

	ownerProp := streams.NewW3IDSecurityV1OwnerProperty()
	ownerProp.SetIRI(owner)

	keyURIProp := streams.NewJSONLDIdProperty()
	keyURIProp.SetIRI(federation.KeyID(owner))

	pemProp := streams.NewW3IDSecurityV1PublicKeyPemProperty()
	pemProp.Set(publicKeyPem)

	key.SetJSONLDId(keyURIProp)
	key.SetW3IDSecurityV1Owner(ownerProp)
	key.SetW3IDSecurityV1PublicKeyPem(pemProp)

	keyProp.AppendW3IDSecurityV1PublicKey(key)
	return keyProp
}

// ToActor accepts the actor types a remote person may be published as.
func ToActor(t vocab.Type) (Actor, error) {
	switch t.GetTypeName() {
	case streams.ActivityStreamsPersonName,
		streams.ActivityStreamsServiceName,
		streams.ActivityStreamsApplicationName,
		streams.ActivityStreamsGroupName:
		a, ok := t.(Actor)
		if !ok {
			return nil, fmt.Errorf("%w: %s", federation.ErrUnprocessablePropValue, t.GetTypeName())
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %s is not an actor", federation.ErrUnsupported, t.GetTypeName())
	}
}

// ActorToPerson builds a person record from a remote actor. The hostname is taken from the actor's IRI.
func ActorToPerson(a Actor) (p domain.Person, err error) {
	idProp := a.GetJSONLDId()
	if idProp == nil || idProp.Get() == nil {
		return p, fmt.Errorf("%w: id", federation.ErrMissingProperty)
	}
	p.ApId = idProp.Get()
	p.Hostname = strings.ToLower(p.ApId.Host)

	username := a.GetActivityStreamsPreferredUsername()
	if username == nil || !username.IsXMLSchemaString() || username.GetXMLSchemaString() == "" {
		return p, fmt.Errorf("%w: preferredUsername", federation.ErrMissingProperty)
	}
	p.Username = username.GetXMLSchemaString()
	if err = validate.Username(p.Username); err != nil {
		return p, fmt.Errorf("%w: preferredUsername: %s", federation.ErrUnprocessablePropValue, err)
	}

	if summary := a.GetActivityStreamsSummary(); summary != nil && summary.Len() != 0 {
		p.Biography = summary.Begin().GetXMLSchemaString()
	}

	inbox := a.GetActivityStreamsInbox()
	if inbox == nil {
		return p, fmt.Errorf("%w: inbox", federation.ErrMissingProperty)
	}
	if !inbox.IsIRI() {
		return p, fmt.Errorf("%w: inbox", federation.ErrUnprocessablePropValue)
	}
	p.Inbox = inbox.GetIRI()

	if owner := KeyOwner(a); owner != nil && owner.String() != p.ApId.String() {
		return p, fmt.Errorf("%w: key of %s is owned by %s", federation.ErrUnprocessablePropValue, p.ApId, owner)
	}
	p.PublicKey, err = ExtractPublicKeyFromActor(a)
	return
}

// Serialize renders t as JSON, including its @context.
func Serialize(t vocab.Type) ([]byte, error) {
	m, err := streams.Serialize(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func Deserialize(ctx context.Context, data []byte) (vocab.Type, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", federation.ErrUnprocessablePropValue, err)
	}
	return streams.ToType(ctx, m)
}
