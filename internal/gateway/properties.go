package gateway

import (
	"fmt"
	"net/url"
	"strings"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/federation"
)

// objectProperty is what every activity carrying an object has in common.
type objectProperty interface {
	GetActivityStreamsObject() vocab.ActivityStreamsObjectProperty
}

type actorProperty interface {
	GetActivityStreamsActor() vocab.ActivityStreamsActorProperty
}

func processId(prop vocab.JSONLDIdProperty) (*url.URL, error) {
	if prop == nil || prop.GetIRI() == nil {
		return nil, fmt.Errorf("%w: id", federation.ErrMissingProperty)
	}
	return prop.GetIRI(), nil
}

// processActor returns the IRI of the first actor of an activity.
func processActor(activity actorProperty) (*url.URL, error) {
	prop := activity.GetActivityStreamsActor()
	if prop == nil || prop.Len() == 0 {
		return nil, fmt.Errorf("%w: actor", federation.ErrMissingProperty)
	}

	iter := prop.Begin()
	return conversions.IdOf(iter.GetIRI(), iter.GetType())
}

// processObject returns the first object of an activity: its IRI, and the object itself when it is embedded.
func processObject(activity objectProperty) (*url.URL, vocab.Type, error) {
	prop := activity.GetActivityStreamsObject()
	if prop == nil || prop.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: object", federation.ErrMissingProperty)
	}

	iter := prop.Begin()
	iri, err := conversions.IdOf(iter.GetIRI(), iter.GetType())
	if err != nil {
		return nil, nil, err
	}
	return iri, iter.GetType(), nil
}

func sameIRI(a, b *url.URL) bool {
	return a != nil && b != nil && a.String() == b.String()
}

// sameHost reports whether a and b are served by the same server.
func sameHost(a, b *url.URL) bool {
	return a != nil && b != nil && strings.EqualFold(a.Host, b.Host)
}
