package conversions

import (
	"net/url"

	"code.superseriousbusiness.org/activity/streams/vocab"
)

type IriProperty interface {
	IsIRI() bool
	GetIRI() *url.URL
}

type WithPublicKeyProperty interface {
	GetW3IDSecurityV1PublicKey() vocab.W3IDSecurityV1PublicKeyProperty
	SetW3IDSecurityV1PublicKey(i vocab.W3IDSecurityV1PublicKeyProperty)
}

type WithName interface {
	GetActivityStreamsName() vocab.ActivityStreamsNameProperty
}

// Actor is what Person, Service, Application and Group have in common that a person record is built from.
type Actor interface {
	vocab.Type
	WithPublicKeyProperty
	GetActivityStreamsPreferredUsername() vocab.ActivityStreamsPreferredUsernameProperty
	GetActivityStreamsSummary() vocab.ActivityStreamsSummaryProperty
	GetActivityStreamsInbox() vocab.ActivityStreamsInboxProperty
}
