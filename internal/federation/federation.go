// Package federation holds what the ActivityPub side of the server shares: errors, media types and
// content negotiation.
package federation

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrMissingProperty        = errors.New("missing property")
	ErrUnprocessablePropValue = errors.New("unprocessable property value")
	ErrUnsupported            = errors.New("unsupported")
	ErrNotFoundIRI            = errors.New("unknown IRI")
	ErrUnauthenticated        = errors.New("request signature verification failed")
	ErrForbidden              = errors.New("actor may not perform this activity")
)

const (
	ContentType   = "application/activity+json"
	LDContentType = `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
	MainKey       = "main-key"
)

// Public is the special collection addressing an activity to everyone.
var Public, _ = url.Parse("https://www.w3.org/ns/activitystreams#Public")

// WantsActivity reports whether the client asked for an ActivityStreams representation.
func WantsActivity(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == "application/activity+json" || mediaType == "application/ld+json" {
			return true
		}
	}
	return false
}

// KeyID returns the IRI of the public key of an actor.
func KeyID(actor *url.URL) *url.URL {
	id := *actor
	id.Fragment = MainKey
	return &id
}

// ActorOfKey strips the fragment of a key IRI, which yields the actor owning the key.
func ActorOfKey(keyID *url.URL) *url.URL {
	actor := *keyID
	actor.Fragment = ""
	actor.RawFragment = ""
	return &actor
}

type WebfingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type,omitempty"`
	Href string `json:"href,omitempty"`
}

type WebfingerResponse struct {
	Subject string          `json:"subject"`
	Aliases []string        `json:"aliases,omitempty"`
	Links   []WebfingerLink `json:"links"`
}

// Self returns the actor IRI advertised by a webfinger response.
func (r WebfingerResponse) Self() (*url.URL, error) {
	for _, l := range r.Links {
		if l.Rel != "self" {
			continue
		}
		mediaType, _, _ := mime.ParseMediaType(l.Type)
		if mediaType != "application/activity+json" && mediaType != "application/ld+json" {
			continue
		}
		return url.Parse(l.Href)
	}
	return nil, fmt.Errorf("%w: self link", ErrMissingProperty)
}
