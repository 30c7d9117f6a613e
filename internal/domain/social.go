package domain

import (
	"net/url"
	"time"
)

type Subscription struct {
	ID         int64
	Subscriber Person
	Target     Person
	// ApId is the IRI of the Follow activity, when the subscription crossed servers.
	ApId    *url.URL
	Created time.Time
}

// Share marks an entry as reposted by a person.
type Share struct {
	ID      int64
	Person  Person
	EntryID int64
	Created time.Time
}
