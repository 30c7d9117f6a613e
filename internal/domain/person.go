package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/validate"
)

var ErrInvalidUserID = errors.New("invalid userid")

// Server is a federation peer, or this server itself when Local is true.
type Server struct {
	ID        int64
	Hostname  string
	PublicKey string
	Local     bool
	Created   time.Time
}

// UserID is the federated identity of a person, rendered as username@hostname.
type UserID struct {
	Username string
	Hostname string
}

// ParseUserID splits s into username and hostname. A missing hostname is replaced by defaultHost, which is
// expected to be this server's hostname. A leading '@' is tolerated so that "@alice@example.org" is accepted.
func ParseUserID(s, defaultHost string) (UserID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")

	username, hostname, found := strings.Cut(s, "@")
	if !found || hostname == "" {
		hostname = defaultHost
	}
	id := UserID{
		Username: username,
		Hostname: strings.ToLower(hostname),
	}

	if err := errors.Join(validate.Username(id.Username), validate.Hostname(id.Hostname)); err != nil {
		return UserID{}, fmt.Errorf("%w %q: %s", ErrInvalidUserID, s, err)
	}
	return id, nil
}

func (u UserID) String() string {
	return u.Username + "@" + u.Hostname
}

func (u UserID) IsZero() bool {
	return u.Username == "" && u.Hostname == ""
}

type Person struct {
	ID        int64
	ServerID  int64
	Username  string
	Hostname  string
	Biography string
	// ApId is the IRI of the person's ActivityStreams actor.
	ApId      *url.URL
	Inbox     *url.URL
	PublicKey string
	// AccountID is zero for people who do not have an account on this server.
	AccountID int64
	Created   time.Time
}

func (p Person) UserID() UserID {
	return UserID{Username: p.Username, Hostname: p.Hostname}
}

// IsLocal reports whether p belongs to the server known by hostname.
func (p Person) IsLocal(hostname string) bool {
	return strings.EqualFold(p.Hostname, hostname)
}

type Account struct {
	ID       int64
	PersonID int64
	Username string
	Email    string
	// Password holds the bcrypt hash of the password.
	Password string
	Admin    bool
	Active   bool
}
