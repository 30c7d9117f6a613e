package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/Wididit/Wididit-server/internal/domain"
)

var (
	ErrInvalidInput = errors.New("invalid")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrUnavailable is returned when an operation needs a component that is not configured.
	ErrUnavailable = errors.New("unavailable")
)

// Caller is the person on whose behalf an operation runs. The zero value is an anonymous caller.
type Caller struct {
	Person  domain.Person
	Account domain.Account
}

func (c Caller) Anonymous() bool {
	return c.Person.ID == 0
}

func (c Caller) Admin() bool {
	return !c.Anonymous() && c.Account.Admin
}

type NewAccount struct {
	Username  string
	Email     string
	Password  string
	Biography string
	Admin     bool
}

// PersonUpdate holds the fields a person may change on their own profile. Nil fields are left untouched.
type PersonUpdate struct {
	Biography *string
	Password  *string
}

// Service is what the API and the web pages can do. Userids and entry references are accepted the way clients
// write them and resolved here.
type Service interface {
	// AuthenticateUser takes the user's identifier, which may be their username or email address, and password
	// and verifies if these credentials are correct. If authentication fails, authenticated is false and
	// err is nil; a non nil error indicates that an internal, unexpected error has occured.
	AuthenticateUser(ctx context.Context, user, password string) (a domain.Account, authenticated bool, err error)
	// CallerOf loads the person and account behind an authenticated session.
	CallerOf(ctx context.Context, personID int64) (Caller, error)
	// Register creates a local person and their account, if registration is open.
	Register(ctx context.Context, a NewAccount) (domain.Person, error)
	// CreateAccount is Register without the registration check, for administrators.
	CreateAccount(ctx context.Context, a NewAccount) (domain.Person, error)
	UpdatePerson(ctx context.Context, caller Caller, userid string, u PersonUpdate) (domain.Person, error)

	// ResolvePerson finds the person named by userid. The configured hostname is used when userid has none.
	ResolvePerson(ctx context.Context, userid string) (domain.Person, error)
	ListPeople(ctx context.Context, limit, offset int) ([]domain.Person, error)
	// DiscoverPerson queues the lookup of a person on another server.
	DiscoverPerson(ctx context.Context, caller Caller, userid string) error

	ListServers(ctx context.Context) ([]domain.Server, error)
	AddServer(ctx context.Context, caller Caller, hostname string) (domain.Server, error)
	LocalServer(ctx context.Context) (domain.Server, error)

	CreateEntry(ctx context.Context, caller Caller, userid string, e domain.NewEntry) (domain.Entry, error)
	GetEntry(ctx context.Context, userid, entryid string) (domain.Entry, error)
	// EditEntry replaces the editable fields of an entry and records the change in its history.
	EditEntry(ctx context.Context, caller Caller, userid, entryid string, e domain.NewEntry) (domain.Entry, error)
	DeleteEntry(ctx context.Context, caller Caller, userid, entryid string) error
	QueryEntries(ctx context.Context, caller Caller, f domain.EntryFilter) ([]domain.Entry, error)
	EntryHistory(ctx context.Context, userid, entryid string) ([]domain.Revision, error)

	Subscribe(ctx context.Context, caller Caller, target string) (domain.Subscription, error)
	Unsubscribe(ctx context.Context, caller Caller, target string) error
	Subscriptions(ctx context.Context, userid string) ([]domain.Person, error)
	Subscribers(ctx context.Context, userid string) ([]domain.Person, error)
	Share(ctx context.Context, caller Caller, userid, entryid string) (domain.Share, error)
	Unshare(ctx context.Context, caller Caller, userid, entryid string) error
	Sharers(ctx context.Context, userid, entryid string) ([]domain.Person, error)

	// ReceiveActivity hands a request posted to the inbox of a local person to the federation gateway.
	ReceiveActivity(ctx context.Context, r *http.Request, username string) error
}
