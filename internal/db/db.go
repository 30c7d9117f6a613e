package db

import (
	"context"
	"crypto"
	"errors"
	"net/url"
	"time"

	"github.com/Wididit/Wididit-server/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInternal = errors.New("internal database error")
)

//go:generate mockgen -destination=../mocks/mock_db.go -package=mock_db github.com/Wididit/Wididit-server/internal/db DB

type DB interface {
	Servers
	Persons
	Accounts
	Entries
	Social
}

type Servers interface {
	GetServerByHostname(ctx context.Context, hostname string) (domain.Server, error)
	// GetOrCreateServer returns the server known by hostname, inserting it first if it is not yet known.
	GetOrCreateServer(ctx context.Context, hostname string) (domain.Server, error)
	InsertServer(ctx context.Context, hostname string) (domain.Server, error)
	ListServers(ctx context.Context) ([]domain.Server, error)
	// GetInstanceKey returns the private key of this server, used to sign requests made on its own behalf.
	GetInstanceKey(ctx context.Context) (crypto.PrivateKey, error)
}

type Persons interface {
	GetPerson(ctx context.Context, serverID int64, username string) (domain.Person, error)
	GetPersonByID(ctx context.Context, id int64) (domain.Person, error)
	GetPersonByApId(ctx context.Context, iri *url.URL) (domain.Person, error)
	ListPeople(ctx context.Context, limit, offset int) ([]domain.Person, error)
	// UpsertRemotePerson stores a person fetched from another server, keyed by its actor IRI.
	UpsertRemotePerson(ctx context.Context, p domain.Person, fetched time.Time) (domain.Person, error)
	UpdateBiography(ctx context.Context, personID int64, biography string) error
	GetPrivateKey(ctx context.Context, personID int64) (crypto.PrivateKey, error)
}

type Accounts interface {
	// InsertAccount creates a local person together with its account.
	InsertAccount(ctx context.Context, p domain.Person, privateKey string, a domain.Account) (domain.Person, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)
	GetAccountByPerson(ctx context.Context, personID int64) (domain.Account, error)
	UpdatePassword(ctx context.Context, accountID int64, hash string) error
}

type Entries interface {
	// CreateEntry assigns the next sequence number of the author and stores the entry. Numbers are never
	// reused, even after the entries holding them are deleted.
	CreateEntry(ctx context.Context, e domain.Entry, inReplyToID int64) (domain.Entry, error)
	GetEntry(ctx context.Context, authorID, seq int64) (domain.Entry, error)
	GetEntryByID(ctx context.Context, id int64) (domain.Entry, error)
	GetEntryByApId(ctx context.Context, iri *url.URL) (domain.Entry, error)
	// UpdateEntry overwrites the editable fields of e and records the edit as a revision.
	UpdateEntry(ctx context.Context, e domain.Entry, editorID int64, diff string) (domain.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	QueryEntries(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error)
	GetRevisions(ctx context.Context, entryID int64) ([]domain.Revision, error)
}

type Social interface {
	Subscribe(ctx context.Context, subscriberID, targetID int64, apId *url.URL) (domain.Subscription, error)
	Unsubscribe(ctx context.Context, subscriberID, targetID int64) (domain.Subscription, error)
	GetSubscriptions(ctx context.Context, subscriberID int64) ([]domain.Person, error)
	GetSubscribers(ctx context.Context, targetID int64) ([]domain.Person, error)
	Share(ctx context.Context, personID, entryID int64) (domain.Share, error)
	Unshare(ctx context.Context, personID, entryID int64) error
	GetSharers(ctx context.Context, entryID int64) ([]domain.Person, error)
}
