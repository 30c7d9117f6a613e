package queries

import "database/sql"

type Server struct {
	ID        int64
	Hostname  string
	PublicKey sql.NullString
	Local     bool
	Created   int64
}

// Person is a row of people joined with its server's hostname and, for local people, the account id.
type Person struct {
	ID        int64
	ServerID  int64
	Username  string
	Hostname  string
	Biography string
	ApID      sql.NullString
	Inbox     sql.NullString
	PublicKey sql.NullString
	AccountID sql.NullInt64
	Created   int64
}

type Account struct {
	ID       int64
	PersonID int64
	Username string
	Email    string
	Password string
	Admin    bool
	Active   bool
}

// Entry is a row of entries joined with its author and with the address of the entry it replies to.
type Entry struct {
	ID            int64
	Seq           int64
	ApID          sql.NullString
	Title         string
	Subtitle      string
	Summary       string
	Content       string
	Rights        string
	Generator     string
	InReplyToID   sql.NullInt64
	Published     int64
	Updated       int64
	// Tags is a space separated list.
	Tags          sql.NullString
	Author        Person
	ReplyUsername sql.NullString
	ReplyHostname sql.NullString
	ReplySeq      sql.NullInt64
	ReplyApID     sql.NullString
}

type Revision struct {
	ID             int64
	EntryID        int64
	EditorUsername sql.NullString
	EditorHostname sql.NullString
	Diff           string
	Created        int64
}

type Subscription struct {
	ID      int64
	ApID    sql.NullString
	Created int64
}
