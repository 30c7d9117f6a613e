package impl

import (
	"crypto"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/utils"
)

func nullString(s string) sql.NullString {
	return sql.NullString{
		Valid:  s != "",
		String: s,
	}
}

func nullIRI(u *url.URL) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return nullString(u.String())
}

func nullInt64(i int64) sql.NullInt64 {
	return sql.NullInt64{
		Valid: i != 0,
		Int64: i,
	}
}

func parseNullIRI(s sql.NullString) (*url.URL, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	u, err := url.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse IRI: %s", db.ErrInternal, s.String)
	}
	return u, nil
}

func toServer(s queries.Server) domain.Server {
	return domain.Server{
		ID:        s.ID,
		Hostname:  s.Hostname,
		PublicKey: s.PublicKey.String,
		Local:     s.Local,
		Created:   time.Unix(s.Created, 0),
	}
}

func toPerson(p queries.Person) (person domain.Person, err error) {
	person = domain.Person{
		ID:        p.ID,
		ServerID:  p.ServerID,
		Username:  p.Username,
		Hostname:  p.Hostname,
		Biography: p.Biography,
		PublicKey: p.PublicKey.String,
		AccountID: p.AccountID.Int64,
		Created:   time.Unix(p.Created, 0),
	}

	if person.ApId, err = parseNullIRI(p.ApID); err != nil {
		return
	}
	person.Inbox, err = parseNullIRI(p.Inbox)
	return
}

func toPeople(rows []queries.Person) ([]domain.Person, error) {
	people := make([]domain.Person, len(rows))
	for i, r := range rows {
		var err error
		if people[i], err = toPerson(r); err != nil {
			return nil, err
		}
	}
	return people, nil
}

func toAccount(a queries.Account) domain.Account {
	return domain.Account{
		ID:       a.ID,
		PersonID: a.PersonID,
		Username: a.Username,
		Email:    a.Email,
		Password: a.Password,
		Admin:    a.Admin,
		Active:   a.Active,
	}
}

func toEntry(e queries.Entry) (entry domain.Entry, err error) {
	entry = domain.Entry{
		ID:        e.ID,
		Seq:       e.Seq,
		Title:     e.Title,
		Subtitle:  e.Subtitle,
		Summary:   e.Summary,
		Content:   e.Content,
		Rights:    e.Rights,
		Generator: e.Generator,
		Tags:      []string{},
		Published: time.Unix(e.Published, 0),
		Updated:   time.Unix(e.Updated, 0),
	}

	if e.Tags.Valid && e.Tags.String != "" {
		entry.Tags = strings.Fields(e.Tags.String)
	}

	if entry.Author, err = toPerson(e.Author); err != nil {
		return
	}
	if entry.ApId, err = parseNullIRI(e.ApID); err != nil {
		return
	}

	if e.ReplySeq.Valid {
		entry.InReplyTo = &domain.EntryRef{
			Author: domain.UserID{
				Username: e.ReplyUsername.String,
				Hostname: e.ReplyHostname.String,
			},
			Seq: e.ReplySeq.Int64,
		}
		entry.InReplyToApId, err = parseNullIRI(e.ReplyApID)
	}
	return
}

func parsePrivateKey(key string) (crypto.PrivateKey, error) {
	k, err := utils.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", db.ErrInternal, err)
	}
	return k, nil
}
