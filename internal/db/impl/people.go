package impl

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
)

func (d *dbImpl) GetPerson(ctx context.Context, serverID int64, username string) (domain.Person, error) {
	p, err := d.queries.GetPerson(ctx, queries.GetPersonParams{
		ServerID: serverID,
		Username: username,
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("person %s: %w", username, d.HandleError(err))
	}
	return toPerson(p)
}

func (d *dbImpl) GetPersonByID(ctx context.Context, id int64) (domain.Person, error) {
	p, err := d.queries.GetPersonByID(ctx, id)
	if err != nil {
		return domain.Person{}, fmt.Errorf("person id=%d: %w", id, d.HandleError(err))
	}
	return toPerson(p)
}

func (d *dbImpl) GetPersonByApId(ctx context.Context, iri *url.URL) (domain.Person, error) {
	p, err := d.queries.GetPersonByApID(ctx, iri.String())
	if err != nil {
		return domain.Person{}, fmt.Errorf("person with IRI %s: %w", iri, d.HandleError(err))
	}
	return toPerson(p)
}

func (d *dbImpl) ListPeople(ctx context.Context, limit, offset int) ([]domain.Person, error) {
	rows, err := d.queries.ListPeople(ctx, queries.ListPeopleParams{
		Limit:  int64(limit),
		Offset: int64(offset),
	})
	if err != nil {
		return nil, d.HandleError(err)
	}
	return toPeople(rows)
}

func (d *dbImpl) UpsertRemotePerson(ctx context.Context, p domain.Person, fetched time.Time) (domain.Person, error) {
	if p.ApId == nil {
		return domain.Person{}, fmt.Errorf("%w: remote person without IRI", db.ErrInternal)
	}

	server, err := d.GetOrCreateServer(ctx, p.Hostname)
	if err != nil {
		return domain.Person{}, err
	}

	var id int64
	err = d.WithTx(func(tx *queries.Queries) error {
		existing, err := tx.GetPersonByApID(ctx, p.ApId.String())
		if err == nil {
			id = existing.ID
			return tx.UpdateRemotePerson(ctx, queries.UpdateRemotePersonParams{
				Biography:   p.Biography,
				Inbox:       nullIRI(p.Inbox),
				PublicKey:   nullString(p.PublicKey),
				LastFetched: nullInt64(fetched.Unix()),
				ID:          existing.ID,
			})
		}
		if !errors.Is(d.HandleError(err), db.ErrNotFound) {
			return err
		}

		id, err = tx.InsertPerson(ctx, queries.InsertPersonParams{
			ServerID:    server.ID,
			Username:    p.Username,
			Biography:   p.Biography,
			ApID:        nullIRI(p.ApId),
			Inbox:       nullIRI(p.Inbox),
			PublicKey:   nullString(p.PublicKey),
			LastFetched: nullInt64(fetched.Unix()),
		})
		return err
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("storing %s: %w", p.UserID(), err)
	}
	return d.GetPersonByID(ctx, id)
}

func (d *dbImpl) UpdateBiography(ctx context.Context, personID int64, biography string) error {
	n, err := d.queries.UpdateBiography(ctx, queries.UpdateBiographyParams{
		Biography: biography,
		ID:        personID,
	})
	if err != nil {
		return d.HandleError(err)
	}
	if n == 0 {
		return fmt.Errorf("person id=%d: %w", personID, db.ErrNotFound)
	}
	return nil
}

func (d *dbImpl) GetPrivateKey(ctx context.Context, personID int64) (crypto.PrivateKey, error) {
	key, err := d.queries.GetPrivateKey(ctx, personID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	if !key.Valid {
		return nil, fmt.Errorf("private key of person id=%d: %w", personID, db.ErrNotFound)
	}
	return parsePrivateKey(key.String)
}
