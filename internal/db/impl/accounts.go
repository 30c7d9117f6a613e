package impl

import (
	"context"
	"fmt"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
)

func (d *dbImpl) InsertAccount(ctx context.Context, p domain.Person, privateKey string, a domain.Account) (domain.Person, error) {
	server, err := d.GetServerByHostname(ctx, p.Hostname)
	if err != nil {
		return domain.Person{}, err
	}
	if !server.Local {
		return domain.Person{}, fmt.Errorf("%w: accounts can only be created for %s", db.ErrInternal, d.Config.Hostname)
	}

	var id int64
	err = d.WithTx(func(tx *queries.Queries) error {
		id, err = tx.InsertPerson(ctx, queries.InsertPersonParams{
			ServerID:   server.ID,
			Username:   p.Username,
			Biography:  p.Biography,
			ApID:       nullIRI(p.ApId),
			Inbox:      nullIRI(p.Inbox),
			PublicKey:  nullString(p.PublicKey),
			PrivateKey: nullString(privateKey),
		})
		if err != nil {
			return err
		}

		_, err = tx.InsertAccount(ctx, queries.InsertAccountParams{
			PersonID: id,
			Email:    a.Email,
			Password: a.Password,
			Admin:    a.Admin,
		})
		return err
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("account %s: %w", p.Username, err)
	}
	return d.GetPersonByID(ctx, id)
}

func (d *dbImpl) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	a, err := d.queries.GetAccountByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", username, d.HandleError(err))
	}
	return toAccount(a), nil
}

func (d *dbImpl) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	a, err := d.queries.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", email, d.HandleError(err))
	}
	return toAccount(a), nil
}

func (d *dbImpl) GetAccountByPerson(ctx context.Context, personID int64) (domain.Account, error) {
	a, err := d.queries.GetAccountByPerson(ctx, personID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account of person id=%d: %w", personID, d.HandleError(err))
	}
	return toAccount(a), nil
}

func (d *dbImpl) UpdatePassword(ctx context.Context, accountID int64, hash string) error {
	n, err := d.queries.UpdatePassword(ctx, queries.UpdatePasswordParams{
		Password: hash,
		ID:       accountID,
	})
	if err != nil {
		return d.HandleError(err)
	}
	if n == 0 {
		return fmt.Errorf("account id=%d: %w", accountID, db.ErrNotFound)
	}
	return nil
}
