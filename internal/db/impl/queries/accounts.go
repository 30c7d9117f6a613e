package queries

import "context"

const accountColumns = `a.id, a.person_id, p.username, a.email, a.password, a.admin, a.active`

const accountFrom = ` FROM accounts a
JOIN people p ON p.id = a.person_id
JOIN servers s ON s.id = p.server_id`

func scanAccount(row scanner) (a Account, err error) {
	err = row.Scan(&a.ID, &a.PersonID, &a.Username, &a.Email, &a.Password, &a.Admin, &a.Active)
	return
}

const insertAccount = `INSERT INTO accounts (person_id, email, password, admin) VALUES (?, ?, ?, ?) RETURNING id`

type InsertAccountParams struct {
	PersonID int64
	Email    string
	Password string
	Admin    bool
}

func (q *Queries) InsertAccount(ctx context.Context, arg InsertAccountParams) (id int64, err error) {
	err = q.db.QueryRowContext(ctx, insertAccount, arg.PersonID, arg.Email, arg.Password, arg.Admin).Scan(&id)
	return
}

const getAccountByUsername = `SELECT ` + accountColumns + accountFrom + ` WHERE s.local AND p.username = ?`

func (q *Queries) GetAccountByUsername(ctx context.Context, username string) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByUsername, username))
}

const getAccountByEmail = `SELECT ` + accountColumns + accountFrom + ` WHERE a.email = ?`

func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByEmail, email))
}

const getAccountByPerson = `SELECT ` + accountColumns + accountFrom + ` WHERE a.person_id = ?`

func (q *Queries) GetAccountByPerson(ctx context.Context, personID int64) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByPerson, personID))
}

const updatePassword = `UPDATE accounts SET password = ? WHERE id = ?`

type UpdatePasswordParams struct {
	Password string
	ID       int64
}

func (q *Queries) UpdatePassword(ctx context.Context, arg UpdatePasswordParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePassword, arg.Password, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
