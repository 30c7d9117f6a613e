package queries

import (
	"context"
	"database/sql"
)

const personColumns = `p.id, p.server_id, p.username, s.hostname, p.biography, p.ap_id, p.inbox, p.public_key, a.id, p.created`

const personFrom = ` FROM people p
JOIN servers s ON s.id = p.server_id
LEFT JOIN accounts a ON a.person_id = p.id`

func scanPerson(row scanner) (p Person, err error) {
	err = row.Scan(
		&p.ID,
		&p.ServerID,
		&p.Username,
		&p.Hostname,
		&p.Biography,
		&p.ApID,
		&p.Inbox,
		&p.PublicKey,
		&p.AccountID,
		&p.Created,
	)
	return
}

func (q *Queries) queryPeople(ctx context.Context, query string, args ...any) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const getPerson = `SELECT ` + personColumns + personFrom + ` WHERE p.server_id = ? AND p.username = ?`

type GetPersonParams struct {
	ServerID int64
	Username string
}

func (q *Queries) GetPerson(ctx context.Context, arg GetPersonParams) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPerson, arg.ServerID, arg.Username))
}

const getPersonByID = `SELECT ` + personColumns + personFrom + ` WHERE p.id = ?`

func (q *Queries) GetPersonByID(ctx context.Context, id int64) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPersonByID, id))
}

const getPersonByApID = `SELECT ` + personColumns + personFrom + ` WHERE p.ap_id = ?`

func (q *Queries) GetPersonByApID(ctx context.Context, apID string) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPersonByApID, apID))
}

const listPeople = `SELECT ` + personColumns + personFrom + `
ORDER BY s.local DESC, s.hostname, p.username
LIMIT ? OFFSET ?`

type ListPeopleParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListPeople(ctx context.Context, arg ListPeopleParams) ([]Person, error) {
	return q.queryPeople(ctx, listPeople, arg.Limit, arg.Offset)
}

const insertPerson = `INSERT INTO people (server_id, username, biography, ap_id, inbox, public_key, private_key, last_fetched)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type InsertPersonParams struct {
	ServerID    int64
	Username    string
	Biography   string
	ApID        sql.NullString
	Inbox       sql.NullString
	PublicKey   sql.NullString
	PrivateKey  sql.NullString
	LastFetched sql.NullInt64
}

func (q *Queries) InsertPerson(ctx context.Context, arg InsertPersonParams) (id int64, err error) {
	row := q.db.QueryRowContext(ctx, insertPerson,
		arg.ServerID,
		arg.Username,
		arg.Biography,
		arg.ApID,
		arg.Inbox,
		arg.PublicKey,
		arg.PrivateKey,
		arg.LastFetched,
	)
	err = row.Scan(&id)
	return
}

const updateRemotePerson = `UPDATE people
SET biography = ?, inbox = ?, public_key = ?, last_fetched = ?
WHERE id = ?`

type UpdateRemotePersonParams struct {
	Biography   string
	Inbox       sql.NullString
	PublicKey   sql.NullString
	LastFetched sql.NullInt64
	ID          int64
}

func (q *Queries) UpdateRemotePerson(ctx context.Context, arg UpdateRemotePersonParams) error {
	_, err := q.db.ExecContext(ctx, updateRemotePerson, arg.Biography, arg.Inbox, arg.PublicKey, arg.LastFetched, arg.ID)
	return err
}

const updateBiography = `UPDATE people SET biography = ? WHERE id = ?`

type UpdateBiographyParams struct {
	Biography string
	ID        int64
}

func (q *Queries) UpdateBiography(ctx context.Context, arg UpdateBiographyParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBiography, arg.Biography, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPrivateKey = `SELECT private_key FROM people WHERE id = ?`

func (q *Queries) GetPrivateKey(ctx context.Context, id int64) (key sql.NullString, err error) {
	err = q.db.QueryRowContext(ctx, getPrivateKey, id).Scan(&key)
	return
}

// The counter is moved past the highest stored sequence number as well, so rows written before the counter
// existed can never be handed a duplicate.
const nextEntrySeq = `UPDATE people
SET entry_counter = MAX(entry_counter, (SELECT COALESCE(MAX(seq), 0) FROM entries WHERE author_id = ?1)) + 1
WHERE id = ?1
RETURNING entry_counter`

func (q *Queries) NextEntrySeq(ctx context.Context, authorID int64) (seq int64, err error) {
	err = q.db.QueryRowContext(ctx, nextEntrySeq, authorID).Scan(&seq)
	return
}
