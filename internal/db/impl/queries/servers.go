package queries

import (
	"context"
	"database/sql"
)

const serverColumns = `id, hostname, public_key, local, created`

func scanServer(row scanner) (s Server, err error) {
	err = row.Scan(&s.ID, &s.Hostname, &s.PublicKey, &s.Local, &s.Created)
	return
}

const getServerByHostname = `SELECT ` + serverColumns + ` FROM servers WHERE hostname = ?`

func (q *Queries) GetServerByHostname(ctx context.Context, hostname string) (Server, error) {
	return scanServer(q.db.QueryRowContext(ctx, getServerByHostname, hostname))
}

const insertServer = `INSERT INTO servers (hostname, public_key, private_key, local)
VALUES (?, ?, ?, ?)
RETURNING ` + serverColumns

type InsertServerParams struct {
	Hostname   string
	PublicKey  sql.NullString
	PrivateKey sql.NullString
	Local      bool
}

func (q *Queries) InsertServer(ctx context.Context, arg InsertServerParams) (Server, error) {
	row := q.db.QueryRowContext(ctx, insertServer, arg.Hostname, arg.PublicKey, arg.PrivateKey, arg.Local)
	return scanServer(row)
}

const localServerExists = `SELECT EXISTS(SELECT TRUE FROM servers WHERE hostname = ? AND local)`

func (q *Queries) LocalServerExists(ctx context.Context, hostname string) (exists bool, err error) {
	err = q.db.QueryRowContext(ctx, localServerExists, hostname).Scan(&exists)
	return
}

const markServerLocal = `UPDATE servers SET local = TRUE, public_key = ?, private_key = ? WHERE hostname = ?`

type MarkServerLocalParams struct {
	PublicKey  string
	PrivateKey string
	Hostname   string
}

func (q *Queries) MarkServerLocal(ctx context.Context, arg MarkServerLocalParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markServerLocal, arg.PublicKey, arg.PrivateKey, arg.Hostname)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listServers = `SELECT ` + serverColumns + ` FROM servers ORDER BY local DESC, hostname`

func (q *Queries) ListServers(ctx context.Context) ([]Server, error) {
	rows, err := q.db.QueryContext(ctx, listServers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Server
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const getLocalServerKey = `SELECT private_key FROM servers WHERE local LIMIT 1`

func (q *Queries) GetLocalServerKey(ctx context.Context) (key sql.NullString, err error) {
	err = q.db.QueryRowContext(ctx, getLocalServerKey).Scan(&key)
	return
}
