package queries

import (
	"context"
	"database/sql"
)

const entrySelect = `SELECT e.id, e.seq, e.ap_id, e.title, e.subtitle, e.summary, e.content, e.rights, e.generator,
	e.in_reply_to_id, e.published, e.updated,
	(SELECT group_concat(t.tag, ' ') FROM entry_tags t WHERE t.entry_id = e.id),
	` + personColumns + `,
	rp.username, rs.hostname, r.seq, r.ap_id
FROM entries e
JOIN people p ON p.id = e.author_id
JOIN servers s ON s.id = p.server_id
LEFT JOIN accounts a ON a.person_id = p.id
LEFT JOIN entries r ON r.id = e.in_reply_to_id
LEFT JOIN people rp ON rp.id = r.author_id
LEFT JOIN servers rs ON rs.id = rp.server_id`

func scanEntry(row scanner) (e Entry, err error) {
	a := &e.Author
	err = row.Scan(
		&e.ID,
		&e.Seq,
		&e.ApID,
		&e.Title,
		&e.Subtitle,
		&e.Summary,
		&e.Content,
		&e.Rights,
		&e.Generator,
		&e.InReplyToID,
		&e.Published,
		&e.Updated,
		&e.Tags,
		&a.ID,
		&a.ServerID,
		&a.Username,
		&a.Hostname,
		&a.Biography,
		&a.ApID,
		&a.Inbox,
		&a.PublicKey,
		&a.AccountID,
		&a.Created,
		&e.ReplyUsername,
		&e.ReplyHostname,
		&e.ReplySeq,
		&e.ReplyApID,
	)
	return
}

const getEntry = entrySelect + ` WHERE e.author_id = ? AND e.seq = ?`

type GetEntryParams struct {
	AuthorID int64
	Seq      int64
}

func (q *Queries) GetEntry(ctx context.Context, arg GetEntryParams) (Entry, error) {
	return scanEntry(q.db.QueryRowContext(ctx, getEntry, arg.AuthorID, arg.Seq))
}

const getEntryByID = entrySelect + ` WHERE e.id = ?`

func (q *Queries) GetEntryByID(ctx context.Context, id int64) (Entry, error) {
	return scanEntry(q.db.QueryRowContext(ctx, getEntryByID, id))
}

const getEntryByApID = entrySelect + ` WHERE e.ap_id = ?`

func (q *Queries) GetEntryByApID(ctx context.Context, apID string) (Entry, error) {
	return scanEntry(q.db.QueryRowContext(ctx, getEntryByApID, apID))
}

// QueryEntries runs a filter built at runtime. where must only reference the aliases of entrySelect and
// args must end with the limit and the offset.
func (q *Queries) QueryEntries(ctx context.Context, where string, args ...any) ([]Entry, error) {
	query := entrySelect + "\nWHERE " + where + "\nORDER BY e.published DESC, e.id DESC\nLIMIT ? OFFSET ?"
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const insertEntry = `INSERT INTO entries (
	author_id, seq, ap_id, title, subtitle, summary, content, rights, generator, in_reply_to_id, published, updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type InsertEntryParams struct {
	AuthorID    int64
	Seq         int64
	ApID        sql.NullString
	Title       string
	Subtitle    string
	Summary     string
	Content     string
	Rights      string
	Generator   string
	InReplyToID sql.NullInt64
	Published   int64
	Updated     int64
}

func (q *Queries) InsertEntry(ctx context.Context, arg InsertEntryParams) (id int64, err error) {
	row := q.db.QueryRowContext(ctx, insertEntry,
		arg.AuthorID,
		arg.Seq,
		arg.ApID,
		arg.Title,
		arg.Subtitle,
		arg.Summary,
		arg.Content,
		arg.Rights,
		arg.Generator,
		arg.InReplyToID,
		arg.Published,
		arg.Updated,
	)
	err = row.Scan(&id)
	return
}

const updateEntry = `UPDATE entries
SET title = ?, subtitle = ?, summary = ?, content = ?, rights = ?, generator = ?, updated = ?
WHERE id = ?`

type UpdateEntryParams struct {
	Title     string
	Subtitle  string
	Summary   string
	Content   string
	Rights    string
	Generator string
	Updated   int64
	ID        int64
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateEntry,
		arg.Title,
		arg.Subtitle,
		arg.Summary,
		arg.Content,
		arg.Rights,
		arg.Generator,
		arg.Updated,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteEntry = `DELETE FROM entries WHERE id = ?`

func (q *Queries) DeleteEntry(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEntry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Replies keep existing when their parent goes away; they only lose the link.
const detachReplies = `UPDATE entries SET in_reply_to_id = NULL WHERE in_reply_to_id = ?`

func (q *Queries) DetachReplies(ctx context.Context, parentID int64) error {
	_, err := q.db.ExecContext(ctx, detachReplies, parentID)
	return err
}

const insertEntryTag = `INSERT OR IGNORE INTO entry_tags (entry_id, tag) VALUES (?, ?)`

type InsertEntryTagParams struct {
	EntryID int64
	Tag     string
}

func (q *Queries) InsertEntryTag(ctx context.Context, arg InsertEntryTagParams) error {
	_, err := q.db.ExecContext(ctx, insertEntryTag, arg.EntryID, arg.Tag)
	return err
}

const deleteEntryTags = `DELETE FROM entry_tags WHERE entry_id = ?`

func (q *Queries) DeleteEntryTags(ctx context.Context, entryID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEntryTags, entryID)
	return err
}

const insertEntryContributor = `INSERT OR IGNORE INTO entry_contributors (entry_id, person_id) VALUES (?, ?)`

type InsertEntryContributorParams struct {
	EntryID  int64
	PersonID int64
}

func (q *Queries) InsertEntryContributor(ctx context.Context, arg InsertEntryContributorParams) error {
	_, err := q.db.ExecContext(ctx, insertEntryContributor, arg.EntryID, arg.PersonID)
	return err
}

const deleteEntryContributors = `DELETE FROM entry_contributors WHERE entry_id = ?`

func (q *Queries) DeleteEntryContributors(ctx context.Context, entryID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEntryContributors, entryID)
	return err
}

const getEntryContributors = `SELECT ` + personColumns + personFrom + `
JOIN entry_contributors c ON c.person_id = p.id
WHERE c.entry_id = ?
ORDER BY p.id`

func (q *Queries) GetEntryContributors(ctx context.Context, entryID int64) ([]Person, error) {
	return q.queryPeople(ctx, getEntryContributors, entryID)
}

const insertRevision = `INSERT INTO entry_revisions (entry_id, editor_id, diff, created) VALUES (?, ?, ?, ?)`

type InsertRevisionParams struct {
	EntryID  int64
	EditorID sql.NullInt64
	Diff     string
	Created  int64
}

func (q *Queries) InsertRevision(ctx context.Context, arg InsertRevisionParams) error {
	_, err := q.db.ExecContext(ctx, insertRevision, arg.EntryID, arg.EditorID, arg.Diff, arg.Created)
	return err
}

const getRevisions = `SELECT r.id, r.entry_id, p.username, s.hostname, r.diff, r.created
FROM entry_revisions r
LEFT JOIN people p ON p.id = r.editor_id
LEFT JOIN servers s ON s.id = p.server_id
WHERE r.entry_id = ?
ORDER BY r.id DESC`

func (q *Queries) GetRevisions(ctx context.Context, entryID int64) ([]Revision, error) {
	rows, err := q.db.QueryContext(ctx, getRevisions, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.EntryID, &r.EditorUsername, &r.EditorHostname, &r.Diff, &r.Created); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}
