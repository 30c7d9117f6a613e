package queries

import (
	"context"
	"database/sql"
)

const insertSubscription = `INSERT INTO subscriptions (subscriber_id, target_id, ap_id, created)
VALUES (?, ?, ?, ?)
RETURNING id`

type InsertSubscriptionParams struct {
	SubscriberID int64
	TargetID     int64
	ApID         sql.NullString
	Created      int64
}

func (q *Queries) InsertSubscription(ctx context.Context, arg InsertSubscriptionParams) (id int64, err error) {
	row := q.db.QueryRowContext(ctx, insertSubscription, arg.SubscriberID, arg.TargetID, arg.ApID, arg.Created)
	err = row.Scan(&id)
	return
}

const deleteSubscription = `DELETE FROM subscriptions WHERE subscriber_id = ? AND target_id = ?
RETURNING id, ap_id, created`

type DeleteSubscriptionParams struct {
	SubscriberID int64
	TargetID     int64
}

func (q *Queries) DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (s Subscription, err error) {
	row := q.db.QueryRowContext(ctx, deleteSubscription, arg.SubscriberID, arg.TargetID)
	err = row.Scan(&s.ID, &s.ApID, &s.Created)
	return
}

const getSubscriptions = `SELECT ` + personColumns + personFrom + `
JOIN subscriptions sub ON sub.target_id = p.id
WHERE sub.subscriber_id = ?
ORDER BY sub.id`

func (q *Queries) GetSubscriptions(ctx context.Context, subscriberID int64) ([]Person, error) {
	return q.queryPeople(ctx, getSubscriptions, subscriberID)
}

const getSubscribers = `SELECT ` + personColumns + personFrom + `
JOIN subscriptions sub ON sub.subscriber_id = p.id
WHERE sub.target_id = ?
ORDER BY sub.id`

func (q *Queries) GetSubscribers(ctx context.Context, targetID int64) ([]Person, error) {
	return q.queryPeople(ctx, getSubscribers, targetID)
}

const insertShare = `INSERT INTO shares (person_id, entry_id, created) VALUES (?, ?, ?) RETURNING id`

type InsertShareParams struct {
	PersonID int64
	EntryID  int64
	Created  int64
}

func (q *Queries) InsertShare(ctx context.Context, arg InsertShareParams) (id int64, err error) {
	err = q.db.QueryRowContext(ctx, insertShare, arg.PersonID, arg.EntryID, arg.Created).Scan(&id)
	return
}

const deleteShare = `DELETE FROM shares WHERE person_id = ? AND entry_id = ?`

type DeleteShareParams struct {
	PersonID int64
	EntryID  int64
}

func (q *Queries) DeleteShare(ctx context.Context, arg DeleteShareParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteShare, arg.PersonID, arg.EntryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSharers = `SELECT ` + personColumns + personFrom + `
JOIN shares sh ON sh.person_id = p.id
WHERE sh.entry_id = ?
ORDER BY sh.created, sh.id`

func (q *Queries) GetSharers(ctx context.Context, entryID int64) ([]Person, error) {
	return q.queryPeople(ctx, getSharers, entryID)
}
