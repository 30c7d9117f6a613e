package impl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
)

func (d *dbImpl) Subscribe(ctx context.Context, subscriberID, targetID int64, apId *url.URL) (domain.Subscription, error) {
	now := time.Now()
	id, err := d.queries.InsertSubscription(ctx, queries.InsertSubscriptionParams{
		SubscriberID: subscriberID,
		TargetID:     targetID,
		ApID:         nullIRI(apId),
		Created:      now.Unix(),
	})
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("subscription of id=%d to id=%d: %w", subscriberID, targetID, d.HandleError(err))
	}

	return d.subscription(ctx, id, subscriberID, targetID, apId, now)
}

func (d *dbImpl) subscription(ctx context.Context, id, subscriberID, targetID int64, apId *url.URL, created time.Time) (s domain.Subscription, err error) {
	s = domain.Subscription{
		ID:      id,
		ApId:    apId,
		Created: created,
	}
	if s.Subscriber, err = d.GetPersonByID(ctx, subscriberID); err != nil {
		return
	}
	s.Target, err = d.GetPersonByID(ctx, targetID)
	return
}

func (d *dbImpl) Unsubscribe(ctx context.Context, subscriberID, targetID int64) (domain.Subscription, error) {
	row, err := d.queries.DeleteSubscription(ctx, queries.DeleteSubscriptionParams{
		SubscriberID: subscriberID,
		TargetID:     targetID,
	})
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("subscription of id=%d to id=%d: %w", subscriberID, targetID, d.HandleError(err))
	}

	apId, err := parseNullIRI(row.ApID)
	if err != nil {
		return domain.Subscription{}, err
	}
	return d.subscription(ctx, row.ID, subscriberID, targetID, apId, time.Unix(row.Created, 0))
}

func (d *dbImpl) GetSubscriptions(ctx context.Context, subscriberID int64) ([]domain.Person, error) {
	rows, err := d.queries.GetSubscriptions(ctx, subscriberID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return toPeople(rows)
}

func (d *dbImpl) GetSubscribers(ctx context.Context, targetID int64) ([]domain.Person, error) {
	rows, err := d.queries.GetSubscribers(ctx, targetID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return toPeople(rows)
}

func (d *dbImpl) Share(ctx context.Context, personID, entryID int64) (domain.Share, error) {
	now := time.Now()
	id, err := d.queries.InsertShare(ctx, queries.InsertShareParams{
		PersonID: personID,
		EntryID:  entryID,
		Created:  now.Unix(),
	})
	if err != nil {
		return domain.Share{}, fmt.Errorf("share of entry id=%d: %w", entryID, d.HandleError(err))
	}

	p, err := d.GetPersonByID(ctx, personID)
	if err != nil {
		return domain.Share{}, err
	}
	return domain.Share{
		ID:      id,
		Person:  p,
		EntryID: entryID,
		Created: now,
	}, nil
}

func (d *dbImpl) Unshare(ctx context.Context, personID, entryID int64) error {
	n, err := d.queries.DeleteShare(ctx, queries.DeleteShareParams{
		PersonID: personID,
		EntryID:  entryID,
	})
	if err != nil {
		return d.HandleError(err)
	}
	if n == 0 {
		return fmt.Errorf("share of entry id=%d: %w", entryID, db.ErrNotFound)
	}
	return nil
}

func (d *dbImpl) GetSharers(ctx context.Context, entryID int64) ([]domain.Person, error) {
	rows, err := d.queries.GetSharers(ctx, entryID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return toPeople(rows)
}
