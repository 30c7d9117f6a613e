package impl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/db/impl/queries"
	"github.com/Wididit/Wididit-server/internal/domain"
)

func (d *dbImpl) CreateEntry(ctx context.Context, e domain.Entry, inReplyToID int64) (domain.Entry, error) {
	unlock := d.locks.Lock(strconv.FormatInt(e.Author.ID, 10))
	defer unlock()

	now := time.Now()
	if e.Published.IsZero() {
		e.Published = now
	}
	if e.Updated.IsZero() {
		e.Updated = e.Published
	}

	var id int64
	err := d.WithTx(func(tx *queries.Queries) error {
		seq, err := tx.NextEntrySeq(ctx, e.Author.ID)
		if err != nil {
			return fmt.Errorf("next sequence number of %s: %w", e.Author.UserID(), err)
		}

		apId := e.ApId
		if apId == nil && e.Author.IsLocal(d.Config.Hostname) {
			apId = d.Config.Url.JoinPath("entry", e.Author.UserID().String(), strconv.FormatInt(seq, 10))
		}

		id, err = tx.InsertEntry(ctx, queries.InsertEntryParams{
			AuthorID:    e.Author.ID,
			Seq:         seq,
			ApID:        nullIRI(apId),
			Title:       e.Title,
			Subtitle:    e.Subtitle,
			Summary:     e.Summary,
			Content:     e.Content,
			Rights:      e.Rights,
			Generator:   e.Generator,
			InReplyToID: nullInt64(inReplyToID),
			Published:   e.Published.Unix(),
			Updated:     e.Updated.Unix(),
		})
		if err != nil {
			return err
		}

		return replaceTagsAndContributors(ctx, tx, id, e)
	})
	if err != nil {
		return domain.Entry{}, err
	}

	return d.GetEntryByID(ctx, id)
}

func replaceTagsAndContributors(ctx context.Context, tx *queries.Queries, id int64, e domain.Entry) error {
	if err := tx.DeleteEntryTags(ctx, id); err != nil {
		return err
	}
	for _, t := range e.Tags {
		if err := tx.InsertEntryTag(ctx, queries.InsertEntryTagParams{EntryID: id, Tag: t}); err != nil {
			return err
		}
	}

	if err := tx.DeleteEntryContributors(ctx, id); err != nil {
		return err
	}
	for _, c := range e.Contributors {
		err := tx.InsertEntryContributor(ctx, queries.InsertEntryContributorParams{EntryID: id, PersonID: c.ID})
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *dbImpl) completeEntry(ctx context.Context, row queries.Entry) (domain.Entry, error) {
	e, err := toEntry(row)
	if err != nil {
		return e, err
	}

	contributors, err := d.queries.GetEntryContributors(ctx, e.ID)
	if err != nil {
		return e, d.HandleError(err)
	}
	e.Contributors, err = toPeople(contributors)
	return e, err
}

func (d *dbImpl) GetEntry(ctx context.Context, authorID, seq int64) (domain.Entry, error) {
	row, err := d.queries.GetEntry(ctx, queries.GetEntryParams{
		AuthorID: authorID,
		Seq:      seq,
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("entry %d of person id=%d: %w", seq, authorID, d.HandleError(err))
	}
	return d.completeEntry(ctx, row)
}

func (d *dbImpl) GetEntryByID(ctx context.Context, id int64) (domain.Entry, error) {
	row, err := d.queries.GetEntryByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("entry id=%d: %w", id, d.HandleError(err))
	}
	return d.completeEntry(ctx, row)
}

func (d *dbImpl) GetEntryByApId(ctx context.Context, iri *url.URL) (domain.Entry, error) {
	row, err := d.queries.GetEntryByApID(ctx, iri.String())
	if err != nil {
		return domain.Entry{}, fmt.Errorf("entry with IRI %s: %w", iri, d.HandleError(err))
	}
	return d.completeEntry(ctx, row)
}

func (d *dbImpl) UpdateEntry(ctx context.Context, e domain.Entry, editorID int64, diff string) (domain.Entry, error) {
	if e.Updated.IsZero() {
		e.Updated = time.Now()
	}

	err := d.WithTx(func(tx *queries.Queries) error {
		n, err := tx.UpdateEntry(ctx, queries.UpdateEntryParams{
			Title:     e.Title,
			Subtitle:  e.Subtitle,
			Summary:   e.Summary,
			Content:   e.Content,
			Rights:    e.Rights,
			Generator: e.Generator,
			Updated:   e.Updated.Unix(),
			ID:        e.ID,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("entry id=%d: %w", e.ID, db.ErrNotFound)
		}

		if err = replaceTagsAndContributors(ctx, tx, e.ID, e); err != nil {
			return err
		}

		return tx.InsertRevision(ctx, queries.InsertRevisionParams{
			EntryID:  e.ID,
			EditorID: nullInt64(editorID),
			Diff:     diff,
			Created:  e.Updated.Unix(),
		})
	})
	if err != nil {
		return domain.Entry{}, err
	}

	return d.GetEntryByID(ctx, e.ID)
}

func (d *dbImpl) DeleteEntry(ctx context.Context, id int64) error {
	return d.WithTx(func(tx *queries.Queries) error {
		if err := tx.DetachReplies(ctx, id); err != nil {
			return err
		}

		n, err := tx.DeleteEntry(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("entry id=%d: %w", id, db.ErrNotFound)
		}
		return nil
	})
}

func (d *dbImpl) GetRevisions(ctx context.Context, entryID int64) ([]domain.Revision, error) {
	rows, err := d.queries.GetRevisions(ctx, entryID)
	if err != nil {
		return nil, d.HandleError(err)
	}

	revisions := make([]domain.Revision, len(rows))
	for i, r := range rows {
		revisions[i] = domain.Revision{
			ID:      r.ID,
			EntryID: r.EntryID,
			Editor: domain.UserID{
				Username: r.EditorUsername.String,
				Hostname: r.EditorHostname.String,
			},
			Diff:    r.Diff,
			Created: time.Unix(r.Created, 0),
		}
	}
	return revisions, nil
}
