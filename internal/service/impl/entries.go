package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/diff"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/gateway"
	"github.com/Wididit/Wididit-server/internal/search"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/internal/validate"
	"github.com/rs/zerolog/log"
)

// timelineOfCaller is the timeline value that stands for the caller's own timeline.
const timelineOfCaller = "me"

func (s *AppService) entry(ctx context.Context, userid, entryid string) (domain.Entry, error) {
	author, err := s.ResolvePerson(ctx, userid)
	if err != nil {
		return domain.Entry{}, err
	}
	seq, err := domain.ParseSeq(entryid)
	if err != nil {
		return domain.Entry{}, invalid(err)
	}
	return s.DB.GetEntry(ctx, author.ID, seq)
}

func (s *AppService) entryByRef(ctx context.Context, ref string) (domain.Entry, error) {
	r, err := domain.ParseEntryRef(ref, s.Config.Hostname)
	if err != nil {
		return domain.Entry{}, invalid(err)
	}
	author, err := s.person(ctx, r.Author)
	if err != nil {
		return domain.Entry{}, err
	}
	return s.DB.GetEntry(ctx, author.ID, r.Seq)
}

// contributors resolves userids to people, dropping duplicates and the author.
func (s *AppService) contributors(ctx context.Context, author domain.Person, userids []string) ([]domain.Person, error) {
	var people []domain.Person
	for _, u := range userids {
		if strings.TrimSpace(u) == "" {
			continue
		}
		p, err := s.ResolvePerson(ctx, u)
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown contributor %s", service.ErrInvalidInput, u)
		}
		if err != nil {
			return nil, err
		}
		if p.ID == author.ID || slices.ContainsFunc(people, func(c domain.Person) bool { return c.ID == p.ID }) {
			continue
		}
		people = append(people, p)
	}
	return people, nil
}

func validEntry(e domain.Entry) error {
	if err := validate.Entry(e.Title, e.Content, e.Generator, e.Tags); err != nil {
		return invalid(err)
	}
	return nil
}

func (s *AppService) CreateEntry(ctx context.Context, caller service.Caller, userid string, ne domain.NewEntry) (domain.Entry, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Entry{}, err
	}

	author, err := s.ResolvePerson(ctx, userid)
	if err != nil {
		return domain.Entry{}, err
	}
	if author.ID != caller.Person.ID {
		return domain.Entry{}, fmt.Errorf("%w: %s may not post as %s", service.ErrForbidden, caller.Person.UserID(), author.UserID())
	}

	e := domain.Entry{
		Author:    author,
		Title:     strings.TrimSpace(ne.Title),
		Subtitle:  ne.Subtitle,
		Summary:   ne.Summary,
		Content:   ne.Content,
		Rights:    ne.Rights,
		Generator: ne.Generator,
		Tags:      domain.NormalizeTags(ne.Tags),
	}
	if err = validEntry(e); err != nil {
		return domain.Entry{}, err
	}

	if e.Contributors, err = s.contributors(ctx, author, ne.Contributors); err != nil {
		return domain.Entry{}, err
	}

	var parentID int64
	if strings.TrimSpace(ne.InReplyTo) != "" {
		parent, err := s.entryByRef(ctx, ne.InReplyTo)
		if errors.Is(err, db.ErrNotFound) {
			return domain.Entry{}, fmt.Errorf("%w: no entry %s to reply to", service.ErrInvalidInput, ne.InReplyTo)
		}
		if err != nil {
			return domain.Entry{}, err
		}
		parentID = parent.ID
	}

	e, err = s.DB.CreateEntry(ctx, e, parentID)
	if err != nil {
		return domain.Entry{}, err
	}

	log.Info().Str("entry", e.Ref().String()).Msg("entry created")
	s.Search.IndexEntry(e)
	s.federate("create", func(g gateway.FedGateway) error { return g.PublishEntry(ctx, e) })
	return e, nil
}

func (s *AppService) GetEntry(ctx context.Context, userid, entryid string) (domain.Entry, error) {
	return s.entry(ctx, userid, entryid)
}

// EditEntry replaces the fields of an entry. Contributors may edit, but only the author changes the set of
// contributors. The entry it replies to never changes.
func (s *AppService) EditEntry(ctx context.Context, caller service.Caller, userid, entryid string, ne domain.NewEntry) (domain.Entry, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Entry{}, err
	}

	old, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return domain.Entry{}, err
	}
	if !old.CanEdit(caller.Person) {
		return domain.Entry{}, fmt.Errorf("%w: %s may not edit %s", service.ErrForbidden, caller.Person.UserID(), old.Ref())
	}
	if !s.isLocal(old.Author) {
		return domain.Entry{}, fmt.Errorf("%w: %s belongs to another server", service.ErrForbidden, old.Ref())
	}

	content := ne.Content
	if ne.Patch != "" {
		content, err = diff.ApplyPatches(old.Content, ne.Patch)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("%w: %s", service.ErrConflict, err)
		}
	}

	// A patch edit leaves the fields it does not set as they are; any other edit replaces them all.
	partial := ne.Patch != ""
	e := old
	e.Title = edited(partial, old.Title, strings.TrimSpace(ne.Title))
	e.Subtitle = edited(partial, old.Subtitle, ne.Subtitle)
	e.Summary = edited(partial, old.Summary, ne.Summary)
	e.Content = content
	e.Rights = edited(partial, old.Rights, ne.Rights)
	e.Generator = edited(partial, old.Generator, ne.Generator)
	if !partial || ne.Tags != nil {
		e.Tags = domain.NormalizeTags(ne.Tags)
	}
	e.Updated = time.Now()
	if err = validEntry(e); err != nil {
		return domain.Entry{}, err
	}

	if old.CanDelete(caller.Person) && (!partial || ne.Contributors != nil) {
		if e.Contributors, err = s.contributors(ctx, old.Author, ne.Contributors); err != nil {
			return domain.Entry{}, err
		}
	}

	e, err = s.DB.UpdateEntry(ctx, e, caller.Person.ID, diff.FindPatches(old.Content, e.Content))
	if err != nil {
		return domain.Entry{}, err
	}

	log.Info().Str("entry", e.Ref().String()).Str("editor", caller.Person.UserID().String()).Msg("entry edited")
	s.Search.IndexEntry(e)
	s.federate("update", func(g gateway.FedGateway) error { return g.PublishUpdate(ctx, e) })
	return e, nil
}

func edited(partial bool, old, value string) string {
	if partial && value == "" {
		return old
	}
	return value
}

func (s *AppService) DeleteEntry(ctx context.Context, caller service.Caller, userid, entryid string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	e, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return err
	}
	if !e.CanDelete(caller.Person) {
		return fmt.Errorf("%w: only the author may delete %s", service.ErrForbidden, e.Ref())
	}

	if err = s.DB.DeleteEntry(ctx, e.ID); err != nil {
		return err
	}

	log.Info().Str("entry", e.Ref().String()).Msg("entry deleted")
	s.Search.DeleteEntry(e.ID)
	s.federate("delete", func(g gateway.FedGateway) error { return g.PublishDelete(ctx, e) })
	return nil
}

// QueryEntries resolves the names in f and runs the composed query.
func (s *AppService) QueryEntries(ctx context.Context, caller service.Caller, f domain.EntryFilter) ([]domain.Entry, error) {
	timeline := strings.TrimSpace(f.Timeline)
	if len(f.Authors) > 0 && timeline != "" {
		return nil, fmt.Errorf("%w: authors and timeline are mutually exclusive", service.ErrInvalidInput)
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", service.ErrInvalidInput)
	}

	q := domain.EntryQuery{
		Native: f.Native,
		Shared: f.Shared,
		Limit:  s.Config.Limit(f.Limit),
		Offset: f.Offset,
	}

	for _, a := range f.Authors {
		p, err := s.ResolvePerson(ctx, a)
		if err != nil {
			return nil, err
		}
		q.Authors = append(q.Authors, p.ID)
	}

	switch {
	case timeline == timelineOfCaller:
		if err := requireCaller(caller); err != nil {
			return nil, err
		}
		q.SubscriberID = caller.Person.ID
	case timeline != "":
		p, err := s.ResolvePerson(ctx, timeline)
		if err != nil {
			return nil, err
		}
		q.SubscriberID = p.ID
	}

	if tags := domain.NormalizeTags([]string{f.Tag}); len(tags) > 0 {
		if err := validate.Tag(tags[0]); err != nil {
			return nil, invalid(err)
		}
		q.Tag = tags[0]
	}

	if strings.TrimSpace(f.InReplyTo) != "" {
		parent, err := s.entryByRef(ctx, f.InReplyTo)
		if err != nil {
			return nil, err
		}
		q.InReplyToID = parent.ID
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		if ids, ok := s.Search.Search(text, searchLimit); ok {
			q.IDs, q.RestrictIDs = ids, true
		} else {
			q.Text = search.ParseTerms(text)
		}
	}

	return s.DB.QueryEntries(ctx, q)
}

func (s *AppService) EntryHistory(ctx context.Context, userid, entryid string) ([]domain.Revision, error) {
	e, err := s.entry(ctx, userid, entryid)
	if err != nil {
		return nil, err
	}
	return s.DB.GetRevisions(ctx, e.ID)
}
