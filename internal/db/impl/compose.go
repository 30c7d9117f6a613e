package impl

import (
	"context"
	"strings"

	"github.com/Wididit/Wididit-server/internal/domain"
)

const subscriptionTargets = `SELECT target_id FROM subscriptions WHERE subscriber_id = ?`

// composer accumulates the conditions of an entry query. Every condition is ANDed with the others.
type composer struct {
	conds []string
	args  []any
}

func (c *composer) add(cond string, args ...any) {
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
}

func (c *composer) where() string {
	if len(c.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(c.conds, "\n  AND ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// escapeLike makes s match itself literally in a LIKE pattern using '\' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// targets returns what goes inside IN (...) to select the target set, or false when the query has none.
func targets(q domain.EntryQuery) (subquery string, args []any, ok bool) {
	switch {
	case q.SubscriberID != 0:
		return subscriptionTargets, []any{q.SubscriberID}, true
	case q.Authors != nil:
		// An empty list yields "IN ()", which SQLite treats as always false.
		return placeholders(len(q.Authors)), int64Args(q.Authors), true
	default:
		return "", nil, false
	}
}

// compose translates q into a WHERE clause. The result is the union of the native half, entries written by
// the target set, and the shared half, entries shared by it, narrowed by the remaining filters.
func compose(q domain.EntryQuery) (string, []any) {
	var c composer
	native, shared := q.Modes()
	sub, subArgs, hasTargets := targets(q)

	var halves []string
	var halfArgs []any
	if native {
		if hasTargets {
			halves = append(halves, "e.author_id IN ("+sub+")")
			halfArgs = append(halfArgs, subArgs...)
		} else {
			halves = append(halves, "TRUE")
		}
	}
	if shared {
		if hasTargets {
			halves = append(halves, "e.id IN (SELECT sh.entry_id FROM shares sh WHERE sh.person_id IN ("+sub+"))")
			halfArgs = append(halfArgs, subArgs...)
		} else {
			halves = append(halves, "e.id IN (SELECT sh.entry_id FROM shares sh)")
		}
	}
	c.add("("+strings.Join(halves, " OR ")+")", halfArgs...)

	if q.Tag != "" {
		c.add(`EXISTS (SELECT 1 FROM entry_tags t WHERE t.entry_id = e.id AND (t.tag = ? OR t.tag LIKE ? ESCAPE '\'))`,
			q.Tag, escapeLike(q.Tag)+"/%")
	}

	if q.InReplyToID != 0 {
		c.add("e.in_reply_to_id = ?", q.InReplyToID)
	}

	if q.RestrictIDs {
		if len(q.IDs) == 0 {
			c.add("FALSE")
		} else {
			c.add("e.id IN ("+placeholders(len(q.IDs))+")", int64Args(q.IDs)...)
		}
	}

	for _, term := range append(append([]string{}, q.Text.Phrases...), q.Text.Include...) {
		pattern := "%" + escapeLike(term) + "%"
		c.add(`(e.content LIKE ? ESCAPE '\' OR e.title LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	for _, term := range q.Text.Exclude {
		pattern := "%" + escapeLike(term) + "%"
		c.add(`NOT (e.content LIKE ? ESCAPE '\' OR e.title LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	return c.where(), c.args
}

func (d *dbImpl) QueryEntries(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error) {
	limit := d.Config.Limit(q.Limit)
	offset := max(q.Offset, 0)

	where, args := compose(q)
	args = append(args, limit, offset)

	rows, err := d.queries.QueryEntries(ctx, where, args...)
	if err != nil {
		return nil, d.HandleError(err)
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, r := range rows {
		e, err := d.completeEntry(ctx, r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
